package tenant

// Scoped é implementado por toda entidade pertencente a uma empresa
type Scoped interface {
	Owner() string
}

// Require valida que um ID de empresa foi informado na criação de uma entidade
func Require(tenantID string) error {
	if tenantID == "" {
		return ErrTenantNotSpecified
	}
	return nil
}

// Owns verifica se o registro pertence à empresa informada
func Owns(tenantID string, record Scoped) bool {
	return tenantID != "" && record != nil && record.Owner() == tenantID
}
