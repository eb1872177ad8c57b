package certificate

import (
	"context"
)

// Repository define a interface para operações de repositório de certificados digitais
type Repository interface {
	// Save grava o certificado como ativo e desativa os anteriores da empresa
	Save(ctx context.Context, cert *Certificate) error

	// FindActive busca o certificado ativo da empresa
	FindActive(ctx context.Context, tenantID string) (*Certificate, error)
}
