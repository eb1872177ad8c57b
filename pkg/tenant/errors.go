// Package tenant contém as regras de isolamento de dados por empresa
package tenant

import "errors"

// ErrTenantNotSpecified ocorre quando uma entidade é criada sem empresa
var ErrTenantNotSpecified = errors.New("empresa não especificada")
