package repository

import (
	"context"

	"github.com/hugohenrick/nexum-erp/internal/domain/certificate"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
)

// CertificateRepository implementa a interface certificate.Repository
type CertificateRepository struct {
	db *database.PostgresDB
}

// NewCertificateRepository cria uma nova instância de CertificateRepository
func NewCertificateRepository(db *database.PostgresDB) certificate.Repository {
	return &CertificateRepository{db: db}
}

// Save desativa o certificado anterior e grava o novo na mesma transação
func (r *CertificateRepository) Save(ctx context.Context, cert *certificate.Certificate) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		if _, err := conn.Exec(ctx,
			`UPDATE certificates SET active = FALSE WHERE tenant_id = $1 AND active`, cert.TenantID); err != nil {
			return mapError(err, "certificado", cert.ID)
		}

		_, err := conn.Exec(ctx,
			`INSERT INTO certificates (id, tenant_id, subject, data, password, expires_at, active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			cert.ID, cert.TenantID, cert.Subject, cert.Data, cert.Password, cert.ExpiresAt,
			cert.Active, cert.CreatedAt)
		return mapError(err, "certificado", cert.ID)
	})
}

// FindActive busca o certificado ativo da empresa
func (r *CertificateRepository) FindActive(ctx context.Context, tenantID string) (*certificate.Certificate, error) {
	var c certificate.Certificate
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT id, tenant_id, subject, data, password, expires_at, active, created_at
		FROM certificates WHERE tenant_id = $1 AND active`, tenantID).Scan(
		&c.ID, &c.TenantID, &c.Subject, &c.Data, &c.Password, &c.ExpiresAt, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, mapError(err, "certificado", tenantID)
	}
	return &c, nil
}
