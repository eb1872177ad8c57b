package service

import (
	"context"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/cash"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/domain/certificate"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/hugohenrick/nexum-erp/pkg/pkcs12"
)

// Invalidator descarta dados de assinatura em cache
type Invalidator interface {
	Invalidate(tenantID string)
}

// SignupInput são os dados do cadastro rápido de uma loja
type SignupInput struct {
	StoreName   string
	Document    string
	Segment     tenant.Segment
	ManagerName string
	Username    string
	Email       string
	Password    string
}

// SignupResult é a empresa criada com seu gerente
type SignupResult struct {
	Tenant  *tenant.Tenant
	Manager *user.User
}

// SettingsInput são os dados editáveis pela própria empresa
type SettingsInput struct {
	TradeName      string
	LegalName      string
	Document       string
	ReceiptMessage string
}

// FiscalInput são as configurações de emissão de NFC-e
type FiscalInput struct {
	Environment tenant.FiscalEnvironment
	APIToken    string
	CSCToken    string
}

// TenantService administra o cadastro das empresas
type TenantService struct {
	repos      Repositories
	tx         Transactor
	invalidate Invalidator
	logger     logger.Logger
}

// NewTenantService cria uma nova instância de TenantService
func NewTenantService(repos Repositories, tx Transactor, invalidate Invalidator, log logger.Logger) *TenantService {
	return &TenantService{repos: repos, tx: tx, invalidate: invalidate, logger: log}
}

// Signup cria a empresa em degustação, o gerente e os dados iniciais
// (caixa principal e formas de pagamento) numa única transação
func (s *TenantService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	ctx, span := tracer.Start(ctx, "TenantService.Signup")
	defer span.End()

	now := time.Now()
	t, err := tenant.NewTenant(in.StoreName, in.Document, in.Segment, now)
	if err != nil {
		return nil, domainError(err)
	}
	manager, err := user.NewUser(t.ID, in.ManagerName, in.Username, in.Email, in.Password, user.RoleManager)
	if err != nil {
		return nil, domainError(err)
	}
	register, err := cash.NewRegister(t.ID, cash.DefaultRegisterName, "Caixa padrão")
	if err != nil {
		return nil, domainError(err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repos.Tenants.Create(ctx, t); err != nil {
			return err
		}
		if err := s.repos.Users.Create(ctx, manager); err != nil {
			return err
		}
		if err := s.repos.Registers.Create(ctx, register); err != nil {
			return err
		}
		for _, m := range catalog.DefaultPaymentMethods(t.ID) {
			if err := s.repos.PaymentMethods.Create(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("loja cadastrada", "tenant_id", t.ID, "username", manager.Username)
	return &SignupResult{Tenant: t, Manager: manager}, nil
}

// Get retorna a empresa do ator
func (s *TenantService) Get(ctx context.Context, actor access.Actor) (*tenant.Tenant, error) {
	if err := authorize(actor, access.OpTenantRead); err != nil {
		return nil, err
	}
	return s.repos.Tenants.FindByID(ctx, actor.TenantID)
}

// Entitlement retorna a situação atual da assinatura
func (s *TenantService) Entitlement(ctx context.Context, actor access.Actor) (access.Entitlement, error) {
	t, err := s.Get(ctx, actor)
	if err != nil {
		return access.Entitlement{}, err
	}
	return access.Resolve(t, time.Now()), nil
}

// UpdateSettings atualiza os dados cadastrais da empresa
func (s *TenantService) UpdateSettings(ctx context.Context, actor access.Actor, in SettingsInput) (*tenant.Tenant, error) {
	ctx, span := tracer.Start(ctx, "TenantService.UpdateSettings")
	defer span.End()

	if err := authorize(actor, access.OpTenantSettings); err != nil {
		return nil, err
	}
	t, err := s.repos.Tenants.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	if err := t.UpdateProfile(in.TradeName, in.LegalName, in.Document, in.ReceiptMessage, time.Now()); err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Tenants.Update(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate.Invalidate(t.ID)
	return t, nil
}

// UpdateFiscal atualiza o ambiente e os tokens de emissão fiscal
func (s *TenantService) UpdateFiscal(ctx context.Context, actor access.Actor, in FiscalInput) (*tenant.Tenant, error) {
	if err := authorize(actor, access.OpTenantSettings); err != nil {
		return nil, err
	}
	t, err := s.repos.Tenants.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	if err := t.UpdateFiscal(in.Environment, in.APIToken, in.CSCToken, time.Now()); err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Tenants.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UploadCertificate valida o PFX com a senha e o grava como certificado ativo
func (s *TenantService) UploadCertificate(ctx context.Context, actor access.Actor, data []byte, password string) (*certificate.Certificate, error) {
	ctx, span := tracer.Start(ctx, "TenantService.UploadCertificate")
	defer span.End()

	if err := authorize(actor, access.OpTenantSettings); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domainError(certificate.ErrEmptyData)
	}

	info, err := pkcs12.Inspect(data, password)
	if err != nil {
		return nil, apperror.Invalid("certificado", "arquivo ou senha do certificado inválidos")
	}

	cert, err := certificate.NewCertificate(actor.TenantID, data, password, info.Subject, info.NotAfter, time.Now())
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Certificates.Save(ctx, cert); err != nil {
		return nil, err
	}

	s.logger.Info("certificado digital atualizado", "tenant_id", actor.TenantID, "expires_at", cert.ExpiresAt)
	return cert, nil
}

// ContractSummary monta o resumo contratual da empresa
func (s *TenantService) ContractSummary(ctx context.Context, actor access.Actor) (*tenant.ContractSummary, error) {
	t, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary := t.Contract(time.Now())
	return &summary, nil
}

// SetActive bloqueia ou libera uma empresa (somente superusuário)
func (s *TenantService) SetActive(ctx context.Context, actor access.Actor, tenantID string, active bool) (*tenant.Tenant, error) {
	ctx, span := tracer.Start(ctx, "TenantService.SetActive")
	defer span.End()

	if err := access.Authorize(actor, access.OpTenantAdmin); err != nil {
		return nil, err
	}
	t, err := s.repos.Tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if active {
		t.Activate(now)
	} else {
		t.Block(now)
	}
	if err := s.repos.Tenants.Update(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate.Invalidate(t.ID)

	s.logger.Info("status da empresa alterado", "tenant_id", t.ID, "active", active, "by", actor.UserID)
	return t, nil
}

// List lista as empresas (somente superusuário)
func (s *TenantService) List(ctx context.Context, actor access.Actor, limit, offset int) ([]*tenant.Tenant, error) {
	if err := access.Authorize(actor, access.OpTenantAdmin); err != nil {
		return nil, err
	}
	return s.repos.Tenants.List(ctx, limit, offset)
}
