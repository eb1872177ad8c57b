package service

import (
	"context"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/cash"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/observability"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/shopspring/decimal"
)

// CloseShiftInput são os dados do fechamento de caixa autorizado por um gerente
type CloseShiftInput struct {
	ShiftID         string
	CountedAmount   decimal.Decimal
	Notes           string
	ManagerID       string
	ManagerPassword string
}

// ShiftService controla abertura e fechamento dos turnos de caixa
type ShiftService struct {
	repos   Repositories
	tx      Transactor
	metrics *observability.Metrics
	logger  logger.Logger
}

// NewShiftService cria uma nova instância de ShiftService
func NewShiftService(repos Repositories, tx Transactor, metrics *observability.Metrics, log logger.Logger) *ShiftService {
	return &ShiftService{repos: repos, tx: tx, metrics: metrics, logger: log}
}

// OpenShift abre um turno para o ator no caixa informado. A unicidade de
// turno aberto por operador é garantida pelo armazenamento.
func (s *ShiftService) OpenShift(ctx context.Context, actor access.Actor, registerID string, openingAmount decimal.Decimal) (*cash.Shift, error) {
	ctx, span := tracer.Start(ctx, "ShiftService.OpenShift")
	defer span.End()

	if err := authorize(actor, access.OpShiftOpen); err != nil {
		return nil, err
	}
	if _, err := s.repos.Registers.FindByID(ctx, actor.TenantID, registerID); err != nil {
		return nil, err
	}

	shift, err := cash.NewShift(actor.TenantID, registerID, actor.UserID, openingAmount, time.Now())
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Shifts.Create(ctx, shift); err != nil {
		return nil, err
	}

	s.metrics.ShiftEvent("open")
	s.logger.Info("turno aberto", "tenant_id", actor.TenantID, "shift_id", shift.ID,
		"operator_id", actor.UserID, "opening_amount", openingAmount.StringFixed(2))
	return shift, nil
}

// CloseShift fecha o turno aberto do ator. O gerente informado precisa ser
// da mesma empresa, estar ativo e confirmar a senha.
func (s *ShiftService) CloseShift(ctx context.Context, actor access.Actor, in CloseShiftInput) (*cash.Shift, error) {
	ctx, span := tracer.Start(ctx, "ShiftService.CloseShift")
	defer span.End()

	if err := authorize(actor, access.OpShiftClose); err != nil {
		return nil, err
	}
	if in.CountedAmount.IsNegative() {
		return nil, domainError(cash.ErrNegativeCounted)
	}
	if err := s.checkManager(ctx, actor, in.ManagerID, in.ManagerPassword); err != nil {
		s.logger.Warn("fechamento de caixa não autorizado", "tenant_id", actor.TenantID,
			"shift_id", in.ShiftID, "operator_id", actor.UserID, "manager_id", in.ManagerID)
		return nil, err
	}

	var closed *cash.Shift
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		shift, err := s.repos.Shifts.LockOpen(ctx, actor.TenantID, in.ShiftID, actor.UserID)
		if err != nil {
			return err
		}
		sales, err := s.repos.Sales.SumFinalizedByShift(ctx, actor.TenantID, shift.ID)
		if err != nil {
			return err
		}
		if err := shift.Close(in.CountedAmount, sales, in.Notes, in.ManagerID, time.Now()); err != nil {
			return domainError(err)
		}
		if err := s.repos.Shifts.SaveClosing(ctx, shift); err != nil {
			return domainError(err)
		}
		closed = shift
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ShiftEvent("close")
	s.logger.Info("turno fechado", "tenant_id", actor.TenantID, "shift_id", closed.ID,
		"expected", closed.ExpectedAmount.StringFixed(2), "counted", closed.CountedAmount.StringFixed(2),
		"discrepancy", closed.Discrepancy.StringFixed(2), "manager_id", in.ManagerID)
	return closed, nil
}

func (s *ShiftService) checkManager(ctx context.Context, actor access.Actor, managerID, password string) error {
	denied := apperror.Forbidden("fechamento exige autorização de um gerente")
	if managerID == "" || password == "" {
		return denied
	}
	manager, err := s.repos.Users.FindByID(ctx, managerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return denied
		}
		return err
	}
	if manager.TenantID != actor.TenantID || !manager.Active || !manager.Role.CanAuthorizeClosing() {
		return denied
	}
	if !manager.CheckPassword(password) {
		return denied
	}
	return nil
}

// CurrentShift retorna o turno aberto do ator
func (s *ShiftService) CurrentShift(ctx context.Context, actor access.Actor) (*cash.Shift, error) {
	if err := authorize(actor, access.OpShiftRead); err != nil {
		return nil, err
	}
	return s.repos.Shifts.FindOpenByOperator(ctx, actor.TenantID, actor.UserID)
}

// GetShift busca um turno da empresa
func (s *ShiftService) GetShift(ctx context.Context, actor access.Actor, id string) (*cash.Shift, error) {
	if err := authorize(actor, access.OpShiftRead); err != nil {
		return nil, err
	}
	return s.repos.Shifts.FindByID(ctx, actor.TenantID, id)
}

// CreateRegister cadastra um caixa físico
func (s *ShiftService) CreateRegister(ctx context.Context, actor access.Actor, name, notes string) (*cash.Register, error) {
	if err := authorize(actor, access.OpTenantSettings); err != nil {
		return nil, err
	}
	reg, err := cash.NewRegister(actor.TenantID, name, notes)
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Registers.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// ListRegisters lista os caixas físicos
func (s *ShiftService) ListRegisters(ctx context.Context, actor access.Actor) ([]*cash.Register, error) {
	if err := authorize(actor, access.OpShiftRead); err != nil {
		return nil, err
	}
	return s.repos.Registers.List(ctx, actor.TenantID)
}
