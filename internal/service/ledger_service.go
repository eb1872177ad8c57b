package service

import (
	"context"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/ledger"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/shopspring/decimal"
)

// ExpenseInput são os dados de uma despesa lançada manualmente
type ExpenseInput struct {
	Title   string
	Amount  decimal.Decimal
	DueDate time.Time
	Paid    bool
}

// LedgerService implementa o livro financeiro da empresa
type LedgerService struct {
	entries ledger.Repository
	tx      Transactor
	logger  logger.Logger
}

// NewLedgerService cria uma nova instância de LedgerService
func NewLedgerService(entries ledger.Repository, tx Transactor, log logger.Logger) *LedgerService {
	return &LedgerService{entries: entries, tx: tx, logger: log}
}

// ListEntries lista os lançamentos, vencimentos mais recentes primeiro
func (s *LedgerService) ListEntries(ctx context.Context, actor access.Actor) ([]*ledger.Entry, error) {
	if err := authorize(actor, access.OpLedgerRead); err != nil {
		return nil, err
	}
	return s.entries.List(ctx, actor.TenantID)
}

// AddExpense lança uma despesa
func (s *LedgerService) AddExpense(ctx context.Context, actor access.Actor, in ExpenseInput) (*ledger.Entry, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.AddExpense")
	defer span.End()

	if err := authorize(actor, access.OpLedgerWrite); err != nil {
		return nil, err
	}
	entry, err := ledger.NewExpense(actor.TenantID, in.Title, in.Amount, in.DueDate, in.Paid, time.Now())
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("despesa lançada", "tenant_id", actor.TenantID, "entry_id", entry.ID, "amount", entry.Amount.StringFixed(2))
	return entry, nil
}

// MarkPaid dá baixa num lançamento em aberto
func (s *LedgerService) MarkPaid(ctx context.Context, actor access.Actor, id string) (*ledger.Entry, error) {
	if err := authorize(actor, access.OpLedgerWrite); err != nil {
		return nil, err
	}

	var entry *ledger.Entry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := s.entries.FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if err := e.MarkPaid(time.Now()); err != nil {
			return domainError(err)
		}
		if err := s.entries.MarkPaid(ctx, e); err != nil {
			return domainError(err)
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Balance soma receitas e despesas pagas
func (s *LedgerService) Balance(ctx context.Context, actor access.Actor) (ledger.Balance, error) {
	entries, err := s.ListEntries(ctx, actor)
	if err != nil {
		return ledger.Balance{}, err
	}
	return ledger.Summarize(entries), nil
}
