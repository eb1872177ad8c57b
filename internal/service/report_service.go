package service

import (
	"context"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentSalesLimit = 5
	chartDays        = 7
)

// ChartPoint é o total vendido em um dia
type ChartPoint struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// Dashboard é o painel inicial da loja
type Dashboard struct {
	Products      int             `json:"products"`
	LowStock      int             `json:"low_stock"`
	Customers     int             `json:"customers"`
	SalesToday    int             `json:"sales_today"`
	RevenueToday  decimal.Decimal `json:"revenue_today"`
	RecentSales   []*sale.Sale    `json:"recent_sales"`
	Last7Days     []ChartPoint    `json:"last_7_days"`
	DaysRemaining int             `json:"days_remaining"`
}

// CommissionLine é a comissão de uma venda do operador
type CommissionLine struct {
	SaleID      string          `json:"sale_id"`
	Number      string          `json:"number"`
	FinalizedAt time.Time       `json:"finalized_at"`
	Total       decimal.Decimal `json:"total"`
	Commission  decimal.Decimal `json:"commission"`
}

// CommissionReport soma as comissões do operador no período
type CommissionReport struct {
	From  time.Time        `json:"from"`
	To    time.Time        `json:"to"`
	Sales []CommissionLine `json:"sales"`
	Total decimal.Decimal  `json:"total"`
}

// ReportService monta os painéis de consulta
type ReportService struct {
	repos Repositories
}

// NewReportService cria uma nova instância de ReportService
func NewReportService(repos Repositories) *ReportService {
	return &ReportService{repos: repos}
}

// Dashboard carrega os indicadores em paralelo
func (s *ReportService) Dashboard(ctx context.Context, actor access.Actor) (*Dashboard, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Dashboard")
	defer span.End()

	if err := authorize(actor, access.OpSaleRead); err != nil {
		return nil, err
	}

	now := time.Now()
	today := tenant.Date(now)
	d := &Dashboard{RevenueToday: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.repos.Products.List(gctx, actor.TenantID, catalog.ProductFilter{OnlyActive: true})
		if err != nil {
			return err
		}
		d.Products = len(products)
		for _, p := range products {
			if p.IsLowStock() {
				d.LowStock++
			}
		}
		return nil
	})
	g.Go(func() error {
		customers, err := s.repos.Customers.List(gctx, actor.TenantID, 0, 0)
		if err != nil {
			return err
		}
		d.Customers = len(customers)
		return nil
	})
	g.Go(func() error {
		recent, err := s.repos.Sales.ListRecent(gctx, actor.TenantID, recentSalesLimit)
		if err != nil {
			return err
		}
		d.RecentSales = recent
		return nil
	})
	g.Go(func() error {
		from := today.AddDate(0, 0, -(chartDays - 1))
		sales, err := s.repos.Sales.ListFinalized(gctx, actor.TenantID, from, today.AddDate(0, 0, 1))
		if err != nil {
			return err
		}

		totals := make(map[string]decimal.Decimal, chartDays)
		for _, sl := range sales {
			day := tenant.Date(*sl.FinalizedAt)
			key := day.Format("02/01")
			totals[key] = totals[key].Add(sl.Total)
			if day.Equal(today) {
				d.SalesToday++
				d.RevenueToday = d.RevenueToday.Add(sl.Total)
			}
		}
		for i := 0; i < chartDays; i++ {
			key := from.AddDate(0, 0, i).Format("02/01")
			d.Last7Days = append(d.Last7Days, ChartPoint{Day: key, Total: totals[key]})
		}
		return nil
	})
	g.Go(func() error {
		t, err := s.repos.Tenants.FindByID(gctx, actor.TenantID)
		if err != nil {
			return err
		}
		d.DaysRemaining = t.DaysRemaining(now)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// MyCommissions lista as comissões do próprio operador em [from, to).
// Sem período informado usa o mês corrente.
func (s *ReportService) MyCommissions(ctx context.Context, actor access.Actor, from, to time.Time) (*CommissionReport, error) {
	if err := authorize(actor, access.OpSaleRead); err != nil {
		return nil, err
	}
	if from.IsZero() || to.IsZero() {
		y, m, _ := time.Now().Date()
		from = time.Date(y, m, 1, 0, 0, 0, 0, time.Local)
		to = from.AddDate(0, 1, 0)
	}

	sales, err := s.repos.Sales.ListFinalized(ctx, actor.TenantID, from, to)
	if err != nil {
		return nil, err
	}

	report := &CommissionReport{From: from, To: to, Sales: []CommissionLine{}, Total: decimal.Zero}
	for _, sl := range sales {
		if sl.OperatorID != actor.UserID {
			continue
		}
		commission := sl.CommissionTotal()
		report.Sales = append(report.Sales, CommissionLine{
			SaleID:      sl.ID,
			Number:      sl.ShortID(),
			FinalizedAt: *sl.FinalizedAt,
			Total:       sl.Total,
			Commission:  commission,
		})
		report.Total = report.Total.Add(commission)
	}
	return report, nil
}
