// Package memory implementa todos os repositórios em memória, com unidade de
// trabalho e as mesmas restrições de unicidade do PostgreSQL. É usado em
// desenvolvimento (STORAGE=memory) e nos testes de serviço.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/hugohenrick/nexum-erp/internal/domain/billing"
	"github.com/hugohenrick/nexum-erp/internal/domain/cash"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/domain/certificate"
	"github.com/hugohenrick/nexum-erp/internal/domain/customer"
	"github.com/hugohenrick/nexum-erp/internal/domain/ledger"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/service"
)

type dataset struct {
	tenants        map[string]tenant.Tenant
	users          map[string]user.User
	customers      map[string]customer.Customer
	categories     map[string]catalog.Category
	suppliers      map[string]catalog.Supplier
	paymentMethods map[string]catalog.PaymentMethod
	products       map[string]catalog.Product
	adjustments    map[string]catalog.StockAdjustment
	certificates   map[string]certificate.Certificate
	registers      map[string]cash.Register
	shifts         map[string]cash.Shift
	sales          map[string]sale.Sale
	saleItems      map[string][]sale.Item
	ledger         map[string]ledger.Entry
	billingEvents  map[string]billing.ProcessedEvent
}

func newDataset() *dataset {
	return &dataset{
		tenants:        map[string]tenant.Tenant{},
		users:          map[string]user.User{},
		customers:      map[string]customer.Customer{},
		categories:     map[string]catalog.Category{},
		suppliers:      map[string]catalog.Supplier{},
		paymentMethods: map[string]catalog.PaymentMethod{},
		products:       map[string]catalog.Product{},
		adjustments:    map[string]catalog.StockAdjustment{},
		certificates:   map[string]certificate.Certificate{},
		registers:      map[string]cash.Register{},
		shifts:         map[string]cash.Shift{},
		sales:          map[string]sale.Sale{},
		saleItems:      map[string][]sale.Item{},
		ledger:         map[string]ledger.Entry{},
		billingEvents:  map[string]billing.ProcessedEvent{},
	}
}

// clone copia os mapas. Os valores são gravados sempre por substituição,
// então uma cópia rasa basta para restaurar o estado.
func (d *dataset) clone() *dataset {
	return &dataset{
		tenants:        maps.Clone(d.tenants),
		users:          maps.Clone(d.users),
		customers:      maps.Clone(d.customers),
		categories:     maps.Clone(d.categories),
		suppliers:      maps.Clone(d.suppliers),
		paymentMethods: maps.Clone(d.paymentMethods),
		products:       maps.Clone(d.products),
		adjustments:    maps.Clone(d.adjustments),
		certificates:   maps.Clone(d.certificates),
		registers:      maps.Clone(d.registers),
		shifts:         maps.Clone(d.shifts),
		sales:          maps.Clone(d.sales),
		saleItems:      maps.Clone(d.saleItems),
		ledger:         maps.Clone(d.ledger),
		billingEvents:  maps.Clone(d.billingEvents),
	}
}

// Store guarda os dados em memória.
// txMu serializa transações e escritas avulsas; mu protege o acesso aos mapas.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *dataset
}

// NewStore cria um armazenamento vazio
func NewStore() *Store {
	return &Store{data: newDataset()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// WithinTx executa fn de forma atômica: em caso de erro todas as escritas
// feitas com o contexto recebido por fn são descartadas.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) write(ctx context.Context, fn func(d *dataset) error) error {
	if !s.inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) read(fn func(d *dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Ping satisfaz o health check
func (s *Store) Ping(context.Context) error {
	return nil
}

// Acessores dos repositórios

func (s *Store) Tenants() tenant.Repository {
	return tenantRepo{s}
}

func (s *Store) Users() user.Repository {
	return userRepo{s}
}

func (s *Store) Customers() customer.Repository {
	return customerRepo{s}
}

func (s *Store) Categories() catalog.CategoryRepository {
	return categoryRepo{s}
}

func (s *Store) Suppliers() catalog.SupplierRepository {
	return supplierRepo{s}
}

func (s *Store) PaymentMethods() catalog.PaymentMethodRepository {
	return paymentMethodRepo{s}
}

func (s *Store) Products() catalog.ProductRepository {
	return productRepo{s}
}

func (s *Store) Adjustments() catalog.AdjustmentRepository {
	return adjustmentRepo{s}
}

func (s *Store) Certificates() certificate.Repository {
	return certificateRepo{s}
}

func (s *Store) Registers() cash.RegisterRepository {
	return registerRepo{s}
}

func (s *Store) Shifts() cash.ShiftRepository {
	return shiftRepo{s}
}

func (s *Store) Sales() sale.Repository {
	return saleRepo{s}
}

func (s *Store) Ledger() ledger.Repository {
	return ledgerRepo{s}
}

func (s *Store) BillingEvents() billing.EventStore {
	return eventStore{s}
}

// Repositories monta o conjunto de repositórios usado pelos serviços
func (s *Store) Repositories() service.Repositories {
	return service.Repositories{
		Tenants:        s.Tenants(),
		Users:          s.Users(),
		Customers:      s.Customers(),
		Categories:     s.Categories(),
		Suppliers:      s.Suppliers(),
		PaymentMethods: s.PaymentMethods(),
		Products:       s.Products(),
		Adjustments:    s.Adjustments(),
		Certificates:   s.Certificates(),
		Registers:      s.Registers(),
		Shifts:         s.Shifts(),
		Sales:          s.Sales(),
		Ledger:         s.Ledger(),
		BillingEvents:  s.BillingEvents(),
	}
}
