package repository

import (
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/hugohenrick/nexum-erp/internal/service"
)

// NewRepositories monta todos os repositórios PostgreSQL sobre o mesmo pool
func NewRepositories(db *database.PostgresDB) service.Repositories {
	return service.Repositories{
		Tenants:        NewTenantRepository(db),
		Users:          NewUserRepository(db),
		Customers:      NewCustomerRepository(db),
		Categories:     NewCategoryRepository(db),
		Suppliers:      NewSupplierRepository(db),
		PaymentMethods: NewPaymentMethodRepository(db),
		Products:       NewProductRepository(db),
		Adjustments:    NewAdjustmentRepository(db),
		Certificates:   NewCertificateRepository(db),
		Registers:      NewRegisterRepository(db),
		Shifts:         NewShiftRepository(db),
		Sales:          NewSaleRepository(db),
		Ledger:         NewLedgerRepository(db),
		BillingEvents:  NewBillingEventRepository(db),
	}
}
