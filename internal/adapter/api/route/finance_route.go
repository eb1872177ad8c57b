package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
)

// SetupLedgerRoutes configura as rotas do módulo financeiro
func SetupLedgerRoutes(router *gin.RouterGroup, ledgerController *controller.LedgerController) {
	ledger := router.Group("/ledger")
	{
		ledger.GET("", ledgerController.List)
		ledger.GET("/balance", ledgerController.Balance)
		ledger.POST("/expenses", ledgerController.AddExpense)
		ledger.PATCH("/:id/paid", ledgerController.MarkPaid)
	}
}

// SetupBillingRoutes configura planos, checkout e o webhook protegido por token
func SetupBillingRoutes(router *gin.RouterGroup, billingController *controller.BillingController, webhookAuth gin.HandlerFunc) {
	billing := router.Group("/billing")
	{
		billing.GET("/plans", billingController.Plans)
		billing.POST("/checkout/:plan", billingController.Checkout)
		billing.POST("/webhook", webhookAuth, billingController.Webhook)
	}
}

// SetupReportRoutes configura o painel e os relatórios
func SetupReportRoutes(router *gin.RouterGroup, reportController *controller.ReportController) {
	reports := router.Group("/reports")
	{
		reports.GET("/dashboard", reportController.Dashboard)
		reports.GET("/commissions", reportController.Commissions)
	}
}
