package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pintureria-api/internal/application/auth"
	"github.com/jhoicas/pintureria-api/internal/application/billing"
	"github.com/jhoicas/pintureria-api/internal/application/inventory"
	"github.com/jhoicas/pintureria-api/internal/application/ledger"
	"github.com/jhoicas/pintureria-api/internal/application/payments"
	"github.com/jhoicas/pintureria-api/internal/application/sales"
	"github.com/jhoicas/pintureria-api/internal/application/usecase"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	ProductUC      *usecase.ProductUseCase
	CustomerUC     *usecase.CustomerUseCase
	StockLedger    *inventory.StockLedger
	Replenishment  *inventory.ReplenishmentUseCase
	CustomerLedger *ledger.CustomerLedger
	Settlement     *sales.SettlementEngine
	Payments       *payments.Recorder
	Invoices       *billing.InvoiceUseCase
	Tokens         TokenVerifier
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.Tokens), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Tokens))
	adminOnly := RequireRole(entity.RoleAdmin)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	counter := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockLedger)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/stock", productHandler.Stock)

	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockLedger, deps.Replenishment)
	invGroup.Post("/intake", stockRoles, inventoryHandler.Intake)
	invGroup.Get("/lots", inventoryHandler.ListLots)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/replenishment-list", stockRoles, inventoryHandler.GetReplenishmentList)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.CustomerLedger, deps.Payments)
	customers.Post("/", counter, customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Get("/:id/ledger", customerHandler.Ledger)
	customers.Post("/:id/ledger/reconcile", adminOnly, customerHandler.Reconcile)
	customers.Get("/:id/payments", customerHandler.Payments)

	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Settlement)
	salesGroup.Post("/", counter, saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", adminOnly, saleHandler.Cancel)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	paymentHandler := NewPaymentHandler(deps.Payments)
	protected.Post("/payments", counter, paymentHandler.Record)
}
