package http

import (
	"github.com/gofiber/fiber/v2"

	appauth "github.com/jhoicas/caja-pos/internal/application/auth"
	appbilling "github.com/jhoicas/caja-pos/internal/application/billing"
	"github.com/jhoicas/caja-pos/internal/application/usecase"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *appauth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	DenominationUC *usecase.DenominationUseCase
	GenerateBill   *appbilling.GenerateBillUseCase
	HistoryUC      *appbilling.HistoryUseCase
	PDFUC          *appbilling.PDFUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (lectura para todos; mutaciones solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)

	// Caja (lectura para todos; recuento solo admin)
	denominations := protected.Group("/denominations")
	denominationHandler := NewDenominationHandler(deps.DenominationUC)
	denominations.Get("/", denominationHandler.List)
	denominations.Put("/", RequireRole(entity.RoleAdmin), denominationHandler.Recount)

	// Ventas
	billing := protected.Group("/billing")
	billingHandler := NewBillingHandler(deps.GenerateBill)
	billing.Post("/generate", billingHandler.Generate)

	// Historial y recibos
	purchaseHandler := NewPurchaseHandler(deps.HistoryUC, deps.PDFUC)
	protected.Get("/customers/:email/purchases", purchaseHandler.HistoryByEmail)
	purchases := protected.Group("/purchases")
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Get("/:id/pdf", purchaseHandler.DownloadPDF)
}
