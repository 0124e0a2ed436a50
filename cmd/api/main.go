package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appauth "github.com/jhoicas/caja-pos/internal/application/auth"
	appbilling "github.com/jhoicas/caja-pos/internal/application/billing"
	"github.com/jhoicas/caja-pos/internal/application/usecase"
	"github.com/jhoicas/caja-pos/internal/infrastructure/mailer"
	infrapdf "github.com/jhoicas/caja-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/caja-pos/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/caja-pos/internal/interfaces/http"
	"github.com/jhoicas/caja-pos/pkg/config"
	"github.com/jhoicas/caja-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	denominationRepo := postgres.NewDenominationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Si SMTP no está configurado el mailer queda deshabilitado; la venta
	// nunca depende del correo.
	var billMailer appbilling.ReceiptMailer
	if m := mailer.NewSMTPMailer(cfg.SMTP); m != nil {
		billMailer = m
	} else {
		log.Warn().Msg("SMTP sin configurar: recibos por correo deshabilitados")
	}
	generateBillUC := appbilling.NewGenerateBillUseCase(txRunner, customerRepo, billMailer, log)
	historyUC := appbilling.NewHistoryUseCase(customerRepo, purchaseRepo)
	pdfGenerator := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	pdfUC := appbilling.NewPDFUseCase(purchaseRepo, customerRepo, pdfGenerator)

	productUC := usecase.NewProductUseCase(productRepo)
	denominationUC := usecase.NewDenominationUseCase(denominationRepo)
	authUC := appauth.NewAuthUseCase(userRepo, appauth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	registerSwagger(app, log, "./docs/swagger.json")

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		DenominationUC: denominationUC,
		GenerateBill:   generateBillUC,
		HistoryUC:      historyUC,
		PDFUC:          pdfUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// registerSwagger monta la UI de swagger solo si el swagger.json generado por
// swag existe: el middleware lee el archivo al registrarse y entra en pánico
// si falta, y la API debe poder arrancar sin él.
func registerSwagger(app *fiber.App, log *logger.Logger, filePath string) {
	if _, err := os.Stat(filePath); err != nil {
		log.Warn().Str("file", filePath).Msg("swagger.json no encontrado, UI de docs deshabilitada")
		return
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    "Caja POS API",
	}))
}
