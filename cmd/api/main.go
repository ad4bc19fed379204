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

	"github.com/jhoicas/stockflow-api/internal/application/bulkmovement"
	"github.com/jhoicas/stockflow-api/internal/application/directory"
	infrapdf "github.com/jhoicas/stockflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockflow-api/internal/interfaces/http"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/logger"
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

	ctx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	bulkRepo := postgres.NewBulkMovementRepository(pool)
	logRepo := postgres.NewMovementLogRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	tokenTTL := time.Duration(cfg.Movement.TokenTTLHours) * time.Hour
	createUC := bulkmovement.NewCreateUseCase(txRunner, bulkRepo, locationRepo, productRepo, tokenTTL)
	confirmUC := bulkmovement.NewConfirmUseCase(txRunner, bulkRepo, locationRepo)
	ledgerUC := bulkmovement.NewLedgerUseCase(logRepo)
	directoryUC := directory.NewUseCase(locationRepo, productRepo)
	sweeper := bulkmovement.NewSweeper(bulkRepo, log)

	// PDF: nota de traslado imprimible con el QR del enlace público
	noteGenerator := infrapdf.NewMarotoTransferNoteGenerator()
	documentUC := bulkmovement.NewDocumentUseCase(bulkRepo, locationRepo, noteGenerator, cfg.Movement.PublicBaseURL)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs. Solo se monta si el
	// artefacto generado con swag init está presente; sin él la UI quedaría rota.
	const swaggerFile = "./docs/swagger.json"
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stockflow API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateUC:      createUC,
		ConfirmUC:     confirmUC,
		DocumentUC:    documentUC,
		LedgerUC:      ledgerUC,
		DirectoryUC:   directoryUC,
		Sweeper:       sweeper,
		JWTSecret:     cfg.JWT.Secret,
		PublicBaseURL: cfg.Movement.PublicBaseURL,
	})

	// Sweeper de expiración: respaldo periódico del chequeo perezoso del
	// motor de confirmación.
	go sweeper.Run(ctx, time.Duration(cfg.Movement.SweepIntervalMin)*time.Minute)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancelApp()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
