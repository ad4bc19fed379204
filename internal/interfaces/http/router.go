package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/bulkmovement"
	"github.com/jhoicas/stockflow-api/internal/application/directory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateUC      *bulkmovement.CreateUseCase
	ConfirmUC     *bulkmovement.ConfirmUseCase
	DocumentUC    *bulkmovement.DocumentUseCase
	LedgerUC      *bulkmovement.LedgerUseCase
	DirectoryUC   *directory.UseCase
	Sweeper       *bulkmovement.Sweeper
	JWTSecret     string
	PublicBaseURL string
}

// Router registra las rutas de la API. La superficie del emisor requiere
// Bearer Token; la del receptor solo el token de capacidad del enlace.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Superficie pública del receptor (sin autenticación)
	public := api.Group("/public/bulk-movements")
	publicHandler := NewPublicHandler(deps.ConfirmUC)
	public.Get("/:token", publicHandler.GetByToken)
	public.Post("/:token/confirm", publicHandler.Confirm)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	movements := protected.Group("/bulk-movements")
	movementHandler := NewBulkMovementHandler(deps.CreateUC, deps.DocumentUC, deps.Sweeper, deps.PublicBaseURL)
	movements.Post("/", movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Post("/check-expired", movementHandler.CheckExpired)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", movementHandler.Update)
	movements.Post("/:id/cancel", movementHandler.Cancel)
	movements.Get("/:id/document", movementHandler.Document)

	directoryHandler := NewDirectoryHandler(deps.DirectoryUC, deps.LedgerUC)
	locations := protected.Group("/locations")
	locations.Get("/", directoryHandler.ListLocations)
	locations.Get("/:id", directoryHandler.GetLocation)
	protected.Get("/products", directoryHandler.ListProducts)
	protected.Get("/movement-logs", directoryHandler.ListMovementLogs)
}
