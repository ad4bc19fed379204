package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/bulkmovement"
	"github.com/jhoicas/stockflow-api/internal/application/directory"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
)

// DirectoryHandler expone las lecturas de soporte: directorio de
// ubicaciones, catálogo de productos y listado de auditoría del ledger.
type DirectoryHandler struct {
	directoryUC *directory.UseCase
	ledgerUC    *bulkmovement.LedgerUseCase
}

// NewDirectoryHandler construye el handler.
func NewDirectoryHandler(directoryUC *directory.UseCase, ledgerUC *bulkmovement.LedgerUseCase) *DirectoryHandler {
	return &DirectoryHandler{directoryUC: directoryUC, ledgerUC: ledgerUC}
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         directory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/locations [get]
func (h *DirectoryHandler) ListLocations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.directoryUC.ListLocations(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"locations": list, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetLocation godoc
// @Summary      Obtener una ubicación
// @Tags         directory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  entity.Location
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *DirectoryHandler) GetLocation(c *fiber.Ctx) error {
	loc, err := h.directoryUC.GetLocation(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(loc)
}

// ListProducts godoc
// @Summary      Listar productos
// @Tags         directory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/products [get]
func (h *DirectoryHandler) ListProducts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.directoryUC.ListProducts(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"products": list, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// ListMovementLogs godoc
// @Summary      Listar entradas del ledger de movimientos
// @Tags         directory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "filtrar por producto"
// @Param        location_id  query  string  false  "filtrar por ubicación (origen o destino)"
// @Param        from         query  string  false  "RFC 3339"
// @Param        to           query  string  false  "RFC 3339"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movement-logs [get]
func (h *DirectoryHandler) ListMovementLogs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC 3339"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC 3339"})
		}
		to = &t
	}

	list, err := h.ledgerUC.List(c.Context(), c.Query("product_id"), c.Query("location_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MovementLogDTO, 0, len(list))
	for _, l := range list {
		out = append(out, dto.MovementLogDTO{
			ID:             l.ID,
			TransactionID:  l.TransactionID,
			ProductID:      l.ProductID,
			FromLocationID: l.FromLocationID,
			ToLocationID:   l.ToLocationID,
			QuantityMoved:  l.QuantityMoved,
			FromStockLevel: l.FromStockLevel.String(),
			MovedBy:        l.MovedBy,
			MovementType:   l.MovementType,
			Notes:          l.Notes,
			CreatedAt:      l.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"movement_logs": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}
