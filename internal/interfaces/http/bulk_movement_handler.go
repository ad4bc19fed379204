package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/bulkmovement"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// BulkMovementHandler maneja la superficie autenticada del emisor: crear,
// listar, editar nota, cancelar, disparar el sweeper y descargar la nota de
// traslado.
type BulkMovementHandler struct {
	createUC      *bulkmovement.CreateUseCase
	documentUC    *bulkmovement.DocumentUseCase
	sweeper       *bulkmovement.Sweeper
	publicBaseURL string
}

// NewBulkMovementHandler construye el handler.
func NewBulkMovementHandler(
	createUC *bulkmovement.CreateUseCase,
	documentUC *bulkmovement.DocumentUseCase,
	sweeper *bulkmovement.Sweeper,
	publicBaseURL string,
) *BulkMovementHandler {
	return &BulkMovementHandler{
		createUC:      createUC,
		documentUC:    documentUC,
		sweeper:       sweeper,
		publicBaseURL: publicBaseURL,
	}
}

// Create godoc
// @Summary      Crear movimiento masivo
// @Tags         bulk-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBulkMovementRequest  true  "from_location_id, to_location_id, items, notes"
// @Success      201   {object}  dto.BulkMovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/bulk-movements [post]
func (h *BulkMovementHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateBulkMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := bulkmovement.CreateInput{
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		SenderNotes:    in.SenderNotes,
		CreatedBy:      userID,
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, bulkmovement.CreateItemInput{
			ProductID:    it.ProductID,
			QuantitySent: it.QuantitySent,
		})
	}
	m, err := h.createUC.Create(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementToDTO(m, h.publicBaseURL))
}

// List godoc
// @Summary      Listar movimientos masivos
// @Tags         bulk-movements
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending|confirmed|expired|cancelled"
// @Param        location_id  query  string  false  "coincide contra origen o destino"
// @Param        created_by   query  string  false  "UserID del emisor"
// @Param        from         query  string  false  "RFC 3339"
// @Param        to           query  string  false  "RFC 3339"
// @Param        limit        query  int     false  "default 20, max 100"
// @Param        offset       query  int     false  "default 0"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/bulk-movements [get]
func (h *BulkMovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	var qf dto.BulkMovementListFilter
	if err := c.QueryParser(&qf); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	filter := repository.BulkMovementFilter{
		Status:     qf.Status,
		LocationID: qf.LocationID,
		CreatedBy:  qf.CreatedBy,
	}
	if qf.From != "" {
		t, err := time.Parse(time.RFC3339, qf.From)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC 3339"})
		}
		filter.From = &t
	}
	if qf.To != "" {
		t, err := time.Parse(time.RFC3339, qf.To)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC 3339"})
		}
		filter.To = &t
	}

	list, total, err := h.createUC.List(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.BulkMovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementToDTO(m, ""))
	}
	return c.JSON(fiber.Map{
		"movements": out,
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Obtener un movimiento masivo
// @Tags         bulk-movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.BulkMovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bulk-movements/{id} [get]
func (h *BulkMovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.createUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MovementToDTO(m, h.publicBaseURL))
}

// Update godoc
// @Summary      Editar la nota del emisor (solo pending)
// @Tags         bulk-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del movimiento"
// @Param        body  body  dto.UpdateBulkMovementRequest  true  "notes"
// @Success      200  {object}  dto.BulkMovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bulk-movements/{id} [put]
func (h *BulkMovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBulkMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.createUC.UpdateSenderNotes(c.Context(), c.Params("id"), in.SenderNotes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MovementToDTO(m, h.publicBaseURL))
}

// Cancel godoc
// @Summary      Cancelar un movimiento pending
// @Tags         bulk-movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bulk-movements/{id}/cancel [post]
func (h *BulkMovementHandler) Cancel(c *fiber.Ctx) error {
	if err := h.createUC.Cancel(c.Context(), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento cancelado"})
}

// CheckExpired godoc
// @Summary      Ejecutar una pasada del sweeper de expiración
// @Tags         bulk-movements
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/bulk-movements/check-expired [post]
func (h *BulkMovementHandler) CheckExpired(c *fiber.Ctx) error {
	count, err := h.sweeper.SweepExpired(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"expired_count": count})
}

// Document godoc
// @Summary      Descargar la nota de traslado en PDF
// @Tags         bulk-movements
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bulk-movements/{id}/document [get]
func (h *BulkMovementHandler) Document(c *fiber.Ctx) error {
	data, err := h.documentUC.GenerateTransferNote(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="nota-traslado.pdf"`)
	return c.Send(data)
}
