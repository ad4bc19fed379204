package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/bulkmovement"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
)

// PublicHandler maneja la superficie pública del receptor, alcanzable solo
// con el token de capacidad del enlace. Sin autenticación.
type PublicHandler struct {
	confirmUC *bulkmovement.ConfirmUseCase
}

// NewPublicHandler construye el handler.
func NewPublicHandler(confirmUC *bulkmovement.ConfirmUseCase) *PublicHandler {
	return &PublicHandler{confirmUC: confirmUC}
}

// GetByToken godoc
// @Summary      Consultar un movimiento por su token público
// @Description  Devuelve la proyección de snapshot para el receptor. is_expired
//
//	se calcula al momento de la lectura, antes de que corra el sweeper.
//
// @Tags         public
// @Produce      json
// @Param        token  path  string  true  "token del enlace"
// @Success      200  {object}  dto.PublicBulkMovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/public/bulk-movements/{token} [get]
func (h *PublicHandler) GetByToken(c *fiber.Ctx) error {
	m, from, to, isExpired, err := h.confirmUC.GetPublicByToken(c.Context(), c.Params("token"))
	if err != nil {
		return domainError(c, err)
	}
	out := dto.PublicBulkMovementDTO{
		FromLocation:   from.Name,
		ToLocation:     to.Name,
		Status:         m.Status,
		IsExpired:      isExpired,
		TokenExpiresAt: m.TokenExpiresAt,
		SenderNotes:    m.SenderNotes,
		RecipientNotes: m.RecipientNotes,
		ConfirmedBy:    m.ConfirmedBy,
		ConfirmedAt:    m.ConfirmedAt,
		Items:          dto.ItemsToDTO(m.Items),
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar la recepción de un movimiento
// @Description  El envío debe cubrir todos los ítems del movimiento; cada
//
//	cantidad recibida debe estar entre 0 y la enviada.
//
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        token  path  string                          true  "token del enlace"
// @Param        body   body  dto.ConfirmBulkMovementRequest  true  "confirmed_by, notes, items"
// @Success      200  {object}  dto.BulkMovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/public/bulk-movements/{token}/confirm [post]
func (h *PublicHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmBulkMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := bulkmovement.ConfirmInput{
		ConfirmedBy:    in.ConfirmedBy,
		RecipientNotes: in.RecipientNotes,
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, bulkmovement.ConfirmItemInput{
			ItemID:           it.ItemID,
			QuantityReceived: it.QuantityReceived,
		})
	}
	m, err := h.confirmUC.Confirm(c.Context(), c.Params("token"), input)
	if err != nil {
		return domainError(c, err)
	}
	// Sin public_url: el enlace ya se consumió.
	return c.JSON(dto.MovementToDTO(m, ""))
}
