package dto

import (
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// CreateBulkMovementRequest body para POST /api/bulk-movements.
type CreateBulkMovementRequest struct {
	FromLocationID string                  `json:"from_location_id"`
	ToLocationID   string                  `json:"to_location_id"`
	SenderNotes    string                  `json:"notes,omitempty"`
	Items          []CreateBulkItemRequest `json:"items"`
}

// CreateBulkItemRequest una línea de producto del movimiento a crear.
type CreateBulkItemRequest struct {
	ProductID    string `json:"product_id"`
	QuantitySent int    `json:"quantity_sent"`
}

// UpdateBulkMovementRequest body para PUT /api/bulk-movements/:id.
// Solo admite la nota del emisor mientras el movimiento siga pending.
type UpdateBulkMovementRequest struct {
	SenderNotes string `json:"notes"`
}

// ConfirmBulkMovementRequest body para POST /public/bulk-movements/:token/confirm.
// Items debe cubrir exactamente todos los ítems del movimiento.
type ConfirmBulkMovementRequest struct {
	ConfirmedBy    string               `json:"confirmed_by"`
	RecipientNotes string               `json:"notes,omitempty"`
	Items          []ConfirmItemRequest `json:"items"`
}

// ConfirmItemRequest cantidad recibida de un ítem.
type ConfirmItemRequest struct {
	ItemID           string `json:"item_id"`
	QuantityReceived int    `json:"quantity_received"`
}

// BulkMovementListFilter filtros query del listado autenticado.
type BulkMovementListFilter struct {
	Status     string `query:"status"`
	LocationID string `query:"location_id"`
	CreatedBy  string `query:"created_by"`
	From       string `query:"from"` // RFC 3339
	To         string `query:"to"`
}

// BulkMovementItemDTO proyección de un ítem en respuestas.
type BulkMovementItemDTO struct {
	ID               string `json:"id"`
	ProductID        string `json:"product_id"`
	SKU              string `json:"sku"`
	ProductName      string `json:"product_name"`
	ProductImageURL  string `json:"product_image_url,omitempty"`
	QuantitySent     int    `json:"quantity_sent"`
	QuantityReceived *int   `json:"quantity_received"`
}

// BulkMovementDTO proyección completa (superficie autenticada).
type BulkMovementDTO struct {
	ID             string                `json:"id"`
	FromLocationID string                `json:"from_location_id"`
	ToLocationID   string                `json:"to_location_id"`
	Status         string                `json:"status"`
	PublicURL      string                `json:"public_url,omitempty"`
	TokenExpiresAt time.Time             `json:"token_expires_at"`
	SenderNotes    string                `json:"sender_notes,omitempty"`
	RecipientNotes string                `json:"recipient_notes,omitempty"`
	ConfirmedBy    string                `json:"confirmed_by,omitempty"`
	ConfirmedAt    *time.Time            `json:"confirmed_at,omitempty"`
	CreatedBy      string                `json:"created_by,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	Items          []BulkMovementItemDTO `json:"items"`
}

// PublicBulkMovementDTO proyección del enlace público: solo los campos de
// snapshot que el receptor necesita, sin identificadores internos más allá
// de lo que el propio ítem ya expone.
type PublicBulkMovementDTO struct {
	FromLocation   string                `json:"from_location"`
	ToLocation     string                `json:"to_location"`
	Status         string                `json:"status"`
	IsExpired      bool                  `json:"is_expired"`
	TokenExpiresAt time.Time             `json:"token_expires_at"`
	SenderNotes    string                `json:"sender_notes,omitempty"`
	RecipientNotes string                `json:"recipient_notes,omitempty"`
	ConfirmedBy    string                `json:"confirmed_by,omitempty"`
	ConfirmedAt    *time.Time            `json:"confirmed_at,omitempty"`
	Items          []BulkMovementItemDTO `json:"items"`
}

// MovementLogDTO proyección de una entrada del ledger.
type MovementLogDTO struct {
	ID             string    `json:"id"`
	TransactionID  string    `json:"transaction_id"`
	ProductID      string    `json:"product_id"`
	FromLocationID string    `json:"from_location_id"`
	ToLocationID   string    `json:"to_location_id"`
	QuantityMoved  int       `json:"quantity_moved"`
	FromStockLevel string    `json:"from_stock_level"`
	MovedBy        string    `json:"moved_by"`
	MovementType   string    `json:"movement_type"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ItemsToDTO mapea los ítems de la entidad a su proyección.
func ItemsToDTO(items []*entity.BulkMovementItem) []BulkMovementItemDTO {
	out := make([]BulkMovementItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, BulkMovementItemDTO{
			ID:               it.ID,
			ProductID:        it.ProductID,
			SKU:              it.SKU,
			ProductName:      it.ProductName,
			ProductImageURL:  it.ProductImageURL,
			QuantitySent:     it.QuantitySent,
			QuantityReceived: it.QuantityReceived,
		})
	}
	return out
}

// MovementToDTO mapea la entidad a la proyección autenticada. publicBaseURL
// vacío omite el public_url (listados).
func MovementToDTO(m *entity.BulkMovement, publicBaseURL string) BulkMovementDTO {
	d := BulkMovementDTO{
		ID:             m.ID,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		Status:         m.Status,
		TokenExpiresAt: m.TokenExpiresAt,
		SenderNotes:    m.SenderNotes,
		RecipientNotes: m.RecipientNotes,
		ConfirmedBy:    m.ConfirmedBy,
		ConfirmedAt:    m.ConfirmedAt,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
		Items:          ItemsToDTO(m.Items),
	}
	if publicBaseURL != "" && m.Status == entity.StatusPending {
		d.PublicURL = publicBaseURL + "/api/public/bulk-movements/" + m.PublicToken
	}
	return d
}
