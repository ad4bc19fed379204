package entity

import "time"

// Estados del ciclo de vida de un movimiento masivo.
// pending es el único estado inicial; los otros tres son terminales.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// IsTerminalStatus indica si un estado no admite más transiciones.
func IsTerminalStatus(s string) bool {
	return s == StatusConfirmed || s == StatusExpired || s == StatusCancelled
}

// BulkMovement representa una intención de traslado de varios productos
// entre dos ubicaciones, confirmada una sola vez por el receptor mediante
// un enlace público protegido por token.
type BulkMovement struct {
	ID             string
	FromLocationID string
	ToLocationID   string
	Status         string // pending, confirmed, expired, cancelled
	PublicToken    string // capability: quien lo posee puede confirmar
	TokenExpiresAt time.Time
	SenderNotes    string // nota del emisor, fijada al crear
	RecipientNotes string // nota del receptor, fijada al confirmar
	ConfirmedBy    string // identidad libre del receptor
	ConfirmedAt    *time.Time
	CreatedBy      string // UserID del emisor
	CreatedAt      time.Time
	Items          []*BulkMovementItem
}

// IsExpiredAt indica si el token del movimiento ya venció en el instante dado.
// No consulta Status: un movimiento puede seguir pending con token vencido
// hasta que el sweeper o una confirmación tardía lo promuevan a expired.
func (m *BulkMovement) IsExpiredAt(now time.Time) bool {
	return now.After(m.TokenExpiresAt)
}

// BulkMovementItem es una línea de producto dentro de un BulkMovement.
// Los campos SKU, ProductName y ProductImageURL son un snapshot tomado al
// crear el movimiento, para que el receptor vea lo que se envió aunque el
// producto cambie después.
type BulkMovementItem struct {
	ID               string
	BulkMovementID   string
	ProductID        string
	SKU              string
	ProductName      string
	ProductImageURL  string
	QuantitySent     int
	QuantityReceived *int // nil mientras pending; se escribe una sola vez al confirmar
}
