package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord representa el stock actual de un producto en una ubicación.
// Lo mutan tanto las confirmaciones masivas como los movimientos manuales del
// resto del sistema; toda escritura pasa por bloqueo de fila (GetForUpdate).
type InventoryRecord struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
