package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento registrados en el ledger.
const (
	MovementTypeManual    = "manual"
	MovementTypeBulk      = "bulk"
	MovementTypeAutomatic = "automatic"
	MovementTypeSplit     = "split"
	MovementTypeMerge     = "merge"
)

// MovementLog es una entrada inmutable del ledger de movimientos: una fila
// por movimiento aplicado. Nunca se actualiza ni se borra una vez escrita.
// FromStockLevel captura el stock en origen justo antes de aplicar el
// movimiento, para auditoría de discrepancias.
type MovementLog struct {
	ID             string
	TransactionID  string // agrupa las entradas de una misma confirmación
	ProductID      string
	FromLocationID string
	ToLocationID   string
	QuantityMoved  int
	FromStockLevel decimal.Decimal
	MovedBy        string
	MovementType   string // manual, bulk, automatic, split, merge
	Notes          string
	CreatedAt      time.Time
}
