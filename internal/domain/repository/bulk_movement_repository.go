package repository

import (
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// BulkMovementFilter filtros del listado autenticado.
type BulkMovementFilter struct {
	Status     string
	LocationID string // coincide contra origen o destino
	CreatedBy  string
	From       *time.Time
	To         *time.Time
}

// BulkMovementRepository define el puerto de persistencia del agregado
// BulkMovement + ítems (DIP). Los métodos *ForUpdate y UpdateStatusIfPending
// existen para la disciplina de concurrencia del motor de confirmación:
// la salida de pending debe ser un único update condicional, nunca un
// read-then-write de capa de aplicación.
type BulkMovementRepository interface {
	// Create persiste el movimiento con sus ítems. El caller garantiza que
	// corre dentro de la misma transacción que el minteo del token.
	Create(movement *entity.BulkMovement) error
	GetByID(id string) (*entity.BulkMovement, error)
	GetByToken(token string) (*entity.BulkMovement, error)
	// GetByIDForUpdate bloquea la fila del movimiento (SELECT FOR UPDATE).
	GetByIDForUpdate(id string) (*entity.BulkMovement, error)
	GetByTokenForUpdate(token string) (*entity.BulkMovement, error)
	List(filter BulkMovementFilter, limit, offset int) ([]*entity.BulkMovement, error)
	Count(filter BulkMovementFilter) (int, error)
	// UpdateStatusIfPending aplica el cambio de estado solo si el estado
	// actual sigue siendo pending (compare-and-swap a nivel de fila).
	// Devuelve false si otro actor ganó la carrera.
	UpdateStatusIfPending(id, newStatus string, confirmedBy *string, confirmedAt *time.Time, recipientNotes *string) (bool, error)
	// SetItemQuantityReceived escribe la cantidad recibida de un ítem.
	// Solo se invoca dentro de la transacción de confirmación.
	SetItemQuantityReceived(itemID string, quantityReceived int) error
	// UpdateSenderNotes modifica la nota del emisor mientras el movimiento
	// siga pending.
	UpdateSenderNotes(id, senderNotes string) (bool, error)
	// MarkExpiredBefore promueve a expired todo pending con token vencido
	// antes de now. Devuelve cuántas filas cambió. Idempotente.
	MarkExpiredBefore(now time.Time) (int, error)
}
