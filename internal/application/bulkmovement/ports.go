package bulkmovement

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del motor de
// confirmación: o se aplican todas las escrituras (cantidades, ledger,
// stock, estado) o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		bulkRepo repository.BulkMovementRepository,
		logRepo repository.MovementLogRepository,
		stockRepo repository.InventoryRecordRepository,
	) error) error
}

// TransferNoteGenerator genera la nota de traslado en PDF de un movimiento
// (superficie del emisor).
type TransferNoteGenerator interface {
	GenerateTransferNote(ctx context.Context, movement *entity.BulkMovement, from, to *entity.Location, publicURL string) ([]byte, error)
}
