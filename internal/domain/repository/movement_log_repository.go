package repository

import (
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// MovementLogRepository define el puerto del ledger de movimientos.
// El ledger es append-only: no hay Update ni Delete.
type MovementLogRepository interface {
	Create(log *entity.MovementLog) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementLog, error)
	ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.MovementLog, error)
}
