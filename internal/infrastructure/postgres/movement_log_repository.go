package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.MovementLogRepository = (*MovementLogRepo)(nil)

// MovementLogRepo adaptador del ledger de movimientos sobre PostgreSQL
// (usable con pool o tx). El ledger es append-only: este repo no expone
// updates ni deletes y la tabla tampoco debería.
type MovementLogRepo struct {
	q Querier
}

// NewMovementLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementLogRepository(q Querier) *MovementLogRepo {
	return &MovementLogRepo{q: q}
}

const movementLogColumns = `id, transaction_id, product_id, from_location_id, to_location_id,
	quantity_moved, from_stock_level, moved_by, movement_type, notes, created_at`

// Create añade una entrada al ledger.
func (r *MovementLogRepo) Create(log *entity.MovementLog) error {
	query := `
		INSERT INTO movement_logs (` + movementLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.TransactionID, log.ProductID, log.FromLocationID, log.ToLocationID,
		log.QuantityMoved, log.FromStockLevel, log.MovedBy, log.MovementType, log.Notes, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement log: %w", err)
	}
	return nil
}

// ListByProduct lista entradas de un producto en un rango de fechas.
func (r *MovementLogRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementLog, error) {
	return r.list("product_id = $1", productID, from, to, limit, offset)
}

// ListByLocation lista entradas donde la ubicación actuó como origen o destino.
func (r *MovementLogRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.MovementLog, error) {
	return r.list("(from_location_id = $1 OR to_location_id = $1)", locationID, from, to, limit, offset)
}

func (r *MovementLogRepo) list(cond string, arg any, from, to *time.Time, limit, offset int) ([]*entity.MovementLog, error) {
	query := `SELECT ` + movementLogColumns + ` FROM movement_logs WHERE ` + cond
	args := []any{arg}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movement logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementLog
	for rows.Next() {
		var l entity.MovementLog
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.ProductID, &l.FromLocationID, &l.ToLocationID,
			&l.QuantityMoved, &l.FromStockLevel, &l.MovedBy, &l.MovementType, &l.Notes, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
