package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo adaptador del stock por producto/ubicación sobre
// PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// Get obtiene el stock actual de un producto en una ubicación. Si no hay
// fila aún, devuelve un registro en cero.
func (r *InventoryRecordRepo) Get(productID, locationID string) (*entity.InventoryRecord, error) {
	return r.get(productID, locationID, false)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE) para
// serializar la mutación frente a movimientos concurrentes del mismo
// producto.
func (r *InventoryRecordRepo) GetForUpdate(productID, locationID string) (*entity.InventoryRecord, error) {
	return r.get(productID, locationID, true)
}

func (r *InventoryRecordRepo) get(productID, locationID string, forUpdate bool) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM inventory_records WHERE product_id = $1 AND location_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var rec entity.InventoryRecord
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&rec.ProductID, &rec.LocationID, &rec.Quantity, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza la cantidad en stock (por producto y ubicación).
func (r *InventoryRecordRepo) Upsert(rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, rec.ProductID, rec.LocationID, rec.Quantity)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}
