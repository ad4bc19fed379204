package repository

import "github.com/jhoicas/stockflow-api/internal/domain/entity"

// InventoryRecordRepository define el puerto de stock por producto/ubicación.
type InventoryRecordRepository interface {
	Get(productID, locationID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar la
	// mutación de stock frente a movimientos concurrentes sobre el mismo
	// producto.
	GetForUpdate(productID, locationID string) (*entity.InventoryRecord, error)
	Upsert(record *entity.InventoryRecord) error
}
