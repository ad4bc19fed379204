package bulkmovement

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// LedgerUseCase lecturas de auditoría sobre el ledger de movimientos.
type LedgerUseCase struct {
	logRepo repository.MovementLogRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(logRepo repository.MovementLogRepository) *LedgerUseCase {
	return &LedgerUseCase{logRepo: logRepo}
}

// List devuelve entradas del ledger filtradas por producto o por ubicación
// (exactamente uno de los dos) en un rango de fechas opcional.
func (uc *LedgerUseCase) List(ctx context.Context, productID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.MovementLog, error) {
	switch {
	case productID != "" && locationID != "":
		return nil, fmt.Errorf("%w: filtrar por producto o por ubicación, no ambos", domain.ErrInvalidInput)
	case productID != "":
		return uc.logRepo.ListByProduct(productID, from, to, limit, offset)
	case locationID != "":
		return uc.logRepo.ListByLocation(locationID, from, to, limit, offset)
	default:
		return nil, fmt.Errorf("%w: se requiere product_id o location_id", domain.ErrInvalidInput)
	}
}
