// Package directory expone en lectura el directorio de ubicaciones y el
// catálogo de productos, colaboradores externos del flujo de movimientos.
package directory

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// UseCase lecturas del directorio.
type UseCase struct {
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(locationRepo repository.LocationRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{locationRepo: locationRepo, productRepo: productRepo}
}

// ListLocations lista ubicaciones paginadas.
func (uc *UseCase) ListLocations(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	return uc.locationRepo.List(limit, offset)
}

// GetLocation devuelve una ubicación por ID.
func (uc *UseCase) GetLocation(ctx context.Context, id string) (*entity.Location, error) {
	loc, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return loc, nil
}

// ListProducts lista productos paginados.
func (uc *UseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(limit, offset)
}
