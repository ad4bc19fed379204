package repository

import "github.com/jhoicas/stockflow-api/internal/domain/entity"

// LocationRepository acceso de solo lectura al directorio de ubicaciones.
type LocationRepository interface {
	GetByID(id string) (*entity.Location, error)
	List(limit, offset int) ([]*entity.Location, error)
}
