package repository

import "github.com/jhoicas/stockflow-api/internal/domain/entity"

// ProductRepository acceso de solo lectura al catálogo de productos.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
