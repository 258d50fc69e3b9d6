package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SaleFilter filtros opcionales para listar ventas.
type SaleFilter struct {
	CustomerID string
	From       *time.Time
	To         *time.Time
}

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	List(filter SaleFilter, limit, offset int) ([]*entity.Sale, error)
	Delete(id string) error
}
