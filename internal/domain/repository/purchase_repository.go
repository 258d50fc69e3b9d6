package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PurchaseFilter filtros opcionales para listar compras.
type PurchaseFilter struct {
	PartID string
	From   *time.Time
	To     *time.Time
}

// PurchaseRepository define el puerto de persistencia para compras.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(id string) (*entity.Purchase, error)
	List(filter PurchaseFilter, limit, offset int) ([]*entity.Purchase, error)
	Delete(id string) error
}
