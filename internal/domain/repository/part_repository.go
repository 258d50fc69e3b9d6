package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PartRepository define el puerto de persistencia para Part (DIP).
// QuantityInStock y PurchasePrice solo los mutan los métodos dedicados,
// invocados por el ledger dentro de su transacción.
type PartRepository interface {
	Create(part *entity.Part) error
	GetByID(id string) (*entity.Part, error)
	// GetForUpdate bloquea la fila del repuesto (SELECT FOR UPDATE) para
	// serializar mutaciones del agregado en modo legacy.
	GetForUpdate(id string) (*entity.Part, error)
	Update(part *entity.Part) error
	UpdateQuantityInStock(partID string, quantity int) error
	UpdatePurchasePrice(partID string, cost decimal.Decimal) error
	List(category, search string, limit, offset int) ([]*entity.Part, error)
	Delete(id string) error
}
