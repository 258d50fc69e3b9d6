package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// PartLocationRepository define el puerto para el stock por (repuesto, ubicación).
// Usado dentro de transacciones para garantizar consistencia.
type PartLocationRepository interface {
	Get(partID, locationID string) (*entity.PartLocation, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	// Si la fila no existe devuelve una con Quantity 0 sin bloquear nada.
	GetForUpdate(partID, locationID string) (*entity.PartLocation, error)
	// ApplyDelta suma delta a la cantidad, creando la fila con defaultMinStock
	// si no existe. Re-verifica el resultado: si quedaría negativo devuelve
	// *domain.NegativeStockError y el caller debe abortar la transacción.
	ApplyDelta(partID, locationID string, delta, defaultMinStock int) (*entity.PartLocation, error)
	SetMinStockLevel(partID, locationID string, level int) error
	// SumByPart y CountByPart alimentan el recálculo del agregado y el
	// despacho legacy; deben ejecutarse en la misma transacción que la mutación.
	SumByPart(partID string) (int, error)
	CountByPart(partID string) (int, error)
	ListByPart(partID string) ([]*entity.PartLocation, error)
	ListByLocation(locationID string) ([]*entity.PartLocation, error)
	Upsert(pl *entity.PartLocation) error
	Delete(partID, locationID string) error
}
