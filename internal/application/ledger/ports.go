package ledger

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// verificación de disponibilidad, mutación, recálculo del agregado y registro
// del traslado comparten el mismo Commit/Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		transferRepo repository.StockTransferRepository,
	) error) error
}
