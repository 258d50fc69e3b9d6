package purchases

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// PurchasesTxRunner inicia una transacción con el repositorio de compras
// además de los del ledger: la fila de la compra y la entrada de stock
// comparten el mismo Commit/Rollback.
type PurchasesTxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
	) error) error
}

// StockLedger puerto hacia el motor de stock, en la transacción del caller.
// Lo implementa ledger.StockLedgerUseCase. Eliminar una compra se modela como
// la salida inversa: SellInTx falla con InsufficientStockError si ventas
// intermedias ya consumieron ese stock.
type StockLedger interface {
	ReceiveInTx(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		in ledger.ReceiveInput,
	) error
	SellInTx(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		in ledger.SellInput,
	) (*ledger.SellOutcome, error)
}
