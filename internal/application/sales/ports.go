package sales

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// SalesTxRunner inicia una transacción con el repositorio de ventas además de
// los del ledger, para que la fila de la venta y la mutación de stock
// compartan el mismo Commit/Rollback.
type SalesTxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
	) error) error
}

// StockLedger puerto hacia el motor de stock, en la transacción del caller.
// Lo implementa ledger.StockLedgerUseCase.
type StockLedger interface {
	SellInTx(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		in ledger.SellInput,
	) (*ledger.SellOutcome, error)
	ReverseSellInTx(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		sale *entity.Sale,
	) error
}
