package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/purchases"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements the application runners.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ sales.SalesTxRunner = (*TxRunner)(nil)
var _ purchases.PurchasesTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
	transferRepo repository.StockTransferRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewPartLocationRepository(tx)
	partRepo := NewPartRepository(tx)
	transferRepo := NewStockTransferRepository(tx)

	if err := fn(stockRepo, partRepo, transferRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale inicia una transacción con el repo de ventas además de los del
// ledger (la fila de la venta y la mutación de stock comparten el Commit).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saleRepo := NewSaleRepository(tx)
	stockRepo := NewPartLocationRepository(tx)
	partRepo := NewPartRepository(tx)

	if err := fn(saleRepo, stockRepo, partRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPurchase inicia una transacción con el repo de compras además de los del ledger.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	purchaseRepo := NewPurchaseRepository(tx)
	stockRepo := NewPartLocationRepository(tx)
	partRepo := NewPartRepository(tx)

	if err := fn(purchaseRepo, stockRepo, partRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
