package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/testutil"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

type catalogFixture struct {
	store      *testutil.MemStore
	allocation *catalog.AllocationUseCase
	locations  *catalog.LocationUseCase
	stock      *ledger.StockLedgerUseCase
}

func newCatalogFixture() *catalogFixture {
	s := testutil.NewMemStore()
	s.AddPart(&entity.Part{
		ID:           "p1",
		PartName:     "Bujía de encendido",
		Category:     "motor",
		SellingPrice: decimal.NewFromInt(6),
	})
	s.AddLocation(&entity.Location{ID: "l1", Name: "Bodega principal"})

	runner := &testutil.TxRunner{S: s}
	recorder := activity.NewRecorder(&testutil.ActivityRepo{S: s}, logger.New(logger.Config{Env: "production", Level: "error"}))
	return &catalogFixture{
		store: s,
		allocation: catalog.NewAllocationUseCase(
			runner, &testutil.PartRepo{S: s}, &testutil.LocationRepo{S: s}, &testutil.StockRepo{S: s}, recorder,
		),
		locations: catalog.NewLocationUseCase(&testutil.LocationRepo{S: s}, &testutil.StockRepo{S: s}, recorder),
		stock:     ledger.NewStockLedgerUseCase(runner, &testutil.PartRepo{S: s}, &testutil.LocationRepo{S: s}),
	}
}

func TestAllocate_CreaFilaEnCeroYConvierteElModo(t *testing.T) {
	f := newCatalogFixture()
	f.store.Parts["p1"].QuantityInStock = 7 // stock agregado previo (modo legacy)

	minStock := 3
	resp, err := f.allocation.Allocate(context.Background(), "ana", dto.AllocatePartLocationRequest{
		PartID:        "p1",
		LocationID:    "l1",
		MinStockLevel: &minStock,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Quantity, "la asignación nunca crea cantidades")
	assert.Equal(t, 3, resp.MinStockLevel)

	// Con la primera fila el agregado pasa a ser la suma de las filas.
	assert.Equal(t, 0, f.store.Parts["p1"].QuantityInStock)

	// Desde ahora las operaciones sin ubicación se rechazan.
	err = f.stock.Receive(context.Background(), ledger.ReceiveInput{
		PartID:   "p1",
		Quantity: 5,
		UnitCost: decimal.NewFromInt(2),
	})
	assert.ErrorIs(t, err, domain.ErrLocationRequired)
}

func TestAllocate_IdempotenteNoTocaCantidad(t *testing.T) {
	f := newCatalogFixture()
	f.store.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 9, MinStockLevel: 5})
	f.store.Parts["p1"].QuantityInStock = 9

	minStock := 2
	resp, err := f.allocation.Allocate(context.Background(), "ana", dto.AllocatePartLocationRequest{
		PartID:        "p1",
		LocationID:    "l1",
		MinStockLevel: &minStock,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Quantity, "re-asignar solo ajusta el umbral")
	assert.Equal(t, 2, resp.MinStockLevel)
	assert.Equal(t, 9, f.store.StockQty("p1", "l1"))
}

func TestDeallocate_SoloConCantidadCero(t *testing.T) {
	f := newCatalogFixture()
	f.store.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 4, MinStockLevel: 5})

	err := f.allocation.Deallocate("ana", "p1", "l1")
	assert.ErrorIs(t, err, domain.ErrConflict, "con stock hay que trasladarlo o venderlo primero")

	f.store.Stock[testutil.StockKey("p1", "l1")].Quantity = 0
	err = f.allocation.Deallocate("ana", "p1", "l1")
	require.NoError(t, err)
	assert.Empty(t, f.store.Stock)
}

func TestSetThreshold_FilaInexistente(t *testing.T) {
	f := newCatalogFixture()
	err := f.allocation.SetThreshold(dto.SetThresholdRequest{PartID: "p1", LocationID: "l1", MinStockLevel: 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocationDelete_RechazadaConStock(t *testing.T) {
	f := newCatalogFixture()
	f.store.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 1, MinStockLevel: 5})

	err := f.locations.Delete("ana", "l1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Con la fila en cero la eliminación procede.
	f.store.Stock[testutil.StockKey("p1", "l1")].Quantity = 0
	err = f.locations.Delete("ana", "l1")
	require.NoError(t, err)
	assert.Empty(t, f.store.Locations)
}
