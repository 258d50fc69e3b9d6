package purchases_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/purchases"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/testutil"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// newPurchaseUC arma el caso de uso de compras con el motor de stock real
// sobre repositorios en memoria.
func newPurchaseUC() (*purchases.PurchaseUseCase, *testutil.MemStore) {
	s := testutil.NewMemStore()
	s.AddPart(&entity.Part{
		ID:           "p1",
		PartName:     "Correa de distribución",
		Category:     "motor",
		SellingPrice: decimal.NewFromInt(40),
		Supplier:     "AutoRepuestos SA",
	})
	s.AddLocation(&entity.Location{ID: "l1", Name: "Bodega principal"})

	runner := &testutil.TxRunner{S: s}
	stockLedger := ledger.NewStockLedgerUseCase(runner, &testutil.PartRepo{S: s}, &testutil.LocationRepo{S: s})
	recorder := activity.NewRecorder(&testutil.ActivityRepo{S: s}, logger.New(logger.Config{Env: "production", Level: "error"}))
	uc := purchases.NewPurchaseUseCase(runner, stockLedger, &testutil.PartRepo{S: s}, &testutil.LocationRepo{S: s}, &testutil.PurchaseRepo{S: s}, recorder)
	return uc, s
}

func TestCreate_IngresaStockYActualizaCosto(t *testing.T) {
	uc, s := newPurchaseUC()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 2, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 2

	resp, err := uc.Create(context.Background(), "ana", dto.CreatePurchaseRequest{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   8,
		UnitCost:   decimal.NewFromFloat(22.50),
	})
	require.NoError(t, err)

	// 8 x 22.50 = 180; el proveedor cae al del catálogo.
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(180)))
	assert.Equal(t, "AutoRepuestos SA", resp.Supplier)

	assert.Equal(t, 10, s.StockQty("p1", "l1"))
	assert.Equal(t, 10, s.Parts["p1"].QuantityInStock)
	assert.True(t, s.Parts["p1"].PurchasePrice.Equal(decimal.NewFromFloat(22.50)),
		"la entrada actualiza el último costo unitario")

	require.NotNil(t, s.Purchases[resp.ID])
	require.Len(t, s.Activity, 1)
	assert.Equal(t, entity.ActivityCreate, s.Activity[0].Action)
}

func TestCreate_LegacySinUbicacion(t *testing.T) {
	uc, s := newPurchaseUC()
	s.Parts["p1"].QuantityInStock = 1

	resp, err := uc.Create(context.Background(), "ana", dto.CreatePurchaseRequest{
		PartID:   "p1",
		Quantity: 4,
		UnitCost: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.LocationID)
	assert.Equal(t, 5, s.Parts["p1"].QuantityInStock)
	assert.Empty(t, s.Stock)
}

func TestCreate_UbicacionObligatoriaConStockPorUbicacion(t *testing.T) {
	uc, s := newPurchaseUC()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 3, MinStockLevel: 5})

	_, err := uc.Create(context.Background(), "ana", dto.CreatePurchaseRequest{
		PartID:   "p1",
		Quantity: 4,
		UnitCost: decimal.NewFromInt(20),
	})
	assert.ErrorIs(t, err, domain.ErrLocationRequired)
	assert.Empty(t, s.Purchases, "una compra rechazada no debe quedar persistida")
}

func TestCreate_UbicacionInexistenteRechazada(t *testing.T) {
	uc, s := newPurchaseUC()
	s.Parts["p1"].QuantityInStock = 1

	// Una ubicación desconocida se rechaza antes de abrir la transacción; de
	// otro modo moriría en la clave foránea de part_locations.
	_, err := uc.Create(context.Background(), "ana", dto.CreatePurchaseRequest{
		PartID:     "p1",
		LocationID: testutil.StrPtr("no-existe"),
		Quantity:   4,
		UnitCost:   decimal.NewFromInt(20),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.Purchases)
	assert.Empty(t, s.Stock)
	assert.Equal(t, 1, s.Parts["p1"].QuantityInStock)
}

func TestDelete_RetiraElStockIngresado(t *testing.T) {
	uc, s := newPurchaseUC()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 0, MinStockLevel: 5})

	resp, err := uc.Create(context.Background(), "ana", dto.CreatePurchaseRequest{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   6,
		UnitCost:   decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	require.Equal(t, 6, s.StockQty("p1", "l1"))

	err = uc.Delete(context.Background(), "ana", resp.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, s.StockQty("p1", "l1"))
	assert.Equal(t, 0, s.Parts["p1"].QuantityInStock)
	assert.Empty(t, s.Purchases)
}

func TestDelete_StockYaConsumidoFalla(t *testing.T) {
	uc, s := newPurchaseUC()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 0, MinStockLevel: 5})

	resp, err := uc.Create(context.Background(), "ana", dto.CreatePurchaseRequest{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   5,
		UnitCost:   decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	// Ventas intermedias consumieron parte de lo recibido.
	s.Stock[testutil.StockKey("p1", "l1")].Quantity = 2
	s.Parts["p1"].QuantityInStock = 2

	err = uc.Delete(context.Background(), "ana", resp.ID)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
	require.NotNil(t, s.Purchases[resp.ID], "la compra no debe eliminarse si la reversión falla")
	assert.Equal(t, 2, s.StockQty("p1", "l1"))
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newPurchaseUC()

	_, err := uc.Create(context.Background(), "ana", dto.CreatePurchaseRequest{PartID: "p1", Quantity: 0, UnitCost: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "ana", dto.CreatePurchaseRequest{PartID: "nope", Quantity: 1, UnitCost: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(context.Background(), "ana", dto.CreatePurchaseRequest{PartID: "p1", Quantity: 1, UnitCost: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
