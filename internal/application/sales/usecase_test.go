package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/testutil"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// newSaleUC arma el caso de uso de ventas con el motor de stock real sobre
// repositorios en memoria.
func newSaleUC() (*sales.SaleUseCase, *testutil.MemStore) {
	s := testutil.NewMemStore()
	s.AddPart(&entity.Part{
		ID:           "p1",
		PartName:     "Filtro de aceite",
		Category:     "motor",
		SellingPrice: decimal.NewFromInt(25),
		Supplier:     "AutoRepuestos SA",
	})
	s.AddLocation(&entity.Location{ID: "l1", Name: "Bodega principal"})

	runner := &testutil.TxRunner{S: s}
	stockLedger := ledger.NewStockLedgerUseCase(runner, &testutil.PartRepo{S: s}, &testutil.LocationRepo{S: s})
	recorder := activity.NewRecorder(&testutil.ActivityRepo{S: s}, logger.New(logger.Config{Env: "production", Level: "error"}))
	uc := sales.NewSaleUseCase(runner, stockLedger, &testutil.PartRepo{S: s}, &testutil.LocationRepo{S: s}, &testutil.SaleRepo{S: s}, recorder)
	return uc, s
}

func TestCreate_DescuentaStockYPersisteUbicacion(t *testing.T) {
	uc, s := newSaleUC()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 10, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 10

	resp, err := uc.Create(context.Background(), "ana", dto.CreateSaleRequest{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   3,
	})
	require.NoError(t, err)

	// Precio del catálogo: 3 x 25 = 75.
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(75)))
	require.NotNil(t, resp.LocationID)
	assert.Equal(t, "l1", *resp.LocationID)

	assert.Equal(t, 7, s.StockQty("p1", "l1"))
	assert.Equal(t, 7, s.Parts["p1"].QuantityInStock)

	// La venta quedó persistida con la ubicación de la que salió el stock.
	sale := s.Sales[resp.ID]
	require.NotNil(t, sale)
	require.NotNil(t, sale.LocationID)
	assert.Equal(t, "l1", *sale.LocationID)

	// Actividad registrada tras el commit.
	require.Len(t, s.Activity, 1)
	assert.Equal(t, entity.ActivityCreate, s.Activity[0].Action)
	assert.Equal(t, "ana", s.Activity[0].Username)
}

func TestCreate_GarantiaNoCobraElRepuesto(t *testing.T) {
	uc, s := newSaleUC()
	s.Parts["p1"].QuantityInStock = 5

	labour := decimal.NewFromInt(10)
	resp, err := uc.Create(context.Background(), "ana", dto.CreateSaleRequest{
		PartID:            "p1",
		Quantity:          1,
		LabourCost:        &labour,
		GuaranteeIncluded: true,
	})
	require.NoError(t, err)

	// Con garantía el repuesto va a precio 0; solo se cobra la mano de obra.
	assert.True(t, resp.UnitPrice.IsZero())
	assert.True(t, resp.TotalPrice.Equal(labour))
	assert.True(t, resp.GuaranteeIncluded)
	assert.Equal(t, 4, s.Parts["p1"].QuantityInStock, "la garantía descuenta stock igual")
}

func TestCreate_PrecioManualYManoDeObra(t *testing.T) {
	uc, s := newSaleUC()
	s.Parts["p1"].QuantityInStock = 5

	unit := decimal.NewFromFloat(12.50)
	labour := decimal.NewFromInt(5)
	resp, err := uc.Create(context.Background(), "ana", dto.CreateSaleRequest{
		PartID:     "p1",
		Quantity:   2,
		UnitPrice:  &unit,
		LabourCost: &labour,
	})
	require.NoError(t, err)

	// 2 x 12.50 + 5 = 30
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(30)))
}

func TestCreate_UbicacionInexistenteRechazada(t *testing.T) {
	uc, s := newSaleUC()
	s.Parts["p1"].QuantityInStock = 5

	// Una ubicación desconocida es un error del caller, también en modo
	// legacy: sin esta verificación la venta saldría del agregado como si la
	// ubicación no se hubiera indicado.
	_, err := uc.Create(context.Background(), "ana", dto.CreateSaleRequest{
		PartID:     "p1",
		LocationID: testutil.StrPtr("no-existe"),
		Quantity:   2,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 5, s.Parts["p1"].QuantityInStock, "una venta rechazada no debe mutar stock")
	assert.Empty(t, s.Sales)
}

// repriceRunner simula un cambio de precio concurrente que se confirma justo
// antes de que comience la transacción de la venta.
type repriceRunner struct {
	inner    *testutil.TxRunner
	s        *testutil.MemStore
	newPrice decimal.Decimal
}

func (r *repriceRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
) error) error {
	r.s.Parts["p1"].SellingPrice = r.newPrice
	return r.inner.RunSale(ctx, fn)
}

func TestCreate_PrecioDelCatalogoSeLeeEnLaTransaccion(t *testing.T) {
	s := testutil.NewMemStore()
	s.AddPart(&entity.Part{
		ID:           "p1",
		PartName:     "Filtro de aceite",
		Category:     "motor",
		SellingPrice: decimal.NewFromInt(25),
	})
	s.Parts["p1"].QuantityInStock = 5

	runner := &repriceRunner{inner: &testutil.TxRunner{S: s}, s: s, newPrice: decimal.NewFromInt(30)}
	stockLedger := ledger.NewStockLedgerUseCase(&testutil.TxRunner{S: s}, &testutil.PartRepo{S: s}, &testutil.LocationRepo{S: s})
	recorder := activity.NewRecorder(&testutil.ActivityRepo{S: s}, logger.New(logger.Config{Env: "production", Level: "error"}))
	uc := sales.NewSaleUseCase(runner, stockLedger, &testutil.PartRepo{S: s}, &testutil.LocationRepo{S: s}, &testutil.SaleRepo{S: s}, recorder)

	resp, err := uc.Create(context.Background(), "ana", dto.CreateSaleRequest{PartID: "p1", Quantity: 2})
	require.NoError(t, err)

	// La venta factura el precio vigente al abrir la transacción, no la
	// lectura previa: 2 x 30 = 60.
	assert.True(t, resp.UnitPrice.Equal(decimal.NewFromInt(30)))
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(60)))
	assert.True(t, s.Sales[resp.ID].TotalPrice.Equal(decimal.NewFromInt(60)))
}

func TestCreate_LegacyGuardaUbicacionNula(t *testing.T) {
	uc, s := newSaleUC()
	s.Parts["p1"].QuantityInStock = 5

	// El repuesto no maneja stock por ubicación: la venta sale del agregado
	// y lo deja registrado con location nil, aunque el caller indicó una.
	resp, err := uc.Create(context.Background(), "ana", dto.CreateSaleRequest{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   2,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.LocationID)
	assert.Nil(t, s.Sales[resp.ID].LocationID)
	assert.Equal(t, 3, s.Parts["p1"].QuantityInStock)
}

func TestCreate_StockInsuficienteNoPersisteVenta(t *testing.T) {
	uc, s := newSaleUC()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 1, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 1

	_, err := uc.Create(context.Background(), "ana", dto.CreateSaleRequest{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   2,
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Available)
	assert.Empty(t, s.Sales, "una venta rechazada no debe quedar persistida")
	assert.Equal(t, 1, s.StockQty("p1", "l1"))
}

func TestDelete_RestauraElStockVendido(t *testing.T) {
	uc, s := newSaleUC()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 10, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 10

	resp, err := uc.Create(context.Background(), "ana", dto.CreateSaleRequest{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   4,
	})
	require.NoError(t, err)
	require.Equal(t, 6, s.StockQty("p1", "l1"))

	err = uc.Delete(context.Background(), "ana", resp.ID)
	require.NoError(t, err)

	assert.Equal(t, 10, s.StockQty("p1", "l1"), "la reversión devuelve la cantidad exacta")
	assert.Equal(t, 10, s.Parts["p1"].QuantityInStock)
	assert.Empty(t, s.Sales)
}

func TestDelete_VentaInexistente(t *testing.T) {
	uc, _ := newSaleUC()
	err := uc.Delete(context.Background(), "ana", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newSaleUC()

	_, err := uc.Create(context.Background(), "ana", dto.CreateSaleRequest{PartID: "p1", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "ana", dto.CreateSaleRequest{PartID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	negative := decimal.NewFromInt(-1)
	_, err = uc.Create(context.Background(), "ana", dto.CreateSaleRequest{PartID: "p1", Quantity: 1, UnitPrice: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
