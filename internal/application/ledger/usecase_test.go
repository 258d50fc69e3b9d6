package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/testutil"
)

// newLedger arma el motor de stock sobre un almacén en memoria nuevo con un
// repuesto y dos ubicaciones de prueba.
func newLedger() (*ledger.StockLedgerUseCase, *testutil.MemStore) {
	s := testutil.NewMemStore()
	s.AddPart(&entity.Part{
		ID:            "p1",
		PartName:      "Pastillas de freno",
		Category:      "frenos",
		SellingPrice:  decimal.NewFromInt(25),
		MinStockLevel: 5,
	})
	s.AddLocation(&entity.Location{ID: "l1", Name: "Bodega principal"})
	s.AddLocation(&entity.Location{ID: "l2", Name: "Mostrador"})

	uc := ledger.NewStockLedgerUseCase(
		&testutil.TxRunner{S: s},
		&testutil.PartRepo{S: s},
		&testutil.LocationRepo{S: s},
	)
	return uc, s
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas (Receive)
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_EnUbicacionCreaFilaYRecalcula(t *testing.T) {
	uc, s := newLedger()

	err := uc.Receive(context.Background(), ledger.ReceiveInput{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   10,
		UnitCost:   decimal.NewFromFloat(7.50),
	})
	require.NoError(t, err)

	// La fila se crea con el umbral por defecto y la cantidad recibida.
	row := s.Stock[testutil.StockKey("p1", "l1")]
	require.NotNil(t, row)
	assert.Equal(t, 10, row.Quantity)
	assert.Equal(t, entity.DefaultMinStockLevel, row.MinStockLevel)

	// El agregado queda igual a la suma de las filas y el costo se actualiza.
	assert.Equal(t, 10, s.Parts["p1"].QuantityInStock)
	assert.True(t, s.Parts["p1"].PurchasePrice.Equal(decimal.NewFromFloat(7.50)))
}

func TestReceive_LegacySumaAlAgregado(t *testing.T) {
	uc, s := newLedger()
	s.Parts["p1"].QuantityInStock = 3

	err := uc.Receive(context.Background(), ledger.ReceiveInput{
		PartID:   "p1",
		Quantity: 5,
		UnitCost: decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	assert.Equal(t, 8, s.Parts["p1"].QuantityInStock)
	assert.Empty(t, s.Stock, "el modo legacy no debe crear filas por ubicación")
}

func TestReceive_SinUbicacionEnRepuestoConStockPorUbicacion(t *testing.T) {
	uc, s := newLedger()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 4, MinStockLevel: 5})

	err := uc.Receive(context.Background(), ledger.ReceiveInput{
		PartID:   "p1",
		Quantity: 5,
		UnitCost: decimal.NewFromInt(8),
	})
	assert.ErrorIs(t, err, domain.ErrLocationRequired)
	assert.Equal(t, 4, s.StockQty("p1", "l1"), "un rechazo no debe tocar el stock")
}

func TestReceive_Validaciones(t *testing.T) {
	uc, _ := newLedger()

	// Cantidad no positiva
	err := uc.Receive(context.Background(), ledger.ReceiveInput{PartID: "p1", Quantity: 0, UnitCost: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Repuesto inexistente
	err = uc.Receive(context.Background(), ledger.ReceiveInput{PartID: "nope", Quantity: 1, UnitCost: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Ubicación inexistente
	err = uc.Receive(context.Background(), ledger.ReceiveInput{PartID: "p1", LocationID: testutil.StrPtr("nope"), Quantity: 1, UnitCost: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas (Sell)
// ──────────────────────────────────────────────────────────────────────────────

func TestSell_DescuentaYRecalculaAgregado(t *testing.T) {
	uc, s := newLedger()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 10, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 10

	outcome, err := uc.Sell(context.Background(), ledger.SellInput{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   4,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.LocationID)
	assert.Equal(t, "l1", *outcome.LocationID)

	assert.Equal(t, 6, s.StockQty("p1", "l1"))
	assert.Equal(t, 6, s.Parts["p1"].QuantityInStock)
	assert.Equal(t, s.SumStock("p1"), s.Parts["p1"].QuantityInStock, "agregado = suma de filas")
}

func TestSell_StockInsuficienteNoMuta(t *testing.T) {
	uc, s := newLedger()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 3, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 3

	_, err := uc.Sell(context.Background(), ledger.SellInput{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   5,
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available, "el error debe informar lo disponible")
	assert.Equal(t, 3, s.StockQty("p1", "l1"), "el rechazo no debe dejar mutación alguna")
	assert.Equal(t, 3, s.Parts["p1"].QuantityInStock)
}

func TestSell_SinUbicacionEnRepuestoConStockPorUbicacion(t *testing.T) {
	uc, s := newLedger()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 10, MinStockLevel: 5})

	_, err := uc.Sell(context.Background(), ledger.SellInput{PartID: "p1", Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrLocationRequired)
}

func TestSell_LegacyIgnoraUbicacionIndicada(t *testing.T) {
	uc, s := newLedger()
	s.Parts["p1"].QuantityInStock = 8

	// El repuesto no tiene filas por ubicación: aunque el caller indique una,
	// la salida opera sobre el agregado y el resultado lo refleja con nil.
	outcome, err := uc.Sell(context.Background(), ledger.SellInput{
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   5,
	})
	require.NoError(t, err)
	assert.Nil(t, outcome.LocationID)
	assert.Equal(t, 3, s.Parts["p1"].QuantityInStock)
	assert.Empty(t, s.Stock)
}

func TestSell_LegacyStockInsuficiente(t *testing.T) {
	uc, s := newLedger()
	s.Parts["p1"].QuantityInStock = 2

	_, err := uc.Sell(context.Background(), ledger.SellInput{PartID: "p1", Quantity: 3})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 2, s.Parts["p1"].QuantityInStock)
}

// Dos ventas concurrentes compiten por las últimas unidades: exactamente una
// debe ganar. La verificación y la resta comparten el alcance del bloqueo.
func TestSell_ConcurrentesUnSoloGanador(t *testing.T) {
	uc, s := newLedger()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 5, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 5

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Sell(context.Background(), ledger.SellInput{
				PartID:     "p1",
				LocationID: testutil.StrPtr("l1"),
				Quantity:   5,
			})
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			var insufficient *domain.InsufficientStockError
			assert.ErrorAs(t, err, &insufficient)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una venta debe ganar")
	assert.Equal(t, 0, s.StockQty("p1", "l1"))
	assert.Equal(t, 0, s.Parts["p1"].QuantityInStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversión de ventas (ReverseSell)
// ──────────────────────────────────────────────────────────────────────────────

func TestReverseSell_RestauraLaUbicacionExacta(t *testing.T) {
	uc, s := newLedger()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 6, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 6

	err := uc.ReverseSell(context.Background(), &entity.Sale{
		ID:         "s1",
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   4,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, s.StockQty("p1", "l1"))
	assert.Equal(t, 10, s.Parts["p1"].QuantityInStock)
}

func TestReverseSell_RecreaFilaEliminada(t *testing.T) {
	uc, s := newLedger()

	// La fila de la que salió la venta ya no existe (asignación retirada).
	err := uc.ReverseSell(context.Background(), &entity.Sale{
		ID:         "s1",
		PartID:     "p1",
		LocationID: testutil.StrPtr("l1"),
		Quantity:   3,
	})
	require.NoError(t, err)

	row := s.Stock[testutil.StockKey("p1", "l1")]
	require.NotNil(t, row, "restaurar stock físico recrea la fila contable")
	assert.Equal(t, 3, row.Quantity)
	assert.Equal(t, entity.DefaultMinStockLevel, row.MinStockLevel)
	assert.Equal(t, 3, s.Parts["p1"].QuantityInStock)
}

func TestReverseSell_LegacyRestauraElAgregado(t *testing.T) {
	uc, s := newLedger()
	s.Parts["p1"].QuantityInStock = 1

	err := uc.ReverseSell(context.Background(), &entity.Sale{
		ID:       "s1",
		PartID:   "p1",
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Parts["p1"].QuantityInStock)
	assert.Empty(t, s.Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados (Transfer)
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_ConservaElTotalYRegistra(t *testing.T) {
	uc, s := newLedger()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 10, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 10

	transfer, err := uc.Transfer(context.Background(), ledger.TransferInput{
		PartID:         "p1",
		FromLocationID: "l1",
		ToLocationID:   "l2",
		Quantity:       4,
		CreatedBy:      "ana",
		Notes:          "reposición de mostrador",
	})
	require.NoError(t, err)
	require.NotNil(t, transfer)
	assert.NotEmpty(t, transfer.ID)
	assert.Equal(t, "ana", transfer.CreatedBy)

	assert.Equal(t, 6, s.StockQty("p1", "l1"))
	assert.Equal(t, 4, s.StockQty("p1", "l2"))
	assert.Equal(t, 10, s.Parts["p1"].QuantityInStock, "el traslado no cambia la cantidad total")

	// El destino nuevo se crea con el umbral por defecto.
	assert.Equal(t, entity.DefaultMinStockLevel, s.Stock[testutil.StockKey("p1", "l2")].MinStockLevel)

	// Queda el registro inmutable del movimiento.
	require.Len(t, s.Transfers, 1)
	assert.Equal(t, "l1", s.Transfers[0].FromLocationID)
	assert.Equal(t, "l2", s.Transfers[0].ToLocationID)
	assert.Equal(t, 4, s.Transfers[0].Quantity)
}

func TestTransfer_StockInsuficienteNoMutaNiRegistra(t *testing.T) {
	uc, s := newLedger()
	s.AddStock(&entity.PartLocation{PartID: "p1", LocationID: "l1", Quantity: 2, MinStockLevel: 5})
	s.Parts["p1"].QuantityInStock = 2

	_, err := uc.Transfer(context.Background(), ledger.TransferInput{
		PartID:         "p1",
		FromLocationID: "l1",
		ToLocationID:   "l2",
		Quantity:       5,
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 2, s.StockQty("p1", "l1"))
	assert.Equal(t, 0, s.StockQty("p1", "l2"))
	assert.Empty(t, s.Transfers)
}

func TestTransfer_MismaUbicacionRechazado(t *testing.T) {
	uc, _ := newLedger()

	_, err := uc.Transfer(context.Background(), ledger.TransferInput{
		PartID:         "p1",
		FromLocationID: "l1",
		ToLocationID:   "l1",
		Quantity:       1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_OrigenSinFilaEsDisponibilidadCero(t *testing.T) {
	uc, _ := newLedger()

	_, err := uc.Transfer(context.Background(), ledger.TransferInput{
		PartID:         "p1",
		FromLocationID: "l1",
		ToLocationID:   "l2",
		Quantity:       1,
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)
}
