package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// StockLedgerUseCase es el motor de stock: expone las cuatro operaciones que
// mutan cantidades (Receive, Sell, ReverseSell, Transfer) de forma
// transaccional con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
//
// Mantiene las dos representaciones del mismo hecho en acuerdo: las filas por
// ubicación en part_locations y el agregado parts.quantity_in_stock. Para
// repuestos sin filas por ubicación (modo legacy) opera directamente sobre el
// agregado. El despacho entre ambos modos se decide dentro de la transacción
// según el repuesto tenga o no filas de stock, nunca según la intención del
// caller.
type StockLedgerUseCase struct {
	txRunner     TxRunner
	partRepo     repository.PartRepository
	locationRepo repository.LocationRepository
}

// NewStockLedgerUseCase construye el motor de stock.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	partRepo repository.PartRepository,
	locationRepo repository.LocationRepository,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txRunner:     txRunner,
		partRepo:     partRepo,
		locationRepo: locationRepo,
	}
}

// ReceiveInput entrada para una entrada de stock por compra.
// LocationID nil = modo legacy (suma directa al agregado del repuesto).
type ReceiveInput struct {
	PartID     string
	LocationID *string
	Quantity   int
	UnitCost   decimal.Decimal
}

// SellInput entrada para una salida de stock por venta.
// LocationID nil solo es válido para repuestos sin stock por ubicación.
type SellInput struct {
	PartID     string
	LocationID *string
	Quantity   int
}

// SellOutcome indica de dónde descontó stock la venta: la ubicación dada o,
// si LocationID es nil, el agregado legacy. El caller debe persistirlo junto
// a la venta para que la reversión restaure la representación correcta.
type SellOutcome struct {
	LocationID *string
}

// TransferInput entrada para un traslado entre ubicaciones.
type TransferInput struct {
	PartID         string
	FromLocationID string
	ToLocationID   string
	Quantity       int
	CreatedBy      string
	Notes          string
}

// Receive registra una entrada de stock en su propia transacción.
func (uc *StockLedgerUseCase) Receive(ctx context.Context, in ReceiveInput) error {
	if err := uc.validateReceive(in); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		_ repository.StockTransferRepository,
	) error {
		return uc.ReceiveInTx(stockRepo, partRepo, in)
	})
}

func (uc *StockLedgerUseCase) validateReceive(in ReceiveInput) error {
	if in.PartID == "" || in.Quantity <= 0 || in.UnitCost.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	part, err := uc.partRepo.GetByID(in.PartID)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.ErrNotFound
	}
	if in.LocationID != nil {
		loc, err := uc.locationRepo.GetByID(*in.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// ReceiveInTx aplica la entrada usando repositorios de la transacción del
// caller (el flujo de compras la usa para crear la compra en la misma tx).
// Una entrada nunca falla por disponibilidad.
func (uc *StockLedgerUseCase) ReceiveInTx(
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
	in ReceiveInput,
) error {
	if in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if in.LocationID != nil {
		// Primera recepción en una ubicación crea la fila con umbral por defecto.
		if _, err := stockRepo.ApplyDelta(in.PartID, *in.LocationID, in.Quantity, entity.DefaultMinStockLevel); err != nil {
			return err
		}
		if err := uc.recomputeAggregate(stockRepo, partRepo, in.PartID); err != nil {
			return err
		}
	} else {
		count, err := stockRepo.CountByPart(in.PartID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrLocationRequired
		}
		part, err := partRepo.GetForUpdate(in.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return domain.ErrNotFound
		}
		if err := partRepo.UpdateQuantityInStock(in.PartID, part.QuantityInStock+in.Quantity); err != nil {
			return err
		}
	}
	// Último costo unitario conocido: interés del catálogo, se conserva por compatibilidad.
	return partRepo.UpdatePurchasePrice(in.PartID, in.UnitCost)
}

// Sell registra una salida de stock en su propia transacción.
func (uc *StockLedgerUseCase) Sell(ctx context.Context, in SellInput) (*SellOutcome, error) {
	if err := uc.validateSell(in); err != nil {
		return nil, err
	}
	var outcome *SellOutcome
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		_ repository.StockTransferRepository,
	) error {
		out, err := uc.SellInTx(stockRepo, partRepo, in)
		if err != nil {
			return err
		}
		outcome = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (uc *StockLedgerUseCase) validateSell(in SellInput) error {
	if in.PartID == "" || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	part, err := uc.partRepo.GetByID(in.PartID)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.ErrNotFound
	}
	if in.LocationID != nil {
		loc, err := uc.locationRepo.GetByID(*in.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// SellInTx aplica la salida usando los repositorios de la transacción del
// caller. La verificación de disponibilidad y la resta comparten el bloqueo
// de fila: verificar y mutar en dos pasos sería una carrera que permite
// sobreventa.
func (uc *StockLedgerUseCase) SellInTx(
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
	in SellInput,
) (*SellOutcome, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	count, err := stockRepo.CountByPart(in.PartID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		// Repuesto con stock por ubicación: exigir la ubicación en vez de
		// adivinar una o caer al agregado (eso desincroniza las dos
		// representaciones).
		if in.LocationID == nil {
			return nil, domain.ErrLocationRequired
		}
		stock, err := stockRepo.GetForUpdate(in.PartID, *in.LocationID)
		if err != nil {
			return nil, err
		}
		if stock.Quantity < in.Quantity {
			return nil, &domain.InsufficientStockError{Available: stock.Quantity}
		}
		if _, err := stockRepo.ApplyDelta(in.PartID, *in.LocationID, -in.Quantity, entity.DefaultMinStockLevel); err != nil {
			return nil, err
		}
		if err := uc.recomputeAggregate(stockRepo, partRepo, in.PartID); err != nil {
			return nil, err
		}
		return &SellOutcome{LocationID: in.LocationID}, nil
	}

	// Modo legacy: el agregado del repuesto es la única fuente de verdad,
	// incluso si el caller indicó una ubicación.
	part, err := partRepo.GetForUpdate(in.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	if part.QuantityInStock < in.Quantity {
		return nil, &domain.InsufficientStockError{Available: part.QuantityInStock}
	}
	if err := partRepo.UpdateQuantityInStock(in.PartID, part.QuantityInStock-in.Quantity); err != nil {
		return nil, err
	}
	return &SellOutcome{}, nil
}

// ReverseSell restaura el stock de una venta eliminada en su propia transacción.
func (uc *StockLedgerUseCase) ReverseSell(ctx context.Context, sale *entity.Sale) error {
	if sale == nil || sale.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		_ repository.StockTransferRepository,
	) error {
		return uc.ReverseSellInTx(stockRepo, partRepo, sale)
	})
}

// ReverseSellInTx devuelve la cantidad exacta a la ubicación exacta de la que
// salió la venta (o al agregado en modo legacy). Si la fila de stock fue
// eliminada desde entonces, se recrea con el umbral por defecto: restaurar
// stock físico nunca se bloquea por una fila contable faltante. Restaurar no
// puede violar la no-negatividad, así que la operación siempre procede.
func (uc *StockLedgerUseCase) ReverseSellInTx(
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
	sale *entity.Sale,
) error {
	if sale == nil || sale.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if sale.LocationID != nil {
		if _, err := stockRepo.ApplyDelta(sale.PartID, *sale.LocationID, sale.Quantity, entity.DefaultMinStockLevel); err != nil {
			return err
		}
		return uc.recomputeAggregate(stockRepo, partRepo, sale.PartID)
	}
	part, err := partRepo.GetForUpdate(sale.PartID)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.ErrNotFound
	}
	return partRepo.UpdateQuantityInStock(sale.PartID, part.QuantityInStock+sale.Quantity)
}

// Transfer traslada stock entre dos ubicaciones en una sola transacción:
// resta en origen, suma en destino (creando la fila si no existe), recalcula
// el agregado (neto cero, pero re-afirma la consistencia) y registra el
// traslado inmutable. Un corte a mitad de camino no puede dejar cantidad
// varada ni duplicada.
func (uc *StockLedgerUseCase) Transfer(ctx context.Context, in TransferInput) (*entity.StockTransfer, error) {
	if in.PartID == "" || in.FromLocationID == "" || in.ToLocationID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	part, err := uc.partRepo.GetByID(in.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	fromLoc, err := uc.locationRepo.GetByID(in.FromLocationID)
	if err != nil {
		return nil, err
	}
	toLoc, err := uc.locationRepo.GetByID(in.ToLocationID)
	if err != nil {
		return nil, err
	}
	if fromLoc == nil || toLoc == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	transfer := &entity.StockTransfer{
		ID:             uuid.New().String(),
		PartID:         in.PartID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
		CreatedBy:      in.CreatedBy,
		CreatedAt:      now,
	}

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		transferRepo repository.StockTransferRepository,
	) error {
		// Bloquea la fila de origen; disponibilidad y resta en el mismo alcance.
		origin, err := stockRepo.GetForUpdate(in.PartID, in.FromLocationID)
		if err != nil {
			return err
		}
		if origin.Quantity < in.Quantity {
			return &domain.InsufficientStockError{Available: origin.Quantity}
		}
		if _, err := stockRepo.ApplyDelta(in.PartID, in.FromLocationID, -in.Quantity, entity.DefaultMinStockLevel); err != nil {
			return err
		}
		if _, err := stockRepo.ApplyDelta(in.PartID, in.ToLocationID, in.Quantity, entity.DefaultMinStockLevel); err != nil {
			return err
		}
		if err := uc.recomputeAggregate(stockRepo, partRepo, in.PartID); err != nil {
			return err
		}
		return transferRepo.Create(transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// recomputeAggregate escribe en parts.quantity_in_stock la suma de las filas
// de part_locations del repuesto. Siempre dentro de la misma transacción que
// la mutación que lo dispara; nunca de forma independiente.
func (uc *StockLedgerUseCase) recomputeAggregate(
	stockRepo repository.PartLocationRepository,
	partRepo repository.PartRepository,
	partID string,
) error {
	total, err := stockRepo.SumByPart(partID)
	if err != nil {
		return err
	}
	return partRepo.UpdateQuantityInStock(partID, total)
}
