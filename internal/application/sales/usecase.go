package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// SaleUseCase registra y elimina ventas. La fila de la venta y la salida de
// stock se aplican en una sola transacción vía el ledger; la decisión de
// precio (garantía = repuesto sin cobro) es un asunto comercial que determina
// dinero, no cantidades.
type SaleUseCase struct {
	txRunner     SalesTxRunner
	stock        StockLedger
	partRepo     repository.PartRepository
	locationRepo repository.LocationRepository
	saleRepo     repository.SaleRepository
	recorder     *activity.Recorder
}

// NewSaleUseCase construye el caso de uso de ventas.
func NewSaleUseCase(
	txRunner SalesTxRunner,
	stock StockLedger,
	partRepo repository.PartRepository,
	locationRepo repository.LocationRepository,
	saleRepo repository.SaleRepository,
	recorder *activity.Recorder,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		stock:        stock,
		partRepo:     partRepo,
		locationRepo: locationRepo,
		saleRepo:     saleRepo,
		recorder:     recorder,
	}
}

// Create registra la venta descontando stock de forma atómica.
// Con garantía incluida el precio unitario del repuesto es 0.
func (uc *SaleUseCase) Create(ctx context.Context, username string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.PartID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	part, err := uc.partRepo.GetByID(in.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	// Una ubicación desconocida es un error del caller; se rechaza antes de
	// abrir la transacción, igual que en las operaciones sueltas del ledger.
	if in.LocationID != nil {
		loc, err := uc.locationRepo.GetByID(*in.LocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
	}

	unitPrice := part.SellingPrice
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
	}
	if in.GuaranteeIncluded {
		unitPrice = decimal.Zero
	}
	labourCost := decimal.Zero
	if in.LabourCost != nil {
		labourCost = *in.LabourCost
	}
	if unitPrice.LessThan(decimal.Zero) || labourCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	totalPrice := unitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))).Add(labourCost)

	now := time.Now()
	sale := &entity.Sale{
		ID:                uuid.New().String(),
		PartID:            in.PartID,
		CustomerID:        in.CustomerID,
		ServiceRecordID:   in.ServiceRecordID,
		Quantity:          in.Quantity,
		UnitPrice:         unitPrice,
		LabourCost:        labourCost,
		TotalPrice:        totalPrice,
		GuaranteeIncluded: in.GuaranteeIncluded,
		Notes:             in.Notes,
		SaleDate:          now,
		CreatedAt:         now,
	}

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
	) error {
		// El precio del catálogo se relee dentro de la transacción: facturar
		// con la lectura previa abriría una carrera con un cambio de precio
		// concurrente.
		if in.UnitPrice == nil && !in.GuaranteeIncluded {
			current, err := partRepo.GetByID(in.PartID)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrNotFound
			}
			sale.UnitPrice = current.SellingPrice
			sale.TotalPrice = current.SellingPrice.Mul(decimal.NewFromInt(int64(in.Quantity))).Add(sale.LabourCost)
		}
		outcome, err := uc.stock.SellInTx(stockRepo, partRepo, ledger.SellInput{
			PartID:     in.PartID,
			LocationID: in.LocationID,
			Quantity:   in.Quantity,
		})
		if err != nil {
			return err
		}
		// La venta guarda de dónde salió el stock realmente (nil = agregado
		// legacy) para que la reversión restaure la representación correcta.
		sale.LocationID = outcome.LocationID
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}

	guarantee := ""
	if in.GuaranteeIncluded {
		guarantee = " (garantía)"
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityCreate,
		EntityType: "sale",
		EntityID:   sale.ID,
		EntityName: fmt.Sprintf("%s x%d", part.PartName, in.Quantity),
		Details:    fmt.Sprintf("Venta de %dx %q por €%s%s", in.Quantity, part.PartName, sale.TotalPrice.StringFixed(2), guarantee),
	})
	return toSaleResponse(sale), nil
}

// Delete elimina la venta restaurando el stock exacto en la misma transacción.
func (uc *SaleUseCase) Delete(ctx context.Context, username, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
	) error {
		if err := uc.stock.ReverseSellInTx(stockRepo, partRepo, sale); err != nil {
			return err
		}
		return saleRepo.Delete(id)
	})
	if err != nil {
		return err
	}

	partName := sale.PartID
	if part, err := uc.partRepo.GetByID(sale.PartID); err == nil && part != nil {
		partName = part.PartName
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityDelete,
		EntityType: "sale",
		EntityID:   sale.ID,
		EntityName: fmt.Sprintf("%s x%d", partName, sale.Quantity),
		Details:    fmt.Sprintf("Venta eliminada: %dx %q (€%s)", sale.Quantity, partName, sale.TotalPrice.StringFixed(2)),
	})
	return nil
}

// GetByID obtiene una venta por ID.
func (uc *SaleUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// List lista ventas con filtros opcionales de fechas y cliente.
func (uc *SaleUseCase) List(filter repository.SaleFilter, limit, offset int) ([]dto.SaleResponse, error) {
	list, err := uc.saleRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return items, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:                s.ID,
		PartID:            s.PartID,
		CustomerID:        s.CustomerID,
		ServiceRecordID:   s.ServiceRecordID,
		LocationID:        s.LocationID,
		Quantity:          s.Quantity,
		UnitPrice:         s.UnitPrice,
		LabourCost:        s.LabourCost,
		TotalPrice:        s.TotalPrice,
		GuaranteeIncluded: s.GuaranteeIncluded,
		Notes:             s.Notes,
		SaleDate:          s.SaleDate,
	}
}
