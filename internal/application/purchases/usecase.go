package purchases

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

// PurchaseUseCase registra y elimina compras de reposición. Cada compra
// ingresa stock vía el ledger en la misma transacción que su propia fila.
type PurchaseUseCase struct {
	txRunner     PurchasesTxRunner
	stock        StockLedger
	partRepo     repository.PartRepository
	locationRepo repository.LocationRepository
	purchaseRepo repository.PurchaseRepository
	recorder     *activity.Recorder
}

// NewPurchaseUseCase construye el caso de uso de compras.
func NewPurchaseUseCase(
	txRunner PurchasesTxRunner,
	stock StockLedger,
	partRepo repository.PartRepository,
	locationRepo repository.LocationRepository,
	purchaseRepo repository.PurchaseRepository,
	recorder *activity.Recorder,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		stock:        stock,
		partRepo:     partRepo,
		locationRepo: locationRepo,
		purchaseRepo: purchaseRepo,
		recorder:     recorder,
	}
}

// Create registra la compra e ingresa el stock de forma atómica.
// También actualiza el último costo unitario del repuesto (vía el ledger).
func (uc *PurchaseUseCase) Create(ctx context.Context, username string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.PartID == "" || in.Quantity <= 0 || in.UnitCost.LessThan(decimal.Zero) {
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

	supplier := in.Supplier
	if supplier == "" {
		supplier = part.Supplier
	}
	now := time.Now()
	purchase := &entity.Purchase{
		ID:           uuid.New().String(),
		PartID:       in.PartID,
		LocationID:   in.LocationID,
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		TotalCost:    in.UnitCost.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Supplier:     supplier,
		Notes:        in.Notes,
		PurchaseDate: now,
		CreatedAt:    now,
	}

	err = uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
	) error {
		if err := uc.stock.ReceiveInTx(stockRepo, partRepo, ledger.ReceiveInput{
			PartID:     in.PartID,
			LocationID: in.LocationID,
			Quantity:   in.Quantity,
			UnitCost:   in.UnitCost,
		}); err != nil {
			return err
		}
		return purchaseRepo.Create(purchase)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityCreate,
		EntityType: "purchase",
		EntityID:   purchase.ID,
		EntityName: fmt.Sprintf("%s x%d", part.PartName, in.Quantity),
		Details:    fmt.Sprintf("Compra de %dx %q por €%s", in.Quantity, part.PartName, purchase.TotalCost.StringFixed(2)),
	})
	return toPurchaseResponse(purchase), nil
}

// Delete elimina la compra retirando el stock que ingresó. Falla con
// InsufficientStockError si ventas intermedias ya lo consumieron: eliminarla
// dejaría stock negativo.
func (uc *PurchaseUseCase) Delete(ctx context.Context, username, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if purchase == nil {
		return domain.ErrNotFound
	}

	err = uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
	) error {
		if _, err := uc.stock.SellInTx(stockRepo, partRepo, ledger.SellInput{
			PartID:     purchase.PartID,
			LocationID: purchase.LocationID,
			Quantity:   purchase.Quantity,
		}); err != nil {
			return err
		}
		return purchaseRepo.Delete(id)
	})
	if err != nil {
		return err
	}

	partName := purchase.PartID
	if part, err := uc.partRepo.GetByID(purchase.PartID); err == nil && part != nil {
		partName = part.PartName
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityDelete,
		EntityType: "purchase",
		EntityID:   purchase.ID,
		EntityName: fmt.Sprintf("%s x%d", partName, purchase.Quantity),
		Details:    fmt.Sprintf("Compra eliminada: %dx %q", purchase.Quantity, partName),
	})
	return nil
}

// GetByID obtiene una compra por ID.
func (uc *PurchaseUseCase) GetByID(id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, nil
	}
	return toPurchaseResponse(purchase), nil
}

// List lista compras con filtros opcionales.
func (uc *PurchaseUseCase) List(filter repository.PurchaseFilter, limit, offset int) ([]dto.PurchaseResponse, error) {
	list, err := uc.purchaseRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return items, nil
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:           p.ID,
		PartID:       p.PartID,
		LocationID:   p.LocationID,
		Quantity:     p.Quantity,
		UnitCost:     p.UnitCost,
		TotalCost:    p.TotalCost,
		Supplier:     p.Supplier,
		Notes:        p.Notes,
		PurchaseDate: p.PurchaseDate,
	}
}
