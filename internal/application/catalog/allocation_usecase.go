package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// AllocationUseCase administra la asignación de repuestos a ubicaciones: crea
// la fila de stock en cero, ajusta umbrales y retira asignaciones vacías.
// Crear la primera fila convierte al repuesto a stock por ubicación: desde
// ahí el agregado es la suma de las filas, por eso la asignación recalcula
// dentro de la misma transacción.
type AllocationUseCase struct {
	txRunner     ledger.TxRunner
	partRepo     repository.PartRepository
	locationRepo repository.LocationRepository
	stockRepo    repository.PartLocationRepository
	recorder     *activity.Recorder
}

// NewAllocationUseCase construye el caso de uso de asignaciones.
func NewAllocationUseCase(
	txRunner ledger.TxRunner,
	partRepo repository.PartRepository,
	locationRepo repository.LocationRepository,
	stockRepo repository.PartLocationRepository,
	recorder *activity.Recorder,
) *AllocationUseCase {
	return &AllocationUseCase{
		txRunner:     txRunner,
		partRepo:     partRepo,
		locationRepo: locationRepo,
		stockRepo:    stockRepo,
		recorder:     recorder,
	}
}

// Allocate asigna un repuesto a una ubicación (fila en cero + umbral).
// Idempotente: si la fila ya existe solo actualiza el umbral.
func (uc *AllocationUseCase) Allocate(ctx context.Context, username string, in dto.AllocatePartLocationRequest) (*dto.PartLocationResponse, error) {
	if in.PartID == "" || in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	part, err := uc.partRepo.GetByID(in.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	minStock := entity.DefaultMinStockLevel
	if in.MinStockLevel != nil {
		minStock = *in.MinStockLevel
	}
	if minStock < 0 {
		return nil, domain.ErrInvalidInput
	}

	var row *entity.PartLocation
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.PartLocationRepository,
		partRepo repository.PartRepository,
		_ repository.StockTransferRepository,
	) error {
		// Delta cero crea la fila si falta sin tocar cantidades existentes.
		r, err := stockRepo.ApplyDelta(in.PartID, in.LocationID, 0, minStock)
		if err != nil {
			return err
		}
		if err := stockRepo.SetMinStockLevel(in.PartID, in.LocationID, minStock); err != nil {
			return err
		}
		r.MinStockLevel = minStock
		row = r
		total, err := stockRepo.SumByPart(in.PartID)
		if err != nil {
			return err
		}
		return partRepo.UpdateQuantityInStock(in.PartID, total)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityUpdate,
		EntityType: "part_location",
		EntityID:   fmt.Sprintf("%s@%s", in.PartID, in.LocationID),
		EntityName: fmt.Sprintf("%s @ %s", part.PartName, location.Name),
		Details:    fmt.Sprintf("Repuesto %q asignado a %q (umbral %d)", part.PartName, location.Name, minStock),
	})
	resp := toPartLocationResponse(row)
	return &resp, nil
}

// SetThreshold cambia el umbral de reorden de una fila existente.
// Independiente de la cantidad: no requiere transacción ni recálculo.
func (uc *AllocationUseCase) SetThreshold(in dto.SetThresholdRequest) error {
	if in.PartID == "" || in.LocationID == "" || in.MinStockLevel < 0 {
		return domain.ErrInvalidInput
	}
	existing, err := uc.stockRepo.Get(in.PartID, in.LocationID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return uc.stockRepo.SetMinStockLevel(in.PartID, in.LocationID, in.MinStockLevel)
}

// Deallocate retira la asignación. Solo se permite con cantidad exactamente
// cero: con stock hay que trasladarlo o venderlo primero.
func (uc *AllocationUseCase) Deallocate(username, partID, locationID string) error {
	if partID == "" || locationID == "" {
		return domain.ErrInvalidInput
	}
	row, err := uc.stockRepo.Get(partID, locationID)
	if err != nil {
		return err
	}
	if row == nil {
		return domain.ErrNotFound
	}
	if row.Quantity > 0 {
		return domain.ErrConflict
	}
	if err := uc.stockRepo.Delete(partID, locationID); err != nil {
		return err
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityDelete,
		EntityType: "part_location",
		EntityID:   fmt.Sprintf("%s@%s", partID, locationID),
		EntityName: fmt.Sprintf("%s @ %s", partID, locationID),
	})
	return nil
}

// ListByLocation devuelve el stock asignado a una ubicación.
func (uc *AllocationUseCase) ListByLocation(locationID string) ([]dto.PartLocationResponse, error) {
	rows, err := uc.stockRepo.ListByLocation(locationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartLocationResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, toPartLocationResponse(r))
	}
	return items, nil
}
