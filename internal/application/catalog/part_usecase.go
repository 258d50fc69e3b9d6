package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// PartUseCase CRUD del catálogo de repuestos. Solo toca campos descriptivos:
// las cantidades las muta únicamente el ledger. El stock inicial del alta se
// acepta como valor legacy del agregado (repuesto aún sin ubicaciones).
type PartUseCase struct {
	partRepo  repository.PartRepository
	stockRepo repository.PartLocationRepository
	recorder  *activity.Recorder
}

// NewPartUseCase construye el caso de uso de repuestos.
func NewPartUseCase(
	partRepo repository.PartRepository,
	stockRepo repository.PartLocationRepository,
	recorder *activity.Recorder,
) *PartUseCase {
	return &PartUseCase{partRepo: partRepo, stockRepo: stockRepo, recorder: recorder}
}

// Create da de alta un repuesto.
func (uc *PartUseCase) Create(username string, in dto.CreatePartRequest) (*dto.PartResponse, error) {
	if in.PartName == "" || in.Category == "" || in.QuantityInStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	minStock := entity.DefaultMinStockLevel
	if in.MinStockLevel != nil {
		minStock = *in.MinStockLevel
	}
	now := time.Now()
	part := &entity.Part{
		ID:                 uuid.New().String(),
		PartName:           in.PartName,
		Category:           in.Category,
		Description:        in.Description,
		PurchasePrice:      in.PurchasePrice,
		SellingPrice:       in.SellingPrice,
		QuantityInStock:    in.QuantityInStock,
		MinStockLevel:      minStock,
		Supplier:           in.Supplier,
		SerialNumber:       in.SerialNumber,
		Notes:              in.Notes,
		GuaranteeAvailable: in.GuaranteeAvailable,
		DateAdded:          now,
		UpdatedAt:          now,
	}
	if err := uc.partRepo.Create(part); err != nil {
		return nil, err
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityCreate,
		EntityType: "part",
		EntityID:   part.ID,
		EntityName: part.PartName,
		Details:    fmt.Sprintf("Repuesto %q creado (stock inicial %d)", part.PartName, part.QuantityInStock),
	})
	return toPartResponse(part), nil
}

// GetByID obtiene un repuesto por ID.
func (uc *PartUseCase) GetByID(id string) (*dto.PartResponse, error) {
	part, err := uc.partRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, nil
	}
	return toPartResponse(part), nil
}

// Update actualiza los campos descriptivos de un repuesto.
func (uc *PartUseCase) Update(username, id string, in dto.UpdatePartRequest) (*dto.PartResponse, error) {
	part, err := uc.partRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	if in.PartName != nil {
		part.PartName = *in.PartName
	}
	if in.Category != nil {
		part.Category = *in.Category
	}
	if in.Description != nil {
		part.Description = *in.Description
	}
	if in.SellingPrice != nil {
		part.SellingPrice = *in.SellingPrice
	}
	if in.MinStockLevel != nil {
		part.MinStockLevel = *in.MinStockLevel
	}
	if in.Supplier != nil {
		part.Supplier = *in.Supplier
	}
	if in.SerialNumber != nil {
		part.SerialNumber = *in.SerialNumber
	}
	if in.Notes != nil {
		part.Notes = *in.Notes
	}
	if in.GuaranteeAvailable != nil {
		part.GuaranteeAvailable = *in.GuaranteeAvailable
	}
	part.UpdatedAt = time.Now()
	if err := uc.partRepo.Update(part); err != nil {
		return nil, err
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityUpdate,
		EntityType: "part",
		EntityID:   part.ID,
		EntityName: part.PartName,
	})
	return toPartResponse(part), nil
}

// List lista repuestos con filtros de categoría y búsqueda por nombre.
func (uc *PartUseCase) List(category, search string, limit, offset int) ([]dto.PartResponse, error) {
	list, err := uc.partRepo.List(category, search, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartResponse(p))
	}
	return items, nil
}

// Delete elimina el repuesto. Sus filas de stock y movimientos pertenecen al
// ciclo de vida del repuesto y caen en cascada (FK).
func (uc *PartUseCase) Delete(username, id string) error {
	part, err := uc.partRepo.GetByID(id)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.ErrNotFound
	}
	if err := uc.partRepo.Delete(id); err != nil {
		return err
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityDelete,
		EntityType: "part",
		EntityID:   id,
		EntityName: part.PartName,
	})
	return nil
}

// StockByLocation devuelve el desglose de stock por ubicación de un repuesto.
func (uc *PartUseCase) StockByLocation(partID string) ([]dto.PartLocationResponse, error) {
	rows, err := uc.stockRepo.ListByPart(partID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartLocationResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, toPartLocationResponse(r))
	}
	return items, nil
}

func toPartResponse(p *entity.Part) *dto.PartResponse {
	return &dto.PartResponse{
		ID:                 p.ID,
		PartName:           p.PartName,
		Category:           p.Category,
		Description:        p.Description,
		PurchasePrice:      p.PurchasePrice,
		SellingPrice:       p.SellingPrice,
		QuantityInStock:    p.QuantityInStock,
		MinStockLevel:      p.MinStockLevel,
		Supplier:           p.Supplier,
		SerialNumber:       p.SerialNumber,
		Notes:              p.Notes,
		GuaranteeAvailable: p.GuaranteeAvailable,
		DateAdded:          p.DateAdded,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toPartLocationResponse(pl *entity.PartLocation) dto.PartLocationResponse {
	return dto.PartLocationResponse{
		PartID:        pl.PartID,
		LocationID:    pl.LocationID,
		Quantity:      pl.Quantity,
		MinStockLevel: pl.MinStockLevel,
		UpdatedAt:     pl.UpdatedAt,
	}
}
