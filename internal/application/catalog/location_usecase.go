package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// LocationUseCase CRUD de ubicaciones. La eliminación se rechaza mientras
// exista stock > 0 en la ubicación, para preservar la integridad del ledger.
type LocationUseCase struct {
	locationRepo repository.LocationRepository
	stockRepo    repository.PartLocationRepository
	recorder     *activity.Recorder
}

// NewLocationUseCase construye el caso de uso de ubicaciones.
func NewLocationUseCase(
	locationRepo repository.LocationRepository,
	stockRepo repository.PartLocationRepository,
	recorder *activity.Recorder,
) *LocationUseCase {
	return &LocationUseCase{locationRepo: locationRepo, stockRepo: stockRepo, recorder: recorder}
}

// Create crea una ubicación. Nombre único (ErrDuplicate si ya existe).
func (uc *LocationUseCase) Create(username string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	location := &entity.Location{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.locationRepo.Create(location); err != nil {
		return nil, err
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityCreate,
		EntityType: "location",
		EntityID:   location.ID,
		EntityName: location.Name,
	})
	return toLocationResponse(location), nil
}

// List lista todas las ubicaciones.
func (uc *LocationUseCase) List() ([]dto.LocationResponse, error) {
	list, err := uc.locationRepo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return items, nil
}

// Delete elimina una ubicación si ninguna fila de stock que la referencia
// tiene cantidad > 0.
func (uc *LocationUseCase) Delete(username, id string) error {
	location, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrNotFound
	}
	rows, err := uc.stockRepo.ListByLocation(id)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if r.Quantity > 0 {
			return domain.ErrConflict
		}
	}
	if err := uc.locationRepo.Delete(id); err != nil {
		return err
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityDelete,
		EntityType: "location",
		EntityID:   id,
		EntityName: location.Name,
	})
	return nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
	}
}
