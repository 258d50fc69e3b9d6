package transfers

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TransferUseCase registra y consulta traslados entre ubicaciones.
// No hay eliminación: un traslado erróneo se corrige con el traslado inverso.
type TransferUseCase struct {
	stock        *ledger.StockLedgerUseCase
	transferRepo repository.StockTransferRepository
	partRepo     repository.PartRepository
	recorder     *activity.Recorder
}

// NewTransferUseCase construye el caso de uso de traslados.
func NewTransferUseCase(
	stock *ledger.StockLedgerUseCase,
	transferRepo repository.StockTransferRepository,
	partRepo repository.PartRepository,
	recorder *activity.Recorder,
) *TransferUseCase {
	return &TransferUseCase{
		stock:        stock,
		transferRepo: transferRepo,
		partRepo:     partRepo,
		recorder:     recorder,
	}
}

// Create ejecuta el traslado vía el ledger (atómico: resta, suma, recálculo
// y registro de auditoría en una sola transacción).
func (uc *TransferUseCase) Create(ctx context.Context, username string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	createdBy := username
	if createdBy == "" {
		createdBy = "system"
	}
	transfer, err := uc.stock.Transfer(ctx, ledger.TransferInput{
		PartID:         in.PartID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		CreatedBy:      createdBy,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}

	partName := in.PartID
	if part, err := uc.partRepo.GetByID(in.PartID); err == nil && part != nil {
		partName = part.PartName
	}
	uc.recorder.Record(activity.Entry{
		Username:   username,
		Action:     entity.ActivityCreate,
		EntityType: "stock_transfer",
		EntityID:   transfer.ID,
		EntityName: fmt.Sprintf("%s x%d", partName, in.Quantity),
		Details:    fmt.Sprintf("Traslado de %dx %q entre ubicaciones", in.Quantity, partName),
	})
	return toTransferResponse(transfer), nil
}

// List lista traslados con filtros opcionales.
func (uc *TransferUseCase) List(filter repository.TransferFilter, limit, offset int) ([]dto.TransferResponse, error) {
	list, err := uc.transferRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return items, nil
}

func toTransferResponse(t *entity.StockTransfer) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:             t.ID,
		PartID:         t.PartID,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		Quantity:       t.Quantity,
		Notes:          t.Notes,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
	}
}
