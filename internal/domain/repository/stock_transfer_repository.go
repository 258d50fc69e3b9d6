package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransferFilter filtros opcionales para listar traslados.
type TransferFilter struct {
	PartID         string
	FromLocationID string
	ToLocationID   string
	From           *time.Time
	To             *time.Time
}

// StockTransferRepository define el puerto de persistencia para traslados.
// Solo inserta y consulta: el log de traslados es inmutable por contrato.
type StockTransferRepository interface {
	Create(transfer *entity.StockTransfer) error
	GetByID(id string) (*entity.StockTransfer, error)
	List(filter TransferFilter, limit, offset int) ([]*entity.StockTransfer, error)
}
