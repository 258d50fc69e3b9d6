package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

const transferColumns = `id, part_id, from_location_id, to_location_id, quantity, notes, created_by, created_at`

// StockTransferRepo implementación del log inmutable de traslados sobre PostgreSQL.
// No expone Update ni Delete: un traslado erróneo se corrige con el traslado inverso.
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

// Create inserta el registro del traslado.
func (r *StockTransferRepo) Create(transfer *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.PartID, transfer.FromLocationID, transfer.ToLocationID,
		transfer.Quantity, transfer.Notes, transfer.CreatedBy, transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID.
func (r *StockTransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE id = $1`
	var t entity.StockTransfer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.PartID, &t.FromLocationID, &t.ToLocationID,
		&t.Quantity, &t.Notes, &t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	return &t, nil
}

// List lista traslados con filtros opcionales, del más reciente al más antiguo.
func (r *StockTransferRepo) List(filter repository.TransferFilter, limit, offset int) ([]*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.PartID != "" {
		query += fmt.Sprintf(" AND part_id = $%d", pos)
		args = append(args, filter.PartID)
		pos++
	}
	if filter.FromLocationID != "" {
		query += fmt.Sprintf(" AND from_location_id = $%d", pos)
		args = append(args, filter.FromLocationID)
		pos++
	}
	if filter.ToLocationID != "" {
		query += fmt.Sprintf(" AND to_location_id = $%d", pos)
		args = append(args, filter.ToLocationID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		var t entity.StockTransfer
		if err := rows.Scan(
			&t.ID, &t.PartID, &t.FromLocationID, &t.ToLocationID,
			&t.Quantity, &t.Notes, &t.CreatedBy, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
