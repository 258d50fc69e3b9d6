package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, part_id, customer_id, service_record_id, location_id, quantity,
		unit_price, labour_cost, total_price, guarantee_included, notes, sale_date, created_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta. location_id queda NULL cuando la salida se aplicó
// sobre el agregado (modo legacy).
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.PartID, sale.CustomerID, sale.ServiceRecordID, sale.LocationID,
		sale.Quantity, sale.UnitPrice, sale.LabourCost, sale.TotalPrice,
		sale.GuaranteeIncluded, sale.Notes, sale.SaleDate, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.PartID, &s.CustomerID, &s.ServiceRecordID, &s.LocationID,
		&s.Quantity, &s.UnitPrice, &s.LabourCost, &s.TotalPrice,
		&s.GuaranteeIncluded, &s.Notes, &s.SaleDate, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// List lista ventas con filtros opcionales, de la más reciente a la más antigua.
func (r *SaleRepo) List(filter repository.SaleFilter, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.CustomerID != "" {
		query += fmt.Sprintf(" AND customer_id = $%d", pos)
		args = append(args, filter.CustomerID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND sale_date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND sale_date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY sale_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.PartID, &s.CustomerID, &s.ServiceRecordID, &s.LocationID,
			&s.Quantity, &s.UnitPrice, &s.LabourCost, &s.TotalPrice,
			&s.GuaranteeIncluded, &s.Notes, &s.SaleDate, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina la venta. La reversión de stock corre en la misma transacción (caso de uso).
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}
