package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, part_id, location_id, quantity, unit_cost, total_cost,
		supplier, notes, purchase_date, created_at`

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.PartID, purchase.LocationID, purchase.Quantity,
		purchase.UnitCost, purchase.TotalCost, purchase.Supplier, purchase.Notes,
		purchase.PurchaseDate, purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID obtiene una compra por ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.PartID, &p.LocationID, &p.Quantity,
		&p.UnitCost, &p.TotalCost, &p.Supplier, &p.Notes,
		&p.PurchaseDate, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// List lista compras con filtros opcionales, de la más reciente a la más antigua.
func (r *PurchaseRepo) List(filter repository.PurchaseFilter, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.PartID != "" {
		query += fmt.Sprintf(" AND part_id = $%d", pos)
		args = append(args, filter.PartID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND purchase_date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND purchase_date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY purchase_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(
			&p.ID, &p.PartID, &p.LocationID, &p.Quantity,
			&p.UnitCost, &p.TotalCost, &p.Supplier, &p.Notes,
			&p.PurchaseDate, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina la compra. El retiro del stock recibido corre en la misma
// transacción (caso de uso).
func (r *PurchaseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}
