package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

const partColumns = `id, part_name, category, description, purchase_price, selling_price,
		quantity_in_stock, min_stock_level, supplier, serial_number, notes,
		guarantee_available, date_added, updated_at`

// PartRepo implementación del puerto PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador de persistencia para repuestos. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

// Create persiste un nuevo repuesto.
func (r *PartRepo) Create(part *entity.Part) error {
	query := `
		INSERT INTO parts (` + partColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		part.ID, part.PartName, part.Category, part.Description,
		part.PurchasePrice, part.SellingPrice, part.QuantityInStock, part.MinStockLevel,
		part.Supplier, part.SerialNumber, part.Notes, part.GuaranteeAvailable,
		part.DateAdded, part.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

// GetByID obtiene un repuesto por ID.
func (r *PartRepo) GetByID(id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get part")
}

// GetForUpdate obtiene el repuesto y bloquea su fila (SELECT FOR UPDATE).
// Serializa las mutaciones del agregado en modo legacy.
func (r *PartRepo) GetForUpdate(id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get part for update")
}

func (r *PartRepo) scanOne(row pgx.Row, op string) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(
		&p.ID, &p.PartName, &p.Category, &p.Description,
		&p.PurchasePrice, &p.SellingPrice, &p.QuantityInStock, &p.MinStockLevel,
		&p.Supplier, &p.SerialNumber, &p.Notes, &p.GuaranteeAvailable,
		&p.DateAdded, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// Update actualiza los campos descriptivos. No toca quantity_in_stock ni
// purchase_price: esos los muta el ledger con los métodos dedicados.
func (r *PartRepo) Update(part *entity.Part) error {
	query := `
		UPDATE parts SET part_name = $2, category = $3, description = $4, selling_price = $5,
			min_stock_level = $6, supplier = $7, serial_number = $8, notes = $9,
			guarantee_available = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		part.ID, part.PartName, part.Category, part.Description, part.SellingPrice,
		part.MinStockLevel, part.Supplier, part.SerialNumber, part.Notes,
		part.GuaranteeAvailable, part.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	return nil
}

// UpdateQuantityInStock escribe el agregado denormalizado del repuesto.
// Solo lo invoca el ledger dentro de su transacción.
func (r *PartRepo) UpdateQuantityInStock(partID string, quantity int) error {
	query := `UPDATE parts SET quantity_in_stock = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, partID, quantity)
	if err != nil {
		return fmt.Errorf("update part stock: %w", err)
	}
	return nil
}

// UpdatePurchasePrice actualiza el último costo unitario conocido.
func (r *PartRepo) UpdatePurchasePrice(partID string, cost decimal.Decimal) error {
	query := `UPDATE parts SET purchase_price = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, partID, cost)
	if err != nil {
		return fmt.Errorf("update part purchase price: %w", err)
	}
	return nil
}

// List lista repuestos con filtros opcionales de categoría y búsqueda por nombre.
func (r *PartRepo) List(category, search string, limit, offset int) ([]*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE 1=1`
	args := []any{}
	pos := 1
	if category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, category)
		pos++
	}
	if search != "" {
		query += fmt.Sprintf(" AND part_name ILIKE $%d", pos)
		args = append(args, "%"+search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY part_name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		var p entity.Part
		if err := rows.Scan(
			&p.ID, &p.PartName, &p.Category, &p.Description,
			&p.PurchasePrice, &p.SellingPrice, &p.QuantityInStock, &p.MinStockLevel,
			&p.Supplier, &p.SerialNumber, &p.Notes, &p.GuaranteeAvailable,
			&p.DateAdded, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina un repuesto. Las filas de part_locations y stock_transfers
// que lo referencian caen en cascada (FK): no tienen sentido sin el repuesto.
func (r *PartRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM parts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete part: %w", err)
	}
	return nil
}
