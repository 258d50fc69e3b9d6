package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.PartLocationRepository = (*PartLocationRepo)(nil)

// PartLocationRepo implementación del stock por (repuesto, ubicación) sobre
// PostgreSQL (usable con pool o tx).
type PartLocationRepo struct {
	q Querier
}

// NewPartLocationRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewPartLocationRepository(q Querier) *PartLocationRepo {
	return &PartLocationRepo{q: q}
}

// Get obtiene la fila de stock; nil si no existe.
func (r *PartLocationRepo) Get(partID, locationID string) (*entity.PartLocation, error) {
	query := `
		SELECT part_id, location_id, quantity, min_stock_level, updated_at
		FROM part_locations WHERE part_id = $1 AND location_id = $2`
	var pl entity.PartLocation
	err := r.q.QueryRow(context.Background(), query, partID, locationID).Scan(
		&pl.PartID, &pl.LocationID, &pl.Quantity, &pl.MinStockLevel, &pl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part location: %w", err)
	}
	return &pl, nil
}

// GetForUpdate obtiene la fila y la bloquea para update (SELECT FOR UPDATE).
// Si no existe devuelve una fila en cero sin bloquear nada: el caller la ve
// como disponibilidad 0.
func (r *PartLocationRepo) GetForUpdate(partID, locationID string) (*entity.PartLocation, error) {
	query := `
		SELECT part_id, location_id, quantity, min_stock_level, updated_at
		FROM part_locations WHERE part_id = $1 AND location_id = $2
		FOR UPDATE`
	var pl entity.PartLocation
	err := r.q.QueryRow(context.Background(), query, partID, locationID).Scan(
		&pl.PartID, &pl.LocationID, &pl.Quantity, &pl.MinStockLevel, &pl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.PartLocation{
				PartID:        partID,
				LocationID:    locationID,
				Quantity:      0,
				MinStockLevel: entity.DefaultMinStockLevel,
			}, nil
		}
		return nil, fmt.Errorf("get part location for update: %w", err)
	}
	return &pl, nil
}

// ApplyDelta suma delta a la cantidad, creando la fila con defaultMinStock si
// no existe. Re-verifica el resultado: aunque el ledger valida disponibilidad
// bajo bloqueo de fila, escritores concurrentes mal serializados podrían
// intercalarse, y en ese caso se devuelve NegativeStockError para abortar.
func (r *PartLocationRepo) ApplyDelta(partID, locationID string, delta, defaultMinStock int) (*entity.PartLocation, error) {
	query := `
		INSERT INTO part_locations (part_id, location_id, quantity, min_stock_level, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (part_id, location_id)
		DO UPDATE SET quantity = part_locations.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING part_id, location_id, quantity, min_stock_level, updated_at`
	var pl entity.PartLocation
	err := r.q.QueryRow(context.Background(), query, partID, locationID, delta, defaultMinStock).Scan(
		&pl.PartID, &pl.LocationID, &pl.Quantity, &pl.MinStockLevel, &pl.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}
	if pl.Quantity < 0 {
		return nil, &domain.NegativeStockError{PartID: partID, LocationID: locationID, Resulting: pl.Quantity}
	}
	return &pl, nil
}

// SetMinStockLevel cambia el umbral de reorden sin tocar la cantidad.
func (r *PartLocationRepo) SetMinStockLevel(partID, locationID string, level int) error {
	query := `
		UPDATE part_locations SET min_stock_level = $3, updated_at = now()
		WHERE part_id = $1 AND location_id = $2`
	_, err := r.q.Exec(context.Background(), query, partID, locationID, level)
	if err != nil {
		return fmt.Errorf("set min stock level: %w", err)
	}
	return nil
}

// SumByPart suma las cantidades del repuesto en todas sus ubicaciones.
func (r *PartLocationRepo) SumByPart(partID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM part_locations WHERE part_id = $1`, partID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stock by part: %w", err)
	}
	return total, nil
}

// CountByPart cuenta las filas de stock del repuesto (decide el despacho legacy).
func (r *PartLocationRepo) CountByPart(partID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM part_locations WHERE part_id = $1`, partID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stock by part: %w", err)
	}
	return count, nil
}

// ListByPart lista el stock de un repuesto en todas sus ubicaciones.
func (r *PartLocationRepo) ListByPart(partID string) ([]*entity.PartLocation, error) {
	query := `
		SELECT part_id, location_id, quantity, min_stock_level, updated_at
		FROM part_locations WHERE part_id = $1 ORDER BY location_id`
	return r.list(query, partID)
}

// ListByLocation lista el stock asignado a una ubicación.
func (r *PartLocationRepo) ListByLocation(locationID string) ([]*entity.PartLocation, error) {
	query := `
		SELECT part_id, location_id, quantity, min_stock_level, updated_at
		FROM part_locations WHERE location_id = $1 ORDER BY part_id`
	return r.list(query, locationID)
}

func (r *PartLocationRepo) list(query string, arg any) ([]*entity.PartLocation, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list part locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.PartLocation
	for rows.Next() {
		var pl entity.PartLocation
		if err := rows.Scan(&pl.PartID, &pl.LocationID, &pl.Quantity, &pl.MinStockLevel, &pl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan part location: %w", err)
		}
		list = append(list, &pl)
	}
	return list, rows.Err()
}

// Upsert inserta o reemplaza la fila completa (asignaciones del catálogo).
func (r *PartLocationRepo) Upsert(pl *entity.PartLocation) error {
	query := `
		INSERT INTO part_locations (part_id, location_id, quantity, min_stock_level, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (part_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, min_stock_level = EXCLUDED.min_stock_level, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, pl.PartID, pl.LocationID, pl.Quantity, pl.MinStockLevel)
	if err != nil {
		return fmt.Errorf("upsert part location: %w", err)
	}
	return nil
}

// Delete elimina la fila de stock (solo asignaciones en cero; lo valida el caso de uso).
func (r *PartLocationRepo) Delete(partID, locationID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM part_locations WHERE part_id = $1 AND location_id = $2`, partID, locationID)
	if err != nil {
		return fmt.Errorf("delete part location: %w", err)
	}
	return nil
}
