package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo implementación del log de actividad sobre PostgreSQL.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador del log de actividad.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create inserta una entrada del log.
func (r *ActivityLogRepo) Create(log *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, username, action, entity_type, entity_id, entity_name, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.Username, log.Action, log.EntityType, log.EntityID,
		log.EntityName, log.Details, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List lista entradas del log, de la más reciente a la más antigua.
func (r *ActivityLogRepo) List(limit, offset int) ([]*entity.ActivityLog, error) {
	query := `
		SELECT id, username, action, entity_type, entity_id, entity_name, details, created_at
		FROM activity_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		if err := rows.Scan(&l.ID, &l.Username, &l.Action, &l.EntityType, &l.EntityID,
			&l.EntityName, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
