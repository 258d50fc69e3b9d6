package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// ActivityLogRepository define el puerto de persistencia para el log de actividad.
type ActivityLogRepository interface {
	Create(log *entity.ActivityLog) error
	List(limit, offset int) ([]*entity.ActivityLog, error)
}
