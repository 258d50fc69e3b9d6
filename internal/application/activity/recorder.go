package activity

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Recorder escribe el log de actividad con política best-effort: un fallo al
// registrar se loguea y se descarta, nunca hace fallar la operación principal.
type Recorder struct {
	repo repository.ActivityLogRepository
	log  *logger.Logger
}

// NewRecorder construye el registrador de actividad.
func NewRecorder(repo repository.ActivityLogRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Entry datos de una entrada de actividad.
type Entry struct {
	Username   string
	Action     string
	EntityType string
	EntityID   string
	EntityName string
	Details    string
}

// Record persiste la entrada. Se invoca después del Commit de la operación
// principal, por eso no participa de su transacción.
func (r *Recorder) Record(e Entry) {
	username := e.Username
	if username == "" {
		username = "system"
	}
	err := r.repo.Create(&entity.ActivityLog{
		ID:         uuid.New().String(),
		Username:   username,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		EntityName: e.EntityName,
		Details:    e.Details,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		r.log.Warn().
			Err(err).
			Str("entity_type", e.EntityType).
			Str("entity_id", e.EntityID).
			Str("action", e.Action).
			Msg("no se pudo registrar la actividad")
	}
}

// List devuelve las entradas más recientes del log.
func (r *Recorder) List(limit, offset int) ([]*entity.ActivityLog, error) {
	return r.repo.List(limit, offset)
}
