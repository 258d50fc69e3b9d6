package entity

import "time"

// Acciones registradas en el log de actividad.
const (
	ActivityCreate = "create"
	ActivityUpdate = "update"
	ActivityDelete = "delete"
)

// ActivityLog registra quién hizo qué sobre qué entidad (auditoría liviana).
// Escribir este log nunca debe hacer fallar la operación principal.
type ActivityLog struct {
	ID         string
	Username   string
	Action     string
	EntityType string
	EntityID   string
	EntityName string
	Details    string
	CreatedAt  time.Time
}
