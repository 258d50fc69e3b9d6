package dto

import "time"

// ActivityLogResponse entrada del log de actividad en respuestas.
type ActivityLogResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	EntityName string    `json:"entity_name"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
