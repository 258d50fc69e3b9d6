package dto

import "time"

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LocationResponse representación de una ubicación en respuestas.
type LocationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
