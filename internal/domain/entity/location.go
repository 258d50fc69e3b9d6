package entity

import "time"

// Location representa una ubicación física de almacenamiento (bodega, estante, sucursal).
// No puede eliminarse mientras exista stock > 0 que la referencie.
type Location struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
