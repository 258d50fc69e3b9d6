package entity

import "time"

// Nivel mínimo de stock por defecto al crear una fila de stock por ubicación.
const DefaultMinStockLevel = 5

// PartLocation representa el stock de un repuesto en una ubicación concreta.
// Única por (part_id, location_id); quantity nunca es negativa.
type PartLocation struct {
	PartID        string
	LocationID    string
	Quantity      int
	MinStockLevel int
	UpdatedAt     time.Time
}
