package dto

import "time"

// AllocatePartLocationRequest body para POST /api/part-locations: asigna un
// repuesto a una ubicación creando la fila de stock en cero. Las cantidades
// solo cambian vía compras, ventas y traslados.
type AllocatePartLocationRequest struct {
	PartID        string `json:"part_id"`
	LocationID    string `json:"location_id"`
	MinStockLevel *int   `json:"min_stock_level,omitempty"`
}

// SetThresholdRequest body para PUT /api/part-locations/threshold.
type SetThresholdRequest struct {
	PartID        string `json:"part_id"`
	LocationID    string `json:"location_id"`
	MinStockLevel int    `json:"min_stock_level"`
}

// PartLocationResponse stock de un repuesto en una ubicación.
type PartLocationResponse struct {
	PartID        string    `json:"part_id"`
	LocationID    string    `json:"location_id"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	UpdatedAt     time.Time `json:"updated_at"`
}
