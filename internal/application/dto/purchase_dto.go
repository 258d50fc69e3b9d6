package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest body para POST /api/purchases.
// LocationID vacío = entrada sobre el agregado (solo repuestos legacy).
type CreatePurchaseRequest struct {
	PartID     string          `json:"part_id"`
	LocationID *string         `json:"location_id,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Supplier   string          `json:"supplier"`
	Notes      string          `json:"notes"`
}

// PurchaseResponse representación de una compra en respuestas.
type PurchaseResponse struct {
	ID           string          `json:"id"`
	PartID       string          `json:"part_id"`
	LocationID   *string         `json:"location_id,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Supplier     string          `json:"supplier"`
	Notes        string          `json:"notes"`
	PurchaseDate time.Time       `json:"purchase_date"`
}
