package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
// Si guarantee_included es true el repuesto no se cobra (precio unitario 0).
// UnitPrice nil usa el precio de venta del catálogo.
type CreateSaleRequest struct {
	PartID            string           `json:"part_id"`
	CustomerID        *string          `json:"customer_id,omitempty"`
	ServiceRecordID   *string          `json:"service_record_id,omitempty"`
	LocationID        *string          `json:"location_id,omitempty"`
	Quantity          int              `json:"quantity"`
	UnitPrice         *decimal.Decimal `json:"unit_price,omitempty"`
	LabourCost        *decimal.Decimal `json:"labour_cost,omitempty"`
	GuaranteeIncluded bool             `json:"guarantee_included"`
	Notes             string           `json:"notes"`
}

// SaleResponse representación de una venta en respuestas.
type SaleResponse struct {
	ID                string          `json:"id"`
	PartID            string          `json:"part_id"`
	CustomerID        *string         `json:"customer_id,omitempty"`
	ServiceRecordID   *string         `json:"service_record_id,omitempty"`
	LocationID        *string         `json:"location_id,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LabourCost        decimal.Decimal `json:"labour_cost"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	GuaranteeIncluded bool            `json:"guarantee_included"`
	Notes             string          `json:"notes"`
	SaleDate          time.Time       `json:"sale_date"`
}
