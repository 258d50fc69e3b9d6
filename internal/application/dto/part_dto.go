package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartRequest body para POST /api/parts.
type CreatePartRequest struct {
	PartName           string          `json:"part_name"`
	Category           string          `json:"category"`
	Description        string          `json:"description"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	QuantityInStock    int             `json:"quantity_in_stock"`
	MinStockLevel      *int            `json:"min_stock_level,omitempty"`
	Supplier           string          `json:"supplier"`
	SerialNumber       string          `json:"serial_number"`
	Notes              string          `json:"notes"`
	GuaranteeAvailable bool            `json:"guarantee_available"`
}

// UpdatePartRequest body para PUT /api/parts/:id. Solo campos descriptivos:
// el stock lo muta únicamente el ledger.
type UpdatePartRequest struct {
	PartName           *string          `json:"part_name,omitempty"`
	Category           *string          `json:"category,omitempty"`
	Description        *string          `json:"description,omitempty"`
	SellingPrice       *decimal.Decimal `json:"selling_price,omitempty"`
	MinStockLevel      *int             `json:"min_stock_level,omitempty"`
	Supplier           *string          `json:"supplier,omitempty"`
	SerialNumber       *string          `json:"serial_number,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
	GuaranteeAvailable *bool            `json:"guarantee_available,omitempty"`
}

// PartResponse representación de un repuesto en respuestas.
type PartResponse struct {
	ID                 string          `json:"id"`
	PartName           string          `json:"part_name"`
	Category           string          `json:"category"`
	Description        string          `json:"description"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	QuantityInStock    int             `json:"quantity_in_stock"`
	MinStockLevel      int             `json:"min_stock_level"`
	Supplier           string          `json:"supplier"`
	SerialNumber       string          `json:"serial_number"`
	Notes              string          `json:"notes"`
	GuaranteeAvailable bool            `json:"guarantee_available"`
	DateAdded          time.Time       `json:"date_added"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
