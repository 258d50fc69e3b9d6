package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa una compra de reposición de stock.
// LocationID indica la ubicación de destino; nil = entrada sobre el agregado (modo legacy).
type Purchase struct {
	ID           string
	PartID       string
	LocationID   *string
	Quantity     int
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	Supplier     string
	Notes        string
	PurchaseDate time.Time
	CreatedAt    time.Time
}
