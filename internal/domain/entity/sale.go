package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta de repuestos.
// LocationID indica de qué ubicación descontó stock el ledger; nil significa
// que la salida se aplicó sobre el agregado del repuesto (modo legacy).
// Al eliminar la venta, la reversión restaura stock exactamente ahí.
type Sale struct {
	ID                string
	PartID            string
	CustomerID        *string
	ServiceRecordID   *string
	LocationID        *string
	Quantity          int
	UnitPrice         decimal.Decimal
	LabourCost        decimal.Decimal
	TotalPrice        decimal.Decimal
	GuaranteeIncluded bool
	Notes             string
	SaleDate          time.Time
	CreatedAt         time.Time
}
