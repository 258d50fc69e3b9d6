package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa un repuesto del catálogo de servicio técnico.
// QuantityInStock es el agregado denormalizado: para repuestos con filas en
// part_locations equivale a la suma de esas filas (lo mantiene el ledger);
// para repuestos legacy sin ubicaciones es el valor autoritativo único.
type Part struct {
	ID                 string
	PartName           string
	Category           string
	Description        string
	PurchasePrice      decimal.Decimal // último costo unitario conocido (lo actualiza cada compra)
	SellingPrice       decimal.Decimal
	QuantityInStock    int
	MinStockLevel      int
	Supplier           string
	SerialNumber       string
	Notes              string
	GuaranteeAvailable bool
	DateAdded          time.Time
	UpdatedAt          time.Time
}
