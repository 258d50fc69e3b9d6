package entity

import "time"

// StockTransfer representa un traslado de stock entre dos ubicaciones.
// Registro inmutable de auditoría: nunca se actualiza ni se elimina;
// un traslado erróneo se corrige registrando el traslado inverso.
type StockTransfer struct {
	ID             string
	PartID         string
	FromLocationID string
	ToLocationID   string
	Quantity       int
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}
