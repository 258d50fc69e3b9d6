package dto

import "time"

// CreateTransferRequest body para POST /api/stock-transfers.
type CreateTransferRequest struct {
	PartID         string `json:"part_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int    `json:"quantity"`
	Notes          string `json:"notes"`
}

// TransferResponse representación de un traslado en respuestas.
type TransferResponse struct {
	ID             string    `json:"id"`
	PartID         string    `json:"part_id"`
	FromLocationID string    `json:"from_location_id"`
	ToLocationID   string    `json:"to_location_id"`
	Quantity       int       `json:"quantity"`
	Notes          string    `json:"notes"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}
