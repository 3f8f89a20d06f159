package dto

import "time"

// CreateMovementRequest body para POST /api/inventory/movements.
type CreateMovementRequest struct {
	MedicineID  string `json:"medicine_id"`
	Type        string `json:"type"` // in, out
	Quantity    int    `json:"quantity"`
	ReferenceID string `json:"reference_id,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// AdjustStockRequest body para PUT /api/inventory/stock/:medicineId.
// Fija el stock en un valor absoluto; el Ledger calcula y registra el delta.
type AdjustStockRequest struct {
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// MovementResponse movimiento de stock persistido.
type MovementResponse struct {
	ID          string    `json:"id"`
	MedicineID  string    `json:"medicine_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	ReferenceID string    `json:"reference_id,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
