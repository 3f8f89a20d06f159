package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionServiceInput línea de servicio solicitada en una venta.
type TransactionServiceInput struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

// TransactionMedicineInput línea de medicamento solicitada en una venta.
type TransactionMedicineInput struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// CreateTransactionRequest body para POST /api/transactions.
// PaymentStatus vacío = pending. Debe haber al menos una línea (servicio o medicamento).
type CreateTransactionRequest struct {
	PatientID     string                     `json:"patient_id"`
	PaymentMethod string                     `json:"payment_method"`
	PaymentStatus string                     `json:"payment_status,omitempty"`
	Notes         string                     `json:"notes,omitempty"`
	Services      []TransactionServiceInput  `json:"services,omitempty"`
	Medicines     []TransactionMedicineInput `json:"medicines,omitempty"`
}

// UpdateStatusRequest body para PATCH /api/transactions/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AddNotesRequest body para PATCH /api/transactions/:id/notes.
type AddNotesRequest struct {
	Notes string `json:"notes"`
}

// TransactionServiceResponse línea de servicio persistida.
type TransactionServiceResponse struct {
	ID        string          `json:"id"`
	ServiceID string          `json:"service_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// TransactionMedicineResponse línea de medicamento persistida.
type TransactionMedicineResponse struct {
	ID         string          `json:"id"`
	MedicineID string          `json:"medicine_id"`
	Name       string          `json:"name,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
}

// TransactionResponse transacción con sus líneas. Los montos viajan como
// números JSON, nunca como strings.
type TransactionResponse struct {
	ID            string                        `json:"id"`
	PatientID     string                        `json:"patient_id"`
	PatientName   string                        `json:"patient_name,omitempty"`
	TotalAmount   decimal.Decimal               `json:"total_amount"`
	PaymentMethod string                        `json:"payment_method"`
	PaymentStatus string                        `json:"payment_status"`
	Notes         string                        `json:"notes,omitempty"`
	Services      []TransactionServiceResponse  `json:"services"`
	Medicines     []TransactionMedicineResponse `json:"medicines"`
	CreatedAt     time.Time                     `json:"created_at"`
	UpdatedAt     time.Time                     `json:"updated_at"`
}
