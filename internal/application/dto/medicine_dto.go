package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMedicineRequest body para POST /api/medicines. StockQuantity es el
// stock inicial; se registra vía Ledger como movimiento de entrada.
type CreateMedicineRequest struct {
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	MinimumStock  int             `json:"minimum_stock"`
	ExpiryDate    string          `json:"expiry_date,omitempty"` // YYYY-MM-DD
	Supplier      string          `json:"supplier,omitempty"`
}

// UpdateMedicineRequest body para PUT /api/medicines/:id. No incluye stock:
// los cambios de stock van por el Ledger (PUT /api/inventory/stock/:medicineId).
type UpdateMedicineRequest struct {
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	MinimumStock int             `json:"minimum_stock"`
	ExpiryDate   string          `json:"expiry_date,omitempty"`
	Supplier     string          `json:"supplier,omitempty"`
}

// MedicineResponse medicamento persistido.
type MedicineResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	MinimumStock  int             `json:"minimum_stock"`
	LowStock      bool            `json:"low_stock"`
	ExpiryDate    string          `json:"expiry_date,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
