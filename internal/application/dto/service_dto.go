package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateServiceRequest body para POST /api/services.
type CreateServiceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateServiceRequest body para PUT /api/services/:id.
type UpdateServiceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

// ServiceResponse servicio persistido.
type ServiceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
