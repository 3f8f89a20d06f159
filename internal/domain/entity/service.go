package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service representa un servicio clínico (consulta, curación, etc.).
// Una vez referenciado por una transacción se desactiva, nunca se borra.
type Service struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
