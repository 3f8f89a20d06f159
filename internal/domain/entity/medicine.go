package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine representa un medicamento del inventario de la clínica.
// StockQuantity solo se modifica a través del Ledger de inventario para que
// todo cambio deje un StockMovement asociado.
type Medicine struct {
	ID            string
	Name          string
	Unit          string          // tableta, frasco, ampolla, etc.
	Price         decimal.Decimal // precio de venta por unidad
	StockQuantity int             // nunca negativo
	MinimumStock  int             // umbral de alerta, no se hace cumplir en ventas
	ExpiryDate    *time.Time
	Supplier      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
