package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// TopService agregado de ventas por servicio en un rango de fechas.
type TopService struct {
	ServiceID string
	Name      string
	Quantity  int
	Revenue   decimal.Decimal
}

// AnalyticsRepository consultas read-only para el dashboard.
// Solo cuentan transacciones pagadas (payment_status = paid).
type AnalyticsRepository interface {
	// GetSalesMetrics devuelve ingresos y número de transacciones pagadas en el rango.
	GetSalesMetrics(ctx context.Context, from, to time.Time) (revenue decimal.Decimal, count int, err error)
	GetTopServices(ctx context.Context, from, to time.Time, limit int) ([]TopService, error)
	CountPatients(ctx context.Context) (int, error)
	// ListLowStock devuelve medicamentos con stock_quantity <= minimum_stock.
	ListLowStock(ctx context.Context, limit int) ([]*entity.Medicine, error)
}
