package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas read-only para el dashboard.
// Todas las métricas de venta cuentan solo transacciones pagadas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics devuelve ingresos y número de transacciones pagadas en [from, to).
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM transactions
		WHERE payment_status = $1 AND created_at >= $2 AND created_at < $3`
	var revenue decimal.Decimal
	var count int
	err := r.q.QueryRow(ctx, query, entity.PaymentStatusPaid, from, to).Scan(&revenue, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("sales metrics: %w", err)
	}
	return revenue, count, nil
}

// GetTopServices agrega líneas de servicio de transacciones pagadas en [from, to),
// ordenadas por ingresos descendentes.
func (r *AnalyticsRepo) GetTopServices(ctx context.Context, from, to time.Time, limit int) ([]repository.TopService, error) {
	query := `
		SELECT ts.service_id, s.name, COALESCE(SUM(ts.quantity), 0), COALESCE(SUM(ts.total), 0)
		FROM transaction_services ts
		JOIN transactions t ON t.id = ts.transaction_id
		JOIN services s ON s.id = ts.service_id
		WHERE t.payment_status = $1 AND t.created_at >= $2 AND t.created_at < $3
		GROUP BY ts.service_id, s.name
		ORDER BY SUM(ts.total) DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, entity.PaymentStatusPaid, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top services: %w", err)
	}
	defer rows.Close()

	var list []repository.TopService
	for rows.Next() {
		var ts repository.TopService
		if err := rows.Scan(&ts.ServiceID, &ts.Name, &ts.Quantity, &ts.Revenue); err != nil {
			return nil, fmt.Errorf("scan top service: %w", err)
		}
		list = append(list, ts)
	}
	return list, rows.Err()
}

// CountPatients devuelve el total de pacientes registrados.
func (r *AnalyticsRepo) CountPatients(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

// ListLowStock devuelve medicamentos en o por debajo de su stock mínimo.
func (r *AnalyticsRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE stock_quantity <= minimum_stock
		ORDER BY stock_quantity ASC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.Medicine
	for rows.Next() {
		var m entity.Medicine
		var supplier *string
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &m.Price, &m.StockQuantity, &m.MinimumStock,
			&m.ExpiryDate, &supplier, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		m.Supplier = fromNullable(supplier)
		list = append(list, &m)
	}
	return list, rows.Err()
}
