// Package analytics contiene el caso de uso del dashboard de la clínica.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

const (
	dashboardTopServices = 5  // servicios en el widget del dashboard
	dashboardLowStockMax = 10 // medicamentos en la alerta de stock bajo
)

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only sobre
// transacciones pagadas). No accede directamente a las tablas.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. GetSalesMetrics(hoy)      -> TodayRevenue + TodayTransactions
//  2. GetSalesMetrics(mes)      -> MonthRevenue + MonthTransactions
//  3. GetTopServices(mes, 5)    -> TopServices
//  4. CountPatients + ListLowStock
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	// Hoy: 00:00:00.000 - 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	// Mes en curso: día 1 a las 00:00 - hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	type metricsResult struct {
		revenue decimal.Decimal
		count   int
		err     error
	}
	type topResult struct {
		services []repository.TopService
		err      error
	}
	type countersResult struct {
		patients int
		lowStock []dto.LowStockMedicineDTO
		err      error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)
	countersCh := make(chan countersResult, 1)

	go func() {
		rev, count, err := uc.analyticsRepo.GetSalesMetrics(ctx, todayStart, todayEnd)
		todayCh <- metricsResult{rev, count, err}
	}()
	go func() {
		rev, count, err := uc.analyticsRepo.GetSalesMetrics(ctx, monthStart, monthEnd)
		monthCh <- metricsResult{rev, count, err}
	}()
	go func() {
		services, err := uc.analyticsRepo.GetTopServices(ctx, monthStart, monthEnd, dashboardTopServices)
		topCh <- topResult{services, err}
	}()
	go func() {
		patients, err := uc.analyticsRepo.CountPatients(ctx)
		if err != nil {
			countersCh <- countersResult{err: err}
			return
		}
		medicines, err := uc.analyticsRepo.ListLowStock(ctx, dashboardLowStockMax)
		if err != nil {
			countersCh <- countersResult{err: err}
			return
		}
		lowStock := make([]dto.LowStockMedicineDTO, 0, len(medicines))
		for _, m := range medicines {
			lowStock = append(lowStock, dto.LowStockMedicineDTO{
				MedicineID:    m.ID,
				Name:          m.Name,
				StockQuantity: m.StockQuantity,
				MinimumStock:  m.MinimumStock,
			})
		}
		countersCh <- countersResult{patients: patients, lowStock: lowStock}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	counters := <-countersCh

	if today.err != nil {
		return nil, fmt.Errorf("métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("top servicios: %w", top.err)
	}
	if counters.err != nil {
		return nil, fmt.Errorf("contadores: %w", counters.err)
	}

	topServices := make([]dto.TopServiceDTO, 0, len(top.services))
	for _, s := range top.services {
		topServices = append(topServices, dto.TopServiceDTO{
			ServiceID: s.ServiceID,
			Name:      s.Name,
			Quantity:  s.Quantity,
			Revenue:   s.Revenue,
		})
	}

	return &dto.DashboardSummaryDTO{
		TodayRevenue:      today.revenue,
		TodayTransactions: today.count,
		MonthRevenue:      month.revenue,
		MonthTransactions: month.count,
		TotalPatients:     counters.patients,
		TopServices:       topServices,
		LowStockMedicines: counters.lowStock,
	}, nil
}
