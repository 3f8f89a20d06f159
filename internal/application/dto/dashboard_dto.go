package dto

import "github.com/shopspring/decimal"

// TopServiceDTO servicio más vendido del mes.
type TopServiceDTO struct {
	ServiceID string          `json:"service_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// LowStockMedicineDTO medicamento por debajo de su stock mínimo.
type LowStockMedicineDTO struct {
	MedicineID    string `json:"medicine_id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	MinimumStock  int    `json:"minimum_stock"`
}

// DashboardSummaryDTO resumen para la pestaña de inicio de la UI.
// Solo cuentan transacciones pagadas.
type DashboardSummaryDTO struct {
	TodayRevenue      decimal.Decimal       `json:"today_revenue"`
	TodayTransactions int                   `json:"today_transactions"`
	MonthRevenue      decimal.Decimal       `json:"month_revenue"`
	MonthTransactions int                   `json:"month_transactions"`
	TotalPatients     int                   `json:"total_patients"`
	TopServices       []TopServiceDTO       `json:"top_services"`
	LowStockMedicines []LowStockMedicineDTO `json:"low_stock_medicines"`
}
