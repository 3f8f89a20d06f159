package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clinica-api/internal/application/analytics"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/infrastructure/memory"
)

// El resumen solo cuenta ventas pagadas: las pendientes y anuladas quedan
// fuera de los ingresos, y los medicamentos bajo mínimo aparecen en la alerta.
func TestGetSummary_SoloVentasPagadas(t *testing.T) {
	store := memory.NewStore()
	now := time.Now()

	require.NoError(t, store.Patients().Create(&entity.Patient{ID: "p1", Name: "Ana"}))
	require.NoError(t, store.Medicines().Create(&entity.Medicine{
		ID: "m1", Name: "Suero", Unit: "bolsa",
		Price: decimal.NewFromInt(9000), StockQuantity: 2, MinimumStock: 5,
	}))

	ventas := []entity.Transaction{
		{ID: "t1", PatientID: "p1", TotalAmount: decimal.NewFromInt(50000), PaymentStatus: entity.PaymentStatusPaid, CreatedAt: now},
		{ID: "t2", PatientID: "p1", TotalAmount: decimal.NewFromInt(30000), PaymentStatus: entity.PaymentStatusPaid, CreatedAt: now},
		{ID: "t3", PatientID: "p1", TotalAmount: decimal.NewFromInt(99999), PaymentStatus: entity.PaymentStatusPending, CreatedAt: now},
		{ID: "t4", PatientID: "p1", TotalAmount: decimal.NewFromInt(77777), PaymentStatus: entity.PaymentStatusCancelled, CreatedAt: now},
	}
	for i := range ventas {
		v := ventas[i]
		require.NoError(t, store.Transactions().Create(&v))
	}

	uc := analytics.NewDashboardUseCase(store.Analytics())
	summary, err := uc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80000).Equal(summary.TodayRevenue), "hoy: %s", summary.TodayRevenue)
	assert.Equal(t, 2, summary.TodayTransactions)
	assert.True(t, decimal.NewFromInt(80000).Equal(summary.MonthRevenue))
	assert.Equal(t, 1, summary.TotalPatients)

	require.Len(t, summary.LowStockMedicines, 1)
	assert.Equal(t, "m1", summary.LowStockMedicines[0].MedicineID)
	assert.Equal(t, 2, summary.LowStockMedicines[0].StockQuantity)
}

func TestGetSummary_VacioSinDatos(t *testing.T) {
	store := memory.NewStore()
	uc := analytics.NewDashboardUseCase(store.Analytics())

	summary, err := uc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.True(t, summary.TodayRevenue.IsZero())
	assert.Equal(t, 0, summary.TodayTransactions)
	assert.Empty(t, summary.TopServices)
	assert.Empty(t, summary.LowStockMedicines)
}
