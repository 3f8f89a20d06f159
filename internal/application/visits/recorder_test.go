package visits_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/visits"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/infrastructure/memory"
)

func newRecorder(t *testing.T) (*visits.RecorderUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Patients().Create(&entity.Patient{ID: "p1", Name: "Ana Pérez"}))
	return visits.NewRecorderUseCase(store.Patients(), store.Transactions(), store.Visits()), store
}

func TestRecordVisit_ManualConDiagnostico(t *testing.T) {
	uc, _ := newRecorder(t)

	visit, err := uc.RecordVisit(context.Background(), "p1", dto.RecordVisitRequest{
		VisitDate: "2026-08-15",
		Diagnosis: "faringitis aguda",
		Treatment: "amoxicilina 500mg cada 8h por 7 días",
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", visit.PatientID)
	assert.Empty(t, visit.TransactionID, "una visita manual no referencia venta")
	assert.Equal(t, "2026-08-15", visit.VisitDate.Format("2006-01-02"))
	assert.Equal(t, "faringitis aguda", visit.Diagnosis)
}

func TestRecordVisit_PacienteInexistente(t *testing.T) {
	uc, _ := newRecorder(t)

	_, err := uc.RecordVisit(context.Background(), "no-existe", dto.RecordVisitRequest{})

	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}

func TestRecordVisit_TransaccionInexistente(t *testing.T) {
	uc, _ := newRecorder(t)

	_, err := uc.RecordVisit(context.Background(), "p1", dto.RecordVisitRequest{
		TransactionID: "no-existe",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordVisit_FechaInvalida(t *testing.T) {
	uc, _ := newRecorder(t)

	_, err := uc.RecordVisit(context.Background(), "p1", dto.RecordVisitRequest{
		VisitDate: "15/08/2026",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByPatient_MasRecientePrimero(t *testing.T) {
	uc, _ := newRecorder(t)
	ctx := context.Background()

	for _, fecha := range []string{"2026-01-10", "2026-03-05", "2026-02-20"} {
		_, err := uc.RecordVisit(ctx, "p1", dto.RecordVisitRequest{VisitDate: fecha})
		require.NoError(t, err)
	}

	list, err := uc.ListByPatient(ctx, "p1", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2026-03-05", list[0].VisitDate.Format("2006-01-02"))
	assert.Equal(t, "2026-01-10", list[2].VisitDate.Format("2006-01-02"))
}

func TestListByPatient_PacienteInexistente(t *testing.T) {
	uc, _ := newRecorder(t)

	_, err := uc.ListByPatient(context.Background(), "no-existe", 10, 0)

	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}
