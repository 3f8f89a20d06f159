package visits

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// RecorderUseCase registra visitas clínicas. El Transaction Builder lo invoca
// dentro de su transacción (RecordVisitInTx); la API lo expone además como
// registro manual de visitas con diagnóstico y tratamiento.
type RecorderUseCase struct {
	patientRepo     repository.PatientRepository
	transactionRepo repository.TransactionRepository
	visitRepo       repository.VisitRepository
}

// NewRecorderUseCase construye el caso de uso.
func NewRecorderUseCase(
	patientRepo repository.PatientRepository,
	transactionRepo repository.TransactionRepository,
	visitRepo repository.VisitRepository,
) *RecorderUseCase {
	return &RecorderUseCase{
		patientRepo:     patientRepo,
		transactionRepo: transactionRepo,
		visitRepo:       visitRepo,
	}
}

// RecordVisit registra una visita manual. Falla con ErrPatientNotFound si el
// paciente no existe y con ErrNotFound si la transacción referida no existe.
func (uc *RecorderUseCase) RecordVisit(ctx context.Context, patientID string, in dto.RecordVisitRequest) (*entity.Visit, error) {
	patient, err := uc.patientRepo.GetByID(patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrPatientNotFound
	}
	if in.TransactionID != "" {
		tx, err := uc.transactionRepo.GetByID(in.TransactionID)
		if err != nil {
			return nil, err
		}
		if tx == nil {
			return nil, domain.ErrNotFound
		}
	}

	visitDate := time.Now()
	if in.VisitDate != "" {
		d, err := time.Parse("2006-01-02", in.VisitDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		visitDate = d
	}

	visit := &entity.Visit{
		ID:            uuid.New().String(),
		PatientID:     patientID,
		TransactionID: in.TransactionID,
		VisitDate:     visitDate,
		Diagnosis:     in.Diagnosis,
		Treatment:     in.Treatment,
		Notes:         in.Notes,
		CreatedAt:     time.Now(),
	}
	if err := uc.visitRepo.Create(visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// RecordVisitInTx registra la visita usando el repositorio del caller (misma
// transacción). El caller ya validó paciente y transacción; si el insert falla,
// el caller hace rollback de toda la venta.
func (uc *RecorderUseCase) RecordVisitInTx(
	visitRepo repository.VisitRepository,
	patientID, transactionID string,
	visitDate time.Time,
) (*entity.Visit, error) {
	visit := &entity.Visit{
		ID:            uuid.New().String(),
		PatientID:     patientID,
		TransactionID: transactionID,
		VisitDate:     visitDate,
		CreatedAt:     visitDate,
	}
	if err := visitRepo.Create(visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// ListByPatient historial de visitas de un paciente, más reciente primero.
func (uc *RecorderUseCase) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*entity.Visit, error) {
	patient, err := uc.patientRepo.GetByID(patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrPatientNotFound
	}
	return uc.visitRepo.ListByPatient(patientID, limit, offset)
}
