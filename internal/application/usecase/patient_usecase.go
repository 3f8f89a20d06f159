package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// PatientUseCase CRUD de pacientes. El borrado se rechaza mientras el paciente
// esté referenciado por transacciones o visitas.
type PatientUseCase struct {
	patientRepo     repository.PatientRepository
	transactionRepo repository.TransactionRepository
	visitRepo       repository.VisitRepository
}

// NewPatientUseCase construye el caso de uso.
func NewPatientUseCase(
	patientRepo repository.PatientRepository,
	transactionRepo repository.TransactionRepository,
	visitRepo repository.VisitRepository,
) *PatientUseCase {
	return &PatientUseCase{
		patientRepo:     patientRepo,
		transactionRepo: transactionRepo,
		visitRepo:       visitRepo,
	}
}

// Create registra un paciente nuevo.
func (uc *PatientUseCase) Create(ctx context.Context, in dto.CreatePatientRequest) (*entity.Patient, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	birthDate, err := parseOptionalDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	patient := &entity.Patient{
		ID:        uuid.New().String(),
		Name:      in.Name,
		BirthDate: birthDate,
		Gender:    in.Gender,
		Phone:     in.Phone,
		Address:   in.Address,
		Allergies: in.Allergies,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.patientRepo.Create(patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// GetByID obtiene un paciente; ErrPatientNotFound si no existe.
func (uc *PatientUseCase) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	patient, err := uc.patientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrPatientNotFound
	}
	return patient, nil
}

// List busca pacientes por nombre (search vacío = todos), paginado.
func (uc *PatientUseCase) List(ctx context.Context, search string, limit, offset int) ([]*entity.Patient, error) {
	return uc.patientRepo.List(search, limit, offset)
}

// Update actualiza los datos del paciente.
func (uc *PatientUseCase) Update(ctx context.Context, id string, in dto.UpdatePatientRequest) (*entity.Patient, error) {
	patient, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	birthDate, err := parseOptionalDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	patient.Name = in.Name
	patient.BirthDate = birthDate
	patient.Gender = in.Gender
	patient.Phone = in.Phone
	patient.Address = in.Address
	patient.Allergies = in.Allergies
	patient.UpdatedAt = time.Now()
	if err := uc.patientRepo.Update(patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Delete elimina un paciente sin transacciones ni visitas; ErrConflict si está referenciado.
func (uc *PatientUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	txCount, err := uc.transactionRepo.CountByPatient(id)
	if err != nil {
		return err
	}
	visitCount, err := uc.visitRepo.CountByPatient(id)
	if err != nil {
		return err
	}
	if txCount > 0 || visitCount > 0 {
		return domain.ErrConflict
	}
	return uc.patientRepo.Delete(id)
}

// parseOptionalDate interpreta una fecha YYYY-MM-DD; vacío retorna nil.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &d, nil
}
