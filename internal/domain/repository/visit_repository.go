package repository

import "github.com/jhoicas/Clinica-api/internal/domain/entity"

// VisitRepository define el puerto de persistencia para Visit.
type VisitRepository interface {
	Create(visit *entity.Visit) error
	ListByPatient(patientID string, limit, offset int) ([]*entity.Visit, error)
	CountByPatient(patientID string) (int, error)
}
