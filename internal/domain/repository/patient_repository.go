package repository

import "github.com/jhoicas/Clinica-api/internal/domain/entity"

// PatientRepository define el puerto de persistencia para Patient.
type PatientRepository interface {
	Create(patient *entity.Patient) error
	GetByID(id string) (*entity.Patient, error)
	// List busca por nombre (search vacío = todos), paginado.
	List(search string, limit, offset int) ([]*entity.Patient, error)
	Update(patient *entity.Patient) error
	Delete(id string) error
}
