package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var _ repository.PatientRepository = (*PatientRepo)(nil)

// PatientRepo implementación de PatientRepository sobre PostgreSQL.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

const patientColumns = `id, name, birth_date, gender, phone, address, allergies, created_at, updated_at`

// Create persiste un paciente nuevo.
func (r *PatientRepo) Create(patient *entity.Patient) error {
	query := `
		INSERT INTO patients (id, name, birth_date, gender, phone, address, allergies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		patient.ID, patient.Name, patient.BirthDate, nullable(patient.Gender),
		nullable(patient.Phone), nullable(patient.Address), nullable(patient.Allergies),
		patient.CreatedAt, patient.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

// GetByID obtiene un paciente por ID; nil si no existe.
func (r *PatientRepo) GetByID(id string) (*entity.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var p entity.Patient
	var gender, phone, address, allergies *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.BirthDate, &gender, &phone, &address, &allergies,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	p.Gender = fromNullable(gender)
	p.Phone = fromNullable(phone)
	p.Address = fromNullable(address)
	p.Allergies = fromNullable(allergies)
	return &p, nil
}

// List busca por nombre (ILIKE, search vacío = todos), paginado.
func (r *PatientRepo) List(search string, limit, offset int) ([]*entity.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	args := []any{}
	pos := 1
	if search != "" {
		query += fmt.Sprintf(" WHERE name ILIKE $%d", pos)
		args = append(args, "%"+search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Patient
	for rows.Next() {
		var p entity.Patient
		var gender, phone, address, allergies *string
		if err := rows.Scan(&p.ID, &p.Name, &p.BirthDate, &gender, &phone, &address, &allergies,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		p.Gender = fromNullable(gender)
		p.Phone = fromNullable(phone)
		p.Address = fromNullable(address)
		p.Allergies = fromNullable(allergies)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza los datos del paciente.
func (r *PatientRepo) Update(patient *entity.Patient) error {
	query := `
		UPDATE patients
		SET name = $2, birth_date = $3, gender = $4, phone = $5, address = $6, allergies = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		patient.ID, patient.Name, patient.BirthDate, nullable(patient.Gender),
		nullable(patient.Phone), nullable(patient.Address), nullable(patient.Allergies),
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

// Delete elimina el paciente. El caso de uso ya verificó referencias.
func (r *PatientRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return nil
}
