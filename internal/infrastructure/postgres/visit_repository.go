package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var _ repository.VisitRepository = (*VisitRepo)(nil)

// VisitRepo implementación de VisitRepository sobre PostgreSQL (usable con pool o tx).
type VisitRepo struct {
	q Querier
}

// NewVisitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVisitRepository(q Querier) *VisitRepo {
	return &VisitRepo{q: q}
}

// Create persiste una visita.
func (r *VisitRepo) Create(visit *entity.Visit) error {
	if visit.ID == "" {
		visit.ID = uuid.New().String()
	}
	query := `
		INSERT INTO visits (id, patient_id, transaction_id, visit_date, diagnosis, treatment, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		visit.ID, visit.PatientID, nullable(visit.TransactionID), visit.VisitDate,
		nullable(visit.Diagnosis), nullable(visit.Treatment), nullable(visit.Notes), visit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

// ListByPatient devuelve las visitas de un paciente, más reciente primero.
func (r *VisitRepo) ListByPatient(patientID string, limit, offset int) ([]*entity.Visit, error) {
	query := `
		SELECT id, patient_id, transaction_id, visit_date, diagnosis, treatment, notes, created_at
		FROM visits WHERE patient_id = $1 ORDER BY visit_date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	var list []*entity.Visit
	for rows.Next() {
		var v entity.Visit
		var transactionID, diagnosis, treatment, notes *string
		if err := rows.Scan(&v.ID, &v.PatientID, &transactionID, &v.VisitDate,
			&diagnosis, &treatment, &notes, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.TransactionID = fromNullable(transactionID)
		v.Diagnosis = fromNullable(diagnosis)
		v.Treatment = fromNullable(treatment)
		v.Notes = fromNullable(notes)
		list = append(list, &v)
	}
	return list, rows.Err()
}

// CountByPatient cuenta visitas de un paciente (para el borrado con verificación).
func (r *VisitRepo) CountByPatient(patientID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM visits WHERE patient_id = $1`
	if err := r.q.QueryRow(context.Background(), query, patientID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}
	return n, nil
}
