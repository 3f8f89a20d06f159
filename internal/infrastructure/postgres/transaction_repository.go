package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las líneas son inmutables: solo INSERT, nunca UPDATE ni DELETE.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, patient_id, total_amount, payment_method, payment_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.PatientID, tx.TotalAmount, tx.PaymentMethod, tx.PaymentStatus,
		nullable(tx.Notes), tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateServiceItem persiste una línea de servicio con su snapshot de precio.
func (r *TransactionRepo) CreateServiceItem(item *entity.TransactionService) error {
	query := `
		INSERT INTO transaction_services (id, transaction_id, service_id, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.TransactionID, item.ServiceID, item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert transaction service: %w", err)
	}
	return nil
}

// CreateMedicineItem persiste una línea de medicamento con su snapshot de precio.
func (r *TransactionRepo) CreateMedicineItem(item *entity.TransactionMedicine) error {
	query := `
		INSERT INTO transaction_medicines (id, transaction_id, medicine_id, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.TransactionID, item.MedicineID, item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert transaction medicine: %w", err)
	}
	return nil
}

const transactionColumns = `id, patient_id, total_amount, payment_method, payment_status, notes, created_at, updated_at`

// GetByID obtiene la cabecera por ID; nil si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	var t entity.Transaction
	var notes *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.PatientID, &t.TotalAmount, &t.PaymentMethod, &t.PaymentStatus,
		&notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	t.Notes = fromNullable(notes)
	return &t, nil
}

// Update persiste payment_status, notes y updated_at de la cabecera.
func (r *TransactionRepo) Update(tx *entity.Transaction) error {
	query := `UPDATE transactions SET payment_status = $2, notes = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, tx.ID, tx.PaymentStatus, nullable(tx.Notes), tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// List paginado, más reciente primero; status vacío = todas.
func (r *TransactionRepo) List(status string, limit, offset int) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE payment_status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var notes *string
		if err := rows.Scan(&t.ID, &t.PatientID, &t.TotalAmount, &t.PaymentMethod, &t.PaymentStatus,
			&notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Notes = fromNullable(notes)
		list = append(list, &t)
	}
	return list, rows.Err()
}

// GetServiceItems devuelve las líneas de servicio de una transacción.
func (r *TransactionRepo) GetServiceItems(transactionID string) ([]*entity.TransactionService, error) {
	query := `
		SELECT id, transaction_id, service_id, quantity, unit_price, total
		FROM transaction_services WHERE transaction_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("get service items: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransactionService
	for rows.Next() {
		var item entity.TransactionService
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.ServiceID, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, fmt.Errorf("scan service item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// GetMedicineItems devuelve las líneas de medicamento de una transacción.
func (r *TransactionRepo) GetMedicineItems(transactionID string) ([]*entity.TransactionMedicine, error) {
	query := `
		SELECT id, transaction_id, medicine_id, quantity, unit_price, total
		FROM transaction_medicines WHERE transaction_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("get medicine items: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransactionMedicine
	for rows.Next() {
		var item entity.TransactionMedicine
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.MedicineID, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, fmt.Errorf("scan medicine item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// CountByPatient cuenta transacciones de un paciente (para el borrado con verificación).
func (r *TransactionRepo) CountByPatient(patientID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM transactions WHERE patient_id = $1`, patientID)
}

// CountByMedicine cuenta líneas de venta que referencian un medicamento.
func (r *TransactionRepo) CountByMedicine(medicineID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM transaction_medicines WHERE medicine_id = $1`, medicineID)
}

// CountByService cuenta líneas de venta que referencian un servicio.
func (r *TransactionRepo) CountByService(serviceID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM transaction_services WHERE service_id = $1`, serviceID)
}

func (r *TransactionRepo) count(query string, arg any) (int, error) {
	var n int
	if err := r.q.QueryRow(context.Background(), query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
