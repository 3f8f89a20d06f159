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

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación de MedicineRepository sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

const medicineColumns = `id, name, unit, price, stock_quantity, minimum_stock, expiry_date, supplier, created_at, updated_at`

// Create persiste un medicamento nuevo. El stock inicial lo carga el Ledger.
func (r *MedicineRepo) Create(medicine *entity.Medicine) error {
	query := `
		INSERT INTO medicines (id, name, unit, price, stock_quantity, minimum_stock, expiry_date, supplier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		medicine.ID, medicine.Name, medicine.Unit, medicine.Price,
		medicine.StockQuantity, medicine.MinimumStock, medicine.ExpiryDate,
		nullable(medicine.Supplier), medicine.CreatedAt, medicine.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

// GetByID obtiene un medicamento por ID; nil si no existe.
func (r *MedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate obtiene el medicamento y bloquea la fila (SELECT FOR UPDATE).
func (r *MedicineRepo) GetForUpdate(id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *MedicineRepo) scanOne(query string, id string) (*entity.Medicine, error) {
	var m entity.Medicine
	var supplier *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Name, &m.Unit, &m.Price, &m.StockQuantity, &m.MinimumStock,
		&m.ExpiryDate, &supplier, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	m.Supplier = fromNullable(supplier)
	return &m, nil
}

// List paginado por nombre; lowStockOnly limita a stock_quantity <= minimum_stock.
func (r *MedicineRepo) List(lowStockOnly bool, limit, offset int) ([]*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines`
	if lowStockOnly {
		query += ` WHERE stock_quantity <= minimum_stock`
	}
	query += ` ORDER BY name ASC LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	var list []*entity.Medicine
	for rows.Next() {
		var m entity.Medicine
		var supplier *string
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &m.Price, &m.StockQuantity, &m.MinimumStock,
			&m.ExpiryDate, &supplier, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		m.Supplier = fromNullable(supplier)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Update actualiza los metadatos del catálogo (no el stock).
func (r *MedicineRepo) Update(medicine *entity.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $2, unit = $3, price = $4, minimum_stock = $5, expiry_date = $6, supplier = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		medicine.ID, medicine.Name, medicine.Unit, medicine.Price,
		medicine.MinimumStock, medicine.ExpiryDate, nullable(medicine.Supplier), medicine.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	return nil
}

// UpdateStock fija la cantidad en stock y toca updated_at. Lo llama el Ledger
// dentro de una transacción, con la fila ya bloqueada por GetForUpdate.
func (r *MedicineRepo) UpdateStock(id string, quantity int) error {
	query := `UPDATE medicines SET stock_quantity = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, quantity)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Delete elimina el medicamento. El caso de uso ya verificó referencias.
func (r *MedicineRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	return nil
}
