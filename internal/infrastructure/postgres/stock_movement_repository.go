package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// El log es append-only: este adaptador no expone UPDATE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, medicine_id, movement_type, quantity, reference_id, notes, created_at`

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, medicine_id, movement_type, quantity, reference_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.MedicineID, movement.Type, movement.Quantity,
		nullable(movement.ReferenceID), nullable(movement.Notes), movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List devuelve movimientos en orden descendente por fecha de creación.
// medicineID vacío = todos los medicamentos.
func (r *StockMovementRepo) List(medicineID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements`
	args := []any{}
	pos := 1
	if medicineID != "" {
		query += fmt.Sprintf(" WHERE medicine_id = $%d", pos)
		args = append(args, medicineID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	return r.scanList(query, args...)
}

// ListByReference devuelve los movimientos originados por una transacción,
// en orden ascendente de creación.
func (r *StockMovementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE reference_id = $1 ORDER BY created_at ASC`
	return r.scanList(query, referenceID)
}

func (r *StockMovementRepo) scanList(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var referenceID, notes *string
		if err := rows.Scan(&m.ID, &m.MedicineID, &m.Type, &m.Quantity, &referenceID, &notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.ReferenceID = fromNullable(referenceID)
		m.Notes = fromNullable(notes)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteByMedicine borra el historial de un medicamento. Solo se usa al
// eliminar un medicamento sin referencias de venta.
func (r *StockMovementRepo) DeleteByMedicine(medicineID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_movements WHERE medicine_id = $1`, medicineID)
	if err != nil {
		return fmt.Errorf("delete stock movements: %w", err)
	}
	return nil
}
