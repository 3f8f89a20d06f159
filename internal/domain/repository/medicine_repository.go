package repository

import "github.com/jhoicas/Clinica-api/internal/domain/entity"

// MedicineRepository define el puerto de persistencia para Medicine.
// El stock solo lo actualiza el Ledger de inventario (UpdateStock) dentro de
// una transacción, tras bloquear la fila con GetForUpdate.
type MedicineRepository interface {
	Create(medicine *entity.Medicine) error
	GetByID(id string) (*entity.Medicine, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Medicine, error)
	// List paginado; lowStockOnly limita a stock <= minimum_stock.
	List(lowStockOnly bool, limit, offset int) ([]*entity.Medicine, error)
	Update(medicine *entity.Medicine) error
	// UpdateStock fija la cantidad en stock y toca updated_at.
	UpdateStock(id string, quantity int) error
	Delete(id string) error
}
