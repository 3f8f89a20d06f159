package repository

import "github.com/jhoicas/Clinica-api/internal/domain/entity"

// StockMovementRepository define el puerto para el registro de movimientos de
// stock. Es append-only: no existe Update; Delete solo por medicamento, al
// eliminar un medicamento sin referencias junto con su historial.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// List devuelve movimientos en orden descendente por fecha de creación.
	// medicineID vacío = todos los medicamentos.
	List(medicineID string, limit, offset int) ([]*entity.StockMovement, error)
	// ListByReference devuelve los movimientos originados por una transacción,
	// en orden ascendente de creación.
	ListByReference(referenceID string) ([]*entity.StockMovement, error)
	DeleteByMedicine(medicineID string) error
}
