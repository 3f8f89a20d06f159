package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// StockMovement representa un movimiento de stock de un medicamento.
// Es un registro de auditoría append-only: nunca se edita ni se borra,
// salvo al eliminar el historial completo de un medicamento sin referencias.
// Las correcciones se hacen con movimientos inversos, no con ediciones.
type StockMovement struct {
	ID          string
	MedicineID  string
	Type        string // in, out
	Quantity    int    // siempre positivo; el signo lo da Type
	ReferenceID string // ID de la transacción que lo originó; vacío para ajustes manuales
	Notes       string
	CreatedAt   time.Time
}
