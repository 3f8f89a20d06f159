package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados (son etiquetas, no hay pasarela).
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCard     = "card"
)

// Estados de pago de una transacción. Los tres estados son alcanzables
// entre sí; la máquina de estados vive en el caso de uso UpdateStatus.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
)

// ValidPaymentMethod indica si el método de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer || m == PaymentMethodCard
}

// ValidPaymentStatus indica si el estado de pago es uno de los conocidos.
func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid || s == PaymentStatusCancelled
}

// Transaction representa una venta de la clínica (servicios y/o medicamentos).
// TotalAmount siempre es la suma de los totales de sus líneas al momento de crearla.
type Transaction struct {
	ID            string
	PatientID     string
	TotalAmount   decimal.Decimal
	PaymentMethod string // cash, transfer, card
	PaymentStatus string // pending, paid, cancelled
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
