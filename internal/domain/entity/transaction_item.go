package entity

import "github.com/shopspring/decimal"

// TransactionService línea de servicio de una transacción. Inmutable una vez
// creada; UnitPrice es una copia del precio del catálogo al momento de la venta.
type TransactionService struct {
	ID            string
	TransactionID string
	ServiceID     string
	Quantity      int             // > 0
	UnitPrice     decimal.Decimal // snapshot del precio
	Total         decimal.Decimal // Quantity × UnitPrice
}

// TransactionMedicine línea de medicamento de una transacción. Inmutable una
// vez creada; UnitPrice es una copia del precio del catálogo al momento de la venta.
type TransactionMedicine struct {
	ID            string
	TransactionID string
	MedicineID    string
	Quantity      int             // > 0
	UnitPrice     decimal.Decimal // snapshot del precio
	Total         decimal.Decimal // Quantity × UnitPrice
}
