package entity

import "time"

// Visit representa una visita clínica de un paciente, opcionalmente ligada
// a la transacción que la originó.
type Visit struct {
	ID            string
	PatientID     string
	TransactionID string // vacío si la visita no nació de una venta
	VisitDate     time.Time
	Diagnosis     string
	Treatment     string
	Notes         string
	CreatedAt     time.Time
}
