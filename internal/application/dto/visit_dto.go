package dto

import "time"

// RecordVisitRequest body para POST /api/patients/:id/visits.
type RecordVisitRequest struct {
	TransactionID string `json:"transaction_id,omitempty"`
	VisitDate     string `json:"visit_date,omitempty"` // YYYY-MM-DD; vacío = hoy
	Diagnosis     string `json:"diagnosis,omitempty"`
	Treatment     string `json:"treatment,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// VisitResponse visita clínica persistida.
type VisitResponse struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	VisitDate     time.Time `json:"visit_date"`
	Diagnosis     string    `json:"diagnosis,omitempty"`
	Treatment     string    `json:"treatment,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
