package dto

import "time"

// CreatePatientRequest body para POST /api/patients.
type CreatePatientRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date,omitempty"` // YYYY-MM-DD
	Gender    string `json:"gender,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Allergies string `json:"allergies,omitempty"`
}

// UpdatePatientRequest body para PUT /api/patients/:id.
type UpdatePatientRequest = CreatePatientRequest

// PatientResponse paciente persistido.
type PatientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Allergies string    `json:"allergies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
