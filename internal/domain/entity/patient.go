package entity

import "time"

// Patient representa un paciente de la clínica.
type Patient struct {
	ID        string
	Name      string
	BirthDate *time.Time
	Gender    string // M, F, otro
	Phone     string
	Address   string
	Allergies string // notas de alergias (texto libre)
	CreatedAt time.Time
	UpdatedAt time.Time
}
