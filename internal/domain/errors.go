package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrPatientNotFound   = errors.New("paciente no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrServiceInactive   = errors.New("servicio inactivo")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
