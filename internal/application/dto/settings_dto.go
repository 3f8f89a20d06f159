package dto

import "time"

// UpdateSettingRequest body para PUT /api/settings/:key.
type UpdateSettingRequest struct {
	Value string `json:"value"`
}

// SettingResponse par clave-valor de configuración.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
