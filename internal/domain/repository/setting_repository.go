package repository

import "github.com/jhoicas/Clinica-api/internal/domain/entity"

// SettingRepository define el puerto de persistencia para Setting.
type SettingRepository interface {
	Get(key string) (*entity.Setting, error)
	List() ([]*entity.Setting, error)
	Upsert(setting *entity.Setting) error
	// InsertIfAbsent inserta la clave solo si no existe (ON CONFLICT DO NOTHING).
	// Hace segura la inicialización concurrente de valores por defecto.
	InsertIfAbsent(setting *entity.Setting) error
}
