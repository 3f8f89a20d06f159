package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var _ repository.SettingRepository = (*SettingRepo)(nil)

// SettingRepo implementación de SettingRepository sobre PostgreSQL.
type SettingRepo struct {
	q Querier
}

// NewSettingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingRepository(q Querier) *SettingRepo {
	return &SettingRepo{q: q}
}

// Get obtiene un setting por clave; nil si no existe.
func (r *SettingRepo) Get(key string) (*entity.Setting, error) {
	query := `SELECT key, value, updated_at FROM settings WHERE key = $1`
	var s entity.Setting
	err := r.q.QueryRow(context.Background(), query, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &s, nil
}

// List devuelve todos los settings ordenados por clave.
func (r *SettingRepo) List() ([]*entity.Setting, error) {
	rows, err := r.q.Query(context.Background(), `SELECT key, value, updated_at FROM settings ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var list []*entity.Setting
	for rows.Next() {
		var s entity.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Upsert inserta o reemplaza el valor de la clave.
func (r *SettingRepo) Upsert(setting *entity.Setting) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query, setting.Key, setting.Value, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

// InsertIfAbsent inserta la clave solo si no existe. No pisa valores ya
// configurados por el usuario.
func (r *SettingRepo) InsertIfAbsent(setting *entity.Setting) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, setting.Key, setting.Value, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert setting: %w", err)
	}
	return nil
}
