package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// SettingsUseCase configuración clave-valor de la clínica.
type SettingsUseCase struct {
	settingRepo repository.SettingRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(settingRepo repository.SettingRepository) *SettingsUseCase {
	return &SettingsUseCase{settingRepo: settingRepo}
}

// InitDefaults inserta cada clave por defecto solo si no existe. Es idempotente
// por clave, por lo que varios arranques concurrentes no duplican ni pisan
// valores ya editados por el usuario.
func (uc *SettingsUseCase) InitDefaults(ctx context.Context) error {
	defaults := entity.DefaultSettings()
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	now := time.Now()
	for _, key := range keys {
		setting := &entity.Setting{Key: key, Value: defaults[key], UpdatedAt: now}
		if err := uc.settingRepo.InsertIfAbsent(setting); err != nil {
			return err
		}
	}
	return nil
}

// Get obtiene el valor de una clave; ErrNotFound si no existe.
func (uc *SettingsUseCase) Get(ctx context.Context, key string) (*entity.Setting, error) {
	setting, err := uc.settingRepo.Get(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, domain.ErrNotFound
	}
	return setting, nil
}

// List devuelve toda la configuración.
func (uc *SettingsUseCase) List(ctx context.Context) ([]*entity.Setting, error) {
	return uc.settingRepo.List()
}

// Upsert fija el valor de una clave, creándola si no existe.
func (uc *SettingsUseCase) Upsert(ctx context.Context, key, value string) (*entity.Setting, error) {
	if key == "" {
		return nil, domain.ErrInvalidInput
	}
	setting := &entity.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := uc.settingRepo.Upsert(setting); err != nil {
		return nil, err
	}
	return setting, nil
}
