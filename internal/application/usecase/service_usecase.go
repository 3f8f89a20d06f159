package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// ServiceUseCase CRUD de servicios clínicos. Un servicio ya vendido no se
// borra: se desactiva (is_active = false) para que las ventas históricas
// conserven su referencia.
type ServiceUseCase struct {
	serviceRepo     repository.ServiceRepository
	transactionRepo repository.TransactionRepository
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(serviceRepo repository.ServiceRepository, transactionRepo repository.TransactionRepository) *ServiceUseCase {
	return &ServiceUseCase{serviceRepo: serviceRepo, transactionRepo: transactionRepo}
}

// Create registra un servicio nuevo, activo por defecto.
func (uc *ServiceUseCase) Create(ctx context.Context, in dto.CreateServiceRequest) (*entity.Service, error) {
	if in.Name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	service := &entity.Service{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.serviceRepo.Create(service); err != nil {
		return nil, err
	}
	return service, nil
}

// GetByID obtiene un servicio; ErrNotFound si no existe.
func (uc *ServiceUseCase) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	service, err := uc.serviceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}
	return service, nil
}

// List paginado; activeOnly limita a servicios activos (lo que ve la UI de venta).
func (uc *ServiceUseCase) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Service, error) {
	return uc.serviceRepo.List(activeOnly, limit, offset)
}

// Update actualiza nombre, descripción, precio y estado activo.
func (uc *ServiceUseCase) Update(ctx context.Context, id string, in dto.UpdateServiceRequest) (*entity.Service, error) {
	service, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	service.Name = in.Name
	service.Description = in.Description
	service.Price = in.Price
	if in.IsActive != nil {
		service.IsActive = *in.IsActive
	}
	service.UpdatedAt = time.Now()
	if err := uc.serviceRepo.Update(service); err != nil {
		return nil, err
	}
	return service, nil
}

// Delete elimina un servicio nunca vendido. Si ya está referenciado por alguna
// transacción retorna ErrConflict; el camino correcto es desactivarlo.
func (uc *ServiceUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := uc.transactionRepo.CountByService(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return uc.serviceRepo.Delete(id)
}
