package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implementación de ServiceRepository sobre PostgreSQL.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `id, name, description, price, is_active, created_at, updated_at`

// Create persiste un servicio nuevo.
func (r *ServiceRepo) Create(service *entity.Service) error {
	query := `
		INSERT INTO services (id, name, description, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		service.ID, service.Name, nullable(service.Description), service.Price,
		service.IsActive, service.CreatedAt, service.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// GetByID obtiene un servicio por ID; nil si no existe.
func (r *ServiceRepo) GetByID(id string) (*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	var s entity.Service
	var description *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &description, &s.Price, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	s.Description = fromNullable(description)
	return &s, nil
}

// List paginado por nombre; activeOnly limita a is_active = true.
func (r *ServiceRepo) List(activeOnly bool, limit, offset int) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name ASC LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var list []*entity.Service
	for rows.Next() {
		var s entity.Service
		var description *string
		if err := rows.Scan(&s.ID, &s.Name, &description, &s.Price, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		s.Description = fromNullable(description)
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update actualiza nombre, descripción, precio y estado activo.
func (r *ServiceRepo) Update(service *entity.Service) error {
	query := `
		UPDATE services
		SET name = $2, description = $3, price = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		service.ID, service.Name, nullable(service.Description), service.Price,
		service.IsActive, service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// Delete elimina el servicio. El caso de uso ya verificó referencias.
func (r *ServiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
