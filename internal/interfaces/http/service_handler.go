package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/usecase"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// ServiceHandler maneja las peticiones HTTP del catálogo de servicios.
type ServiceHandler struct {
	uc *usecase.ServiceUseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *usecase.ServiceUseCase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar servicio
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateServiceRequest  true  "Datos del servicio"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	service, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serviceToResponse(service))
}

// GetByID godoc
// @Summary      Obtener servicio por ID
// @Tags         services
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	service, err := h.uc.GetByID(c.Context(), pathParam(c, "id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(serviceToResponse(service))
}

// List godoc
// @Summary      Listar servicios
// @Tags         services
// @Produce      json
// @Param        active  query  bool  false  "Solo servicios activos"
// @Param        limit   query  int   false  "Límite"  default(20)
// @Param        offset  query  int   false  "Offset"  default(0)
// @Success      200     {array}  dto.ServiceResponse
// @Router       /api/services [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.Context(), c.QueryBool("active", false), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]*dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, serviceToResponse(s))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar servicio (incluye activar/desactivar)
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del servicio"
// @Param        body  body  dto.UpdateServiceRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ServiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/services/{id} [put]
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	service, err := h.uc.Update(c.Context(), pathParam(c, "id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(serviceToResponse(service))
}

// Delete godoc
// @Summary      Eliminar servicio (solo sin ventas; si tiene, desactivarlo)
// @Tags         services
// @Param        id  path  string  true  "ID del servicio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [delete]
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), pathParam(c, "id")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func serviceToResponse(s *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
