package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain"
)

// pathParam devuelve una copia propia del parámetro de ruta. El valor de
// c.Params apunta al buffer reutilizable de fasthttp: el siguiente request lo
// sobreescribe, así que no puede cruzar el handler sin copiarse.
func pathParam(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}

// domainError traduce los errores de dominio al status y código HTTP del
// contrato de la API. Cualquier error no contemplado es un 500.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrPatientNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PATIENT_NOT_FOUND", Message: "paciente no encontrado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso tiene referencias y no puede eliminarse"})
	case errors.Is(err, domain.ErrServiceInactive):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "SERVICE_INACTIVE", Message: "el servicio está inactivo"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// pageParams lee limit/offset de la query con defaults y tope de 100.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
