package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/usecase"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// SettingsHandler maneja las peticiones HTTP de configuración de la clínica.
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// List godoc
// @Summary      Listar configuración completa
// @Tags         settings
// @Produce      json
// @Success      200  {array}  dto.SettingResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	out := make([]*dto.SettingResponse, 0, len(list))
	for _, s := range list {
		out = append(out, settingToResponse(s))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener un valor de configuración
// @Tags         settings
// @Produce      json
// @Param        key  path  string  true  "Clave"
// @Success      200  {object}  dto.SettingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	setting, err := h.uc.Get(c.Context(), pathParam(c, "key"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(settingToResponse(setting))
}

// Update godoc
// @Summary      Fijar un valor de configuración (upsert)
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        key   path  string  true  "Clave"
// @Param        body  body  dto.UpdateSettingRequest  true  "Nuevo valor"
// @Success      200   {object}  dto.SettingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	setting, err := h.uc.Upsert(c.Context(), pathParam(c, "key"), in.Value)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(settingToResponse(setting))
}

func settingToResponse(s *entity.Setting) *dto.SettingResponse {
	return &dto.SettingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
}
