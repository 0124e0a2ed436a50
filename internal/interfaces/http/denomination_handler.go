package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/application/usecase"
	"github.com/jhoicas/caja-pos/internal/domain"
)

// DenominationHandler maneja consulta y recuento de la caja (protegido).
type DenominationHandler struct {
	uc *usecase.DenominationUseCase
}

// NewDenominationHandler construye el handler.
func NewDenominationHandler(uc *usecase.DenominationUseCase) *DenominationHandler {
	return &DenominationHandler{uc: uc}
}

// List godoc
// @Summary      Inventario de la caja
// @Tags         denominations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DenominationListResponse
// @Router       /api/denominations [get]
func (h *DenominationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Recount godoc
// @Summary      Recuento manual de la caja
// @Tags         denominations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecountRequest  true  "Conteos por valor"
// @Success      200   {object}  dto.DenominationListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/denominations [put]
func (h *DenominationHandler) Recount(c *fiber.Ctx) error {
	var in dto.RecountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Recount(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "conteos vacíos o negativos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
