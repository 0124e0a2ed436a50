package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appbilling "github.com/jhoicas/caja-pos/internal/application/billing"
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
)

// BillingHandler maneja la generación de ventas (protegido).
type BillingHandler struct {
	uc *appbilling.GenerateBillUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(uc *appbilling.GenerateBillUseCase) *BillingHandler {
	return &BillingHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar venta
// @Description  Valoriza la factura, calcula el cambio contra la caja y
// @Description  persiste todo atómicamente. Un leftover > 0 en la respuesta
// @Description  significa que la caja no alcanzó a dar cambio exacto.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateBillRequest  true  "Venta a generar"
// @Success      201   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/billing/generate [post]
func (h *BillingHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Generate(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_email e items son requeridos"})
		case errors.Is(err, domain.ErrLedgerConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LEDGER_CONFLICT", Message: "la caja está siendo usada por otra venta, reintente"})
		case errors.Is(err, domain.ErrInsufficientDenomination):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_DENOMINATION", Message: "las denominaciones de la caja cambiaron durante la venta"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
