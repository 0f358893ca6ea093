package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/frontdesk-api/internal/application/analytics"
	"github.com/jhoicas/frontdesk-api/internal/application/dto"
)

// AnalyticsHandler maneja los reportes de cuentas por cobrar.
type AnalyticsHandler struct {
	uc *analytics.ReceivablesUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.ReceivablesUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetReceivables godoc
// @Summary      Reservas con facturación o cobro pendiente
// @Description  Reservas cuyo aviso de salida no está vacío, ordenadas por la última fecha de salida.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado de la reserva (ej. checked-out)"
// @Param        limit   query  int     false  "Máx. filas (default 50, max 200)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ReceivablesReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/receivables [get]
func (h *AnalyticsHandler) GetReceivables(c *fiber.Ctx) error {
	var req dto.ReceivablesRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}
	report, err := h.uc.List(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
