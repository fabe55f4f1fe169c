package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
)

// HistoryHandler expone el histórico de movimientos en JSON y PDF.
type HistoryHandler struct {
	uc   *inventory.HistoryUseCase
	errs ErrorWriter
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *inventory.HistoryUseCase, errs ErrorWriter) *HistoryHandler {
	return &HistoryHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Histórico de movimientos
// @Description  Del más reciente al más antiguo, sin paginación.
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.HistoryResponse
// @Router       /api/history [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListHistory(c.UserContext())
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Histórico de movimientos en PDF
// @Tags         history
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/history/report.pdf [get]
func (h *HistoryHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.uc.Report(c.UserContext())
	if err != nil {
		return h.errs.write(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="historico.pdf"`)
	return c.Send(pdf)
}
