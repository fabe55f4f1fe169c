package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
)

// InventoryHandler maneja el libro de movimientos y la vista de stock.
type InventoryHandler struct {
	ledger        *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
	errs          ErrorWriter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, replenishment *inventory.ReplenishmentUseCase, errs ErrorWriter) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, replenishment: replenishment, errs: errs}
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida de stock
// @Description  El usuario y la fecha los fija el servidor. Una salida mayor que el stock se rechaza sin cambios.
// @Tags         inventory
// @Security     Bearer
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type (entrada|saida), quantity"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, msgInvalidBody)
	}
	res, err := h.ledger.ApplyMovement(c.UserContext(), inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return h.errs.write(c, err)
	}

	out := dto.RegisterMovementResponse{
		Movement: dto.MovementResponse{
			ID:        res.Movement.ID,
			Type:      string(res.Movement.Type),
			Quantity:  res.Movement.Quantity,
			Timestamp: res.Movement.Timestamp,
			ProductID: res.Movement.ProductID,
			UserID:    res.Movement.UserID,
		},
		NewQuantity: res.NewQuantity,
		Warning:     res.Warning,
		Notices:     []dto.Notice{{Level: dto.NoticeSuccess, Message: "movimiento registrado con éxito"}},
	}
	if res.Warning != nil {
		out.Notices = append(out.Notices, dto.Notice{Level: dto.NoticeWarning, Message: res.Warning.Message()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListStock godoc
// @Summary      Niveles de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	out, err := h.ledger.ListStock(c.UserContext())
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos bajo el mínimo ordenados por déficit, con la entrada sugerida.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestion
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
