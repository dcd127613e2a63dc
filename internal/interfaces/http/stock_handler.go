package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
)

// StockHandler maneja los movimientos del ledger de stock.
type StockHandler struct {
	engine *stock.Engine
	report stock.ReportGenerator
}

// NewStockHandler construye el handler. report puede ser nil si no se expone el PDF.
func NewStockHandler(engine *stock.Engine, report stock.ReportGenerator) *StockHandler {
	return &StockHandler{engine: engine, report: report}
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func movementResponse(res *stock.MovementResult) dto.MovementResponse {
	return dto.MovementResponse{
		State:   string(res.State),
		Entry:   dto.FromStockEntry(res.Entry),
		Product: dto.FromProduct(res.Product),
	}
}

// List godoc
// @Summary      Movimientos de un producto (más recientes primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {array}   dto.StockEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	list, err := h.engine.ListMovements(c.UserContext(), c.Query("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromStockEntries(list))
}

// Create godoc
// @Summary      Registrar movimiento (Stock In / Stock Out)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockEntryRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockEntryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.engine.CreateMovement(c.UserContext(), stock.CreateMovementInput{
		UserID:      GetUserID(c),
		ProductID:   in.ProductID,
		StockType:   in.StockType,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Date:        dateOrZero(in.Date),
		Description: in.Description,
		Attachments: in.Attachments,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(res))
}

// Amend godoc
// @Summary      Corregir movimiento (el tipo no cambia)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        stockId  path  string  true  "ID del movimiento"
// @Param        body     body  dto.AmendStockEntryRequest  true  "Campos corregidos"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{stockId} [put]
func (h *StockHandler) Amend(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "stockId")
	if !ok {
		return err
	}
	var in dto.AmendStockEntryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.engine.AmendMovement(c.UserContext(), stock.AmendMovementInput{
		UserID:      GetUserID(c),
		EntryID:     id,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Date:        dateOrZero(in.Date),
		Description: in.Description,
		Attachments: in.Attachments,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(movementResponse(res))
}

// Delete godoc
// @Summary      Eliminar movimiento y revertir su efecto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        stockId  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.DeleteMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/{stockId} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "stockId")
	if !ok {
		return err
	}
	res, err := h.engine.DeleteMovement(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteMovementResponse{
		State:         string(res.State),
		EntryID:       res.EntryID,
		Delta:         res.Delta,
		Product:       dto.FromProduct(res.Product),
		AssetFailures: res.AssetFailures,
	})
}

// Report godoc
// @Summary      PDF con los movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/report [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	if h.report == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_AVAILABLE", Message: "reporte PDF no configurado"})
	}
	productID := c.Query("product_id")
	pdf, err := h.engine.LedgerReport(c.UserContext(), h.report, productID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="movimientos-%s.pdf"`, productID))
	return c.Send(pdf)
}
