package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/catalog"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
)

// ProductHandler maneja las peticiones HTTP de productos.
type ProductHandler struct {
	uc      *catalog.ProductUseCase
	cascade *catalog.CascadeCoordinator
	reorder *catalog.ReorderUseCase
	engine  *stock.Engine
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, cascade *catalog.CascadeCoordinator, reorder *catalog.ReorderUseCase, engine *stock.Engine) *ProductHandler {
	return &ProductHandler{uc: uc, cascade: cascade, reorder: reorder, engine: engine}
}

// Create godoc
// @Summary      Crear producto (cantidad inicial 0, al final de su categoría)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p, err := h.uc.Create(c.UserContext(), catalog.CreateProductInput{
		Model:      in.Model,
		ImageRef:   in.ImageRef,
		Type:       in.Type,
		Deflection: in.Deflection,
		Supplier:   in.Supplier,
		UnitCost:   in.UnitCost,
		Comment:    in.Comment,
		CategoryID: in.CategoryID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromProduct(p))
}

// List godoc
// @Summary      Listar productos (opcionalmente de una categoría)
// @Tags         products
// @Produce      json
// @Param        category_id  query  string  false  "ID de la categoría"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), c.Query("category_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromProducts(list))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "id")
	if !ok {
		return err
	}
	p, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromProduct(p))
}

// Update godoc
// @Summary      Actualizar producto (la cantidad no se edita por esta vía)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateProductRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p, err := h.uc.Update(c.UserContext(), id, catalog.UpdateProductInput{
		Model:      in.Model,
		ImageRef:   in.ImageRef,
		Type:       in.Type,
		Deflection: in.Deflection,
		Supplier:   in.Supplier,
		UnitCost:   in.UnitCost,
		Comment:    in.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromProduct(p))
}

// Delete godoc
// @Summary      Eliminar producto en cascada (movimientos y assets)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  catalog.ProductDeletion
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "id")
	if !ok {
		return err
	}
	out, err := h.cascade.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reorder godoc
// @Summary      Reordenar productos de una categoría
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReorderRequest  true  "ids en el orden deseado"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/reorder [put]
func (h *ProductHandler) Reorder(c *fiber.Ctx) error {
	var in dto.ReorderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if err := h.reorder.ReorderProducts(c.UserContext(), in.IDs); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "orden actualizado"})
}

// ResetAll godoc
// @Summary      Poner en 0 la cantidad de todos los productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/products/reset-quantities [post]
func (h *ProductHandler) ResetAll(c *fiber.Ctx) error {
	n, err := h.engine.ResetAllQuantities(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountResponse{Message: "cantidades reiniciadas", Count: n})
}

// ResetOne godoc
// @Summary      Poner en 0 la cantidad de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reset-quantity [post]
func (h *ProductHandler) ResetOne(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "id")
	if !ok {
		return err
	}
	if err := h.engine.ResetQuantity(c.UserContext(), GetUserID(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "cantidad reiniciada"})
}

// Reconcile godoc
// @Summary      Recalcular la cantidad desde el ledger
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  stock.ReconcileResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reconcile [post]
func (h *ProductHandler) Reconcile(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "id")
	if !ok {
		return err
	}
	out, err := h.engine.Reconcile(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
