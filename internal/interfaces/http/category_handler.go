package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/catalog"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

// CategoryHandler maneja las peticiones HTTP de categorías.
type CategoryHandler struct {
	uc      *catalog.CategoryUseCase
	cascade *catalog.CascadeCoordinator
	reorder *catalog.ReorderUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *catalog.CategoryUseCase, cascade *catalog.CascadeCoordinator, reorder *catalog.ReorderUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc, cascade: cascade, reorder: reorder}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	cat, err := h.uc.Create(c.UserContext(), catalog.CreateCategoryInput{
		Name:     in.Name,
		ImageRef: in.ImageRef,
		Comment:  in.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromCategory(cat, nil))
}

// List godoc
// @Summary      Listar categorías con sus productos ordenados
// @Tags         categories
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.CategoryResponse, 0, len(list))
	for _, item := range list {
		out = append(out, dto.FromCategory(item.Category, item.Products))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "id")
	if !ok {
		return err
	}
	item, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCategory(item.Category, item.Products))
}

// Update godoc
// @Summary      Actualizar categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateCategoryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	cat, err := h.uc.Update(c.UserContext(), id, catalog.UpdateCategoryInput{
		Name:     in.Name,
		ImageRef: in.ImageRef,
		Comment:  in.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCategory(cat, nil))
}

// Delete godoc
// @Summary      Eliminar categoría en cascada (productos, movimientos y assets)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  catalog.CategoryDeletion
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := requireParam(c, "id")
	if !ok {
		return err
	}
	out, err := h.cascade.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reorder godoc
// @Summary      Reordenar categorías
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReorderRequest  true  "ids en el orden deseado"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories/reorder [put]
func (h *CategoryHandler) Reorder(c *fiber.Ctx) error {
	var in dto.ReorderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if err := h.reorder.ReorderCategories(c.UserContext(), in.IDs); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "orden actualizado"})
}
