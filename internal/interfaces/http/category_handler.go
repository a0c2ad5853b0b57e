package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/application/usecase"
	"github.com/jhoicas/catalogo/internal/application/validation"
	"github.com/jhoicas/catalogo/internal/domain"
)

const categoryListURL = "/categories"

// CategoryHandler maneja las páginas de categorías.
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// List GET /categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("category_list", fiber.Map{"Title": "Categorías", "Categories": out})
}

// Detail GET /category/:id con los productos de la categoría.
func (h *CategoryHandler) Detail(c *fiber.Ctx) error {
	out, err := h.uc.Detail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if out == nil {
		return fiber.NewError(fiber.StatusNotFound, "Categoría no encontrada")
	}
	return c.Render("category_detail", fiber.Map{"Title": out.Category.Name, "Data": out})
}

// CreateForm GET /category/create
func (h *CategoryHandler) CreateForm(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, "Crear categoría", "/category/create", dto.CategoryInput{}, nil)
}

// Create POST /category/create. Si ya existe una con el mismo nombre redirige a ella.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	in := GetCategoryInput(c)
	if errs := GetFieldErrors(c); len(errs) > 0 {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, "Crear categoría", "/category/create", in, errs)
	}
	out, _, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Redirect(out.URL, fiber.StatusSeeOther)
}

// UpdateForm GET /category/:id/update
func (h *CategoryHandler) UpdateForm(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if out == nil {
		return fiber.NewError(fiber.StatusNotFound, "Categoría no encontrada")
	}
	in := dto.CategoryInput{Name: out.Name, Description: out.Description}
	return h.renderForm(c, fiber.StatusOK, "Actualizar categoría", c.Path(), in, nil)
}

// Update POST /category/:id/update
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	in := GetCategoryInput(c)
	if errs := GetFieldErrors(c); len(errs) > 0 {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, "Actualizar categoría", c.Path(), in, errs)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if errors.Is(err, domain.ErrDuplicate) {
		errs := validation.Errors{{Field: "name", Message: "Ya existe otra categoría con ese nombre"}}
		return h.renderForm(c, fiber.StatusUnprocessableEntity, "Actualizar categoría", c.Path(), in, errs)
	}
	if err != nil {
		return err
	}
	if out == nil {
		return fiber.NewError(fiber.StatusNotFound, "Categoría no encontrada")
	}
	return c.Redirect(out.URL, fiber.StatusSeeOther)
}

// DeleteForm GET /category/:id/delete. Lista los productos que impiden borrarla.
func (h *CategoryHandler) DeleteForm(c *fiber.Ctx) error {
	out, err := h.uc.DeleteInfo(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if out == nil {
		return c.Redirect(categoryListURL, fiber.StatusSeeOther)
	}
	return c.Render("category_delete", fiber.Map{"Title": "Eliminar categoría", "Data": out})
}

// Delete POST /category/:id/delete
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	err := h.uc.Delete(c.UserContext(), c.Params("id"))
	var inUse *usecase.CategoryInUseError
	switch {
	case err == nil, errors.Is(err, domain.ErrNotFound):
		return c.Redirect(categoryListURL, fiber.StatusSeeOther)
	case errors.As(err, &inUse):
		c.Status(fiber.StatusConflict)
		return c.Render("category_delete", fiber.Map{
			"Title": "Eliminar categoría",
			"Data":  dto.CategoryDetailResponse{Category: inUse.Category, Products: inUse.Products},
		})
	}
	return err
}

func (h *CategoryHandler) renderForm(c *fiber.Ctx, status int, title, action string, in dto.CategoryInput, errs validation.Errors) error {
	c.Status(status)
	return c.Render("category_form", fiber.Map{
		"Title":  title,
		"Action": action,
		"Input":  in,
		"Errors": errorMap(errs),
	})
}

// errorMap campo -> mensaje para las plantillas.
func errorMap(errs validation.Errors) map[string]string {
	m := make(map[string]string, len(errs))
	for _, fe := range errs {
		m[fe.Field] = fe.Message
	}
	return m
}
