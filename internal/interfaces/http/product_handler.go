package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/application/usecase"
	"github.com/jhoicas/catalogo/internal/application/validation"
	"github.com/jhoicas/catalogo/internal/domain"
	"github.com/jhoicas/catalogo/pkg/logger"
)

const productListURL = "/products"

// ProductHandler maneja las páginas de productos.
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	v   *validation.Validator
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, v *validation.Validator, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, v: v, log: log}
}

// List GET /products?search=
// El término se sanea igual que los nombres guardados para que "'" o "&" coincidan.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), h.v.Sanitize(c.Query("search")))
	if err != nil {
		return err
	}
	return c.Render("product_list", fiber.Map{"Title": "Productos", "Data": out})
}

// Detail GET /product/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if out == nil {
		return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
	}
	return c.Render("product_detail", fiber.Map{"Title": out.Name, "Product": out})
}

// CreateForm GET /product/create
func (h *ProductHandler) CreateForm(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, "Crear producto", "/product/create", dto.ProductInput{}, "", nil)
}

// Create POST /product/create (multipart, imagen opcional en productImg).
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	const title, action = "Crear producto", "/product/create"
	in := GetProductInput(c)
	if errs := GetFieldErrors(c); len(errs) > 0 {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, title, action, in, "", errs)
	}

	img, closeImg, err := imageFromRequest(c)
	if err != nil {
		return err
	}
	defer closeImg()

	out, err := h.uc.Create(c.UserContext(), in, img)
	if err != nil {
		if errs, ok := h.formErrors(c, err); ok {
			return h.renderForm(c, fiber.StatusUnprocessableEntity, title, action, in, "", errs)
		}
		return err
	}
	return c.Redirect(out.URL, fiber.StatusSeeOther)
}

// UpdateForm GET /product/:id/update con las categorías actuales marcadas.
func (h *ProductHandler) UpdateForm(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if out == nil {
		return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
	}
	in := dto.ProductInput{
		Name:        out.Name,
		Description: out.Description,
		Price:       out.Price.String(),
		Quantity:    strconv.Itoa(out.Quantity),
	}
	for _, cat := range out.Categories {
		in.CategoryIDs = append(in.CategoryIDs, cat.ID)
	}
	return h.renderForm(c, fiber.StatusOK, "Actualizar producto", c.Path(), in, out.ImageURL, nil)
}

// Update POST /product/:id/update. Sin archivo nuevo se conserva la imagen.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	const title = "Actualizar producto"
	in := GetProductInput(c)
	if errs := GetFieldErrors(c); len(errs) > 0 {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, title, c.Path(), in, "", errs)
	}

	img, closeImg, err := imageFromRequest(c)
	if err != nil {
		return err
	}
	defer closeImg()

	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in, img)
	if err != nil {
		if errs, ok := h.formErrors(c, err); ok {
			return h.renderForm(c, fiber.StatusUnprocessableEntity, title, c.Path(), in, "", errs)
		}
		return err
	}
	if out == nil {
		return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
	}
	return c.Redirect(out.URL, fiber.StatusSeeOther)
}

// DeleteForm GET /product/:id/delete
func (h *ProductHandler) DeleteForm(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if out == nil {
		return c.Redirect(productListURL, fiber.StatusSeeOther)
	}
	return c.Render("product_delete", fiber.Map{"Title": "Eliminar producto", "Product": out})
}

// Delete POST /product/:id/delete
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.Redirect(productListURL, fiber.StatusSeeOther)
}

// formErrors traduce los errores del caso de uso que se muestran en el formulario.
func (h *ProductHandler) formErrors(c *fiber.Ctx, err error) (validation.Errors, bool) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	if errors.Is(err, domain.ErrImageUpload) {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("subida de imagen fallida")
		return validation.Errors{{Field: usecase.ImageField, Message: "No se pudo subir la imagen, intente de nuevo"}}, true
	}
	// Categoría borrada entre la comprobación y la escritura.
	if errors.Is(err, domain.ErrInvalidInput) {
		return validation.Errors{{Field: "category", Message: "Alguna de las categorías seleccionadas no existe"}}, true
	}
	return nil, false
}

func (h *ProductHandler) renderForm(c *fiber.Ctx, status int, title, action string, in dto.ProductInput, imageURL string, errs validation.Errors) error {
	options, err := h.uc.CategoryOptions(c.UserContext(), in.CategoryIDs)
	if err != nil {
		return err
	}
	c.Status(status)
	return c.Render("product_form", fiber.Map{
		"Title":      title,
		"Action":     action,
		"Input":      in,
		"ImageURL":   imageURL,
		"Categories": options,
		"Errors":     errorMap(errs),
		"ImageField": usecase.ImageField,
	})
}

// imageFromRequest abre el archivo productImg si viene en el formulario. Sin archivo = (nil, noop, nil).
func imageFromRequest(c *fiber.Ctx) (*dto.ImageFile, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(usecase.ImageField)
	if err != nil || fh == nil || fh.Filename == "" || fh.Size == 0 {
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fiber.NewError(fiber.StatusBadRequest, "no se pudo leer la imagen")
	}
	img := &dto.ImageFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Content:     f,
	}
	return img, func() { _ = f.Close() }, nil
}
