package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/application/validation"
	"github.com/jhoicas/catalogo/pkg/logger"
)

// Locals keys del formulario ya saneado y sus errores.
const (
	LocalFormInput   = "form_input"
	LocalFieldErrors = "field_errors"
)

// RequestLogger registra cada petición con zerolog. El error de la cadena se resuelve aquí
// con el ErrorHandler de la app para conocer el estado final.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("request")
		return nil
	}
}

// BindCategoryForm lee el formulario de categoría, lo sanea y valida.
// Deja la entrada y los errores en c.Locals; el handler decide si vuelve a mostrar el formulario.
func BindCategoryForm(v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.CategoryInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
		}
		in, errs := v.Category(in)
		c.Locals(LocalFormInput, in)
		c.Locals(LocalFieldErrors, errs)
		return c.Next()
	}
}

// BindProductForm igual que BindCategoryForm para productos (multipart).
// category ausente = lista vacía; un valor = lista de uno; repetido = todos los valores.
func BindProductForm(v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.ProductInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
		}
		in.CategoryIDs = formValues(c, "category")
		in, errs := v.Product(in)
		c.Locals(LocalFormInput, in)
		c.Locals(LocalFieldErrors, errs)
		return c.Next()
	}
}

// formValues todos los valores de un campo, sea multipart o urlencoded.
func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		return append([]string{}, form.Value[key]...)
	}
	var out []string
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		out = append(out, string(v))
	}
	return out
}

// GetCategoryInput devuelve la entrada saneada (después de BindCategoryForm).
func GetCategoryInput(c *fiber.Ctx) dto.CategoryInput {
	in, _ := c.Locals(LocalFormInput).(dto.CategoryInput)
	return in
}

// GetProductInput devuelve la entrada saneada (después de BindProductForm).
func GetProductInput(c *fiber.Ctx) dto.ProductInput {
	in, _ := c.Locals(LocalFormInput).(dto.ProductInput)
	return in
}

// GetFieldErrors devuelve los errores de validación del formulario; vacío si es válido.
func GetFieldErrors(c *fiber.Ctx) validation.Errors {
	errs, _ := c.Locals(LocalFieldErrors).(validation.Errors)
	return errs
}
