package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo/internal/application/usecase"
)

// IndexHandler portada del catálogo.
type IndexHandler struct {
	uc *usecase.CatalogUseCase
}

// NewIndexHandler construye el handler.
func NewIndexHandler(uc *usecase.CatalogUseCase) *IndexHandler {
	return &IndexHandler{uc: uc}
}

// Index GET / con el número de productos y categorías.
func (h *IndexHandler) Index(c *fiber.Ctx) error {
	out, err := h.uc.Index(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("index", fiber.Map{"Title": "Catálogo", "Data": out})
}
