package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo/internal/application/usecase"
	"github.com/jhoicas/catalogo/internal/application/validation"
	"github.com/jhoicas/catalogo/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC  *usecase.CatalogUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	Validator  *validation.Validator
	Log        *logger.Logger
}

// Router registra las rutas del catálogo.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}

	indexHandler := NewIndexHandler(deps.CatalogUC)
	app.Get("/", indexHandler.Index)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, v, log.Named("products"))
	app.Get("/products", productHandler.List)
	app.Get("/product/create", productHandler.CreateForm)
	app.Post("/product/create", BindProductForm(v), productHandler.Create)
	app.Get("/product/:id", productHandler.Detail)
	app.Get("/product/:id/update", productHandler.UpdateForm)
	app.Post("/product/:id/update", BindProductForm(v), productHandler.Update)
	app.Get("/product/:id/delete", productHandler.DeleteForm)
	app.Post("/product/:id/delete", productHandler.Delete)

	// Categories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	app.Get("/categories", categoryHandler.List)
	app.Get("/category/create", categoryHandler.CreateForm)
	app.Post("/category/create", BindCategoryForm(v), categoryHandler.Create)
	app.Get("/category/:id", categoryHandler.Detail)
	app.Get("/category/:id/update", categoryHandler.UpdateForm)
	app.Post("/category/:id/update", BindCategoryForm(v), categoryHandler.Update)
	app.Get("/category/:id/delete", categoryHandler.DeleteForm)
	app.Post("/category/:id/delete", categoryHandler.Delete)
}
