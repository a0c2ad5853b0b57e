package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/catalogo/internal/domain"
	"github.com/jhoicas/catalogo/pkg/logger"
)

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name      string
	BodyLimit int // bytes; 0 = valor por defecto de Fiber
}

// NewApp crea la aplicación Fiber con vistas, middlewares y rutas registradas.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    cfg.BodyLimit,
		Views:        NewViews(),
		ViewsLayout:  "layout",
		ErrorHandler: ErrorHandler(log),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(log.Named("http")))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})

	Router(app, deps)
	return app
}

// ErrorHandler renderiza la vista de error con el código correspondiente.
// Los errores no previstos se registran y se muestran como 500.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Error interno del servidor"

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.Is(err, domain.ErrNotFound):
			code = fiber.StatusNotFound
			message = "Recurso no encontrado"
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
		}

		c.Status(code)
		if rerr := c.Render("error", fiber.Map{"Title": "Error", "Status": code, "Message": message}); rerr != nil {
			return c.Status(code).SendString(message)
		}
		return nil
	}
}
