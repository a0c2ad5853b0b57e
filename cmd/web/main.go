package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/catalogo/internal/application/usecase"
	"github.com/jhoicas/catalogo/internal/application/validation"
	"github.com/jhoicas/catalogo/internal/infrastructure/media"
	"github.com/jhoicas/catalogo/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/catalogo/internal/interfaces/http"
	"github.com/jhoicas/catalogo/pkg/config"
	"github.com/jhoicas/catalogo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.DB, log.Named("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	// Host de imágenes: sin MEDIA_ENDPOINT las subidas fallan con un error visible en el formulario.
	var uploader usecase.ImageUploader = media.Disabled{}
	if cfg.Media.Enabled() {
		minioUploader, err := media.NewMinIOUploader(ctx, cfg.Media, log.Named("media"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión al host de imágenes")
		}
		uploader = minioUploader
	} else {
		log.Warn().Msg("MEDIA_ENDPOINT vacío: subida de imágenes deshabilitada")
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:      cfg.App.Name,
		BodyLimit: cfg.HTTP.BodyLimit(),
	}, httpRouter.RouterDeps{
		CatalogUC:  usecase.NewCatalogUseCase(repos.Products, repos.Categories),
		CategoryUC: usecase.NewCategoryUseCase(repos.Categories, repos.Products, repos.Tx),
		ProductUC:  usecase.NewProductUseCase(repos.Products, repos.Categories, uploader, cfg.Media.UploadTimeout),
		Validator:  validation.New(),
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
