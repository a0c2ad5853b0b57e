// seed carga en el catálogo las categorías y productos de ejemplo.
//
// Uso: go run ./cmd/seed [--reset]
// Toma la conexión de la misma configuración que el servidor (DB_DRIVER, DATABASE_URL, ...).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/catalogo/internal/application/usecase"
	"github.com/jhoicas/catalogo/internal/application/validation"
	"github.com/jhoicas/catalogo/internal/infrastructure/storage"
	"github.com/jhoicas/catalogo/pkg/config"
	"github.com/jhoicas/catalogo/pkg/logger"
)

var reset bool

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga categorías y productos de ejemplo",
	Long: `Crea las categorías y productos de ejemplo del catálogo.

Las categorías que ya existen (mismo nombre sin distinguir mayúsculas) se reutilizan.
Con --reset se vacían antes todas las tablas.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

		ctx := cmd.Context()
		repos, err := storage.Open(ctx, cfg.DB, log.Named("storage"))
		if err != nil {
			return err
		}
		defer repos.Close()

		if reset {
			if err := repos.Reset(ctx); err != nil {
				return err
			}
			log.Info().Msg("catálogo vaciado")
		}

		s := seeder{
			validator:  validation.New(),
			categories: usecase.NewCategoryUseCase(repos.Categories, repos.Products, repos.Tx),
			products:   usecase.NewProductUseCase(repos.Products, repos.Categories, nil, 0),
			log:        log.Named("seed"),
		}
		return s.Run(ctx)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&reset, "reset", false, "vaciar el catálogo antes de cargar")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
