package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/application/usecase"
	"github.com/jhoicas/catalogo/internal/application/validation"
	"github.com/jhoicas/catalogo/pkg/logger"
)

var sampleCategories = []dto.CategoryInput{
	{Name: "Action", Description: "Action games emphasize physical challenges."},
	{Name: "Adventure", Description: "Adventure games focus on puzzle-solving within a narrative framework."},
	{Name: "RPG", Description: "Role-playing games involve character development and story progression."},
	{Name: "Fantasy", Description: "Fantasy games are set in fictional universes with magical elements."},
	{Name: "Shooter", Description: "Shooter games test the player’s aim and reaction time."},
	{Name: "Sports", Description: "Sports games simulate the practice of sports."},
	{Name: "Puzzle", Description: "Puzzle games challenge the player’s problem-solving skills."},
	{Name: "Indie", Description: "Indie games are created by independent developers."},
}

// sampleProduct producto de ejemplo; Categories son nombres de sampleCategories.
type sampleProduct struct {
	dto.ProductInput
	Categories []string
}

var sampleProducts = []sampleProduct{
	{ProductInput: dto.ProductInput{
		Name:        "The Legend of Zelda: Breath of the Wild",
		Description: "An open-world action-adventure game where players explore the kingdom of Hyrule.",
		Price:       "59.99", Quantity: "120",
	}, Categories: []string{"Action", "Adventure"}},
	{ProductInput: dto.ProductInput{
		Name:        "Final Fantasy VII Remake",
		Description: "A modern retelling of the classic RPG with enhanced graphics and gameplay.",
		Price:       "69.99", Quantity: "85",
	}, Categories: []string{"RPG", "Fantasy"}},
	{ProductInput: dto.ProductInput{
		Name:        "Call of Duty: Modern Warfare",
		Description: "A realistic first-person shooter game with intense multiplayer action.",
		Price:       "49.99", Quantity: "200",
	}, Categories: []string{"Shooter"}},
	{ProductInput: dto.ProductInput{
		Name:        "FIFA 22",
		Description: "The latest installment in the FIFA series with updated teams and improved gameplay mechanics.",
		Price:       "59.99", Quantity: "150",
	}, Categories: []string{"Sports"}},
	{ProductInput: dto.ProductInput{
		Name:        "Tetris Effect",
		Description: "A mesmerizing puzzle game that combines classic Tetris gameplay with stunning visuals and music.",
		Price:       "29.99", Quantity: "300",
	}, Categories: []string{"Puzzle"}},
	{ProductInput: dto.ProductInput{
		Name:        "Hades",
		Description: "An action-packed rogue-like game where you battle your way out of the Underworld.",
		Price:       "24.99", Quantity: "400",
	}, Categories: []string{"Indie"}},
}

// seeder carga los datos de ejemplo por los mismos casos de uso que los formularios.
type seeder struct {
	validator  *validation.Validator
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	log        *logger.Logger
}

// Run crea las categorías (reutilizando las existentes) y luego los productos.
func (s seeder) Run(ctx context.Context) error {
	ids := make(map[string]string, len(sampleCategories))
	for _, raw := range sampleCategories {
		in, errs := s.validator.Category(raw)
		if len(errs) > 0 {
			return fmt.Errorf("categoría %q: %w", raw.Name, errs)
		}
		out, created, err := s.categories.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("crear categoría %q: %w", in.Name, err)
		}
		ids[raw.Name] = out.ID
		s.log.Info().Str("name", out.Name).Bool("created", created).Msg("categoría")
	}

	for _, p := range sampleProducts {
		raw := p.ProductInput
		for _, name := range p.Categories {
			raw.CategoryIDs = append(raw.CategoryIDs, ids[name])
		}
		in, errs := s.validator.Product(raw)
		if len(errs) > 0 {
			return fmt.Errorf("producto %q: %w", raw.Name, errs)
		}
		out, err := s.products.Create(ctx, in, nil)
		if err != nil {
			return fmt.Errorf("crear producto %q: %w", in.Name, err)
		}
		s.log.Info().Str("name", out.Name).Msg("producto")
	}
	return nil
}
