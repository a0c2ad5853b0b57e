package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/application/validation"
	"github.com/jhoicas/catalogo/internal/domain"
	"github.com/jhoicas/catalogo/internal/domain/entity"
	"github.com/jhoicas/catalogo/internal/domain/repository"
)

// ImageField nombre del campo de archivo en el formulario de producto.
const ImageField = "productImg"

// ProductUseCase casos de uso CRUD para productos.
// La entrada llega ya saneada y validada; aquí se verifican las referencias a categorías
// y se sube la imagen antes de persistir.
type ProductUseCase struct {
	repo          repository.ProductRepository
	categories    repository.CategoryRepository
	uploader      ImageUploader
	uploadTimeout time.Duration
}

// NewProductUseCase construye el caso de uso. uploadTimeout <= 0 = sin límite propio.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository, uploader ImageUploader, uploadTimeout time.Duration) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories, uploader: uploader, uploadTimeout: uploadTimeout}
}

// List lista productos ordenados por nombre, filtrando opcionalmente por subcadena del nombre.
func (uc *ProductUseCase) List(ctx context.Context, search string) (*dto.ProductListResponse, error) {
	search = strings.TrimSpace(search)
	list, err := uc.repo.List(ctx, repository.ProductFilter{Search: search})
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{Items: toProductResponses(list), Search: search}, nil
}

// GetByID obtiene un producto con sus categorías. (nil, nil) si no existe o no tiene nombre.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil || product == nil {
		return nil, err
	}
	if product.Name == "" {
		return nil, nil
	}
	out := toProductResponse(product)
	return &out, nil
}

// CategoryOptions todas las categorías (por nombre) marcando las seleccionadas.
func (uc *ProductUseCase) CategoryOptions(ctx context.Context, selected []string) ([]dto.CategoryOption, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	in := dto.ProductInput{CategoryIDs: selected}
	out := make([]dto.CategoryOption, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryOption{ID: c.ID, Name: c.Name, Checked: in.Selected(c.ID)})
	}
	return out, nil
}

// Create crea un producto. img es opcional.
// Errores: validation.Errors (categoría inexistente, archivo no imagen), domain.ErrImageUpload o
// domain.ErrInvalidInput si una categoría desaparece antes de escribir.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductInput, img *dto.ImageFile) (*dto.ProductResponse, error) {
	price, quantity, err := uc.checkInput(ctx, in, img)
	if err != nil {
		return nil, err
	}

	imageURL := ""
	if img != nil {
		if imageURL, err = uc.upload(ctx, *img); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CategoryIDs: in.CategoryIDs,
		Price:       price,
		Quantity:    quantity,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	out := toProductResponse(product)
	return &out, nil
}

// Update reemplaza los campos editables. Sin imagen nueva se conserva la URL anterior.
// (nil, nil) si el producto no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductInput, img *dto.ImageFile) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil || product == nil {
		return nil, err
	}
	price, quantity, err := uc.checkInput(ctx, in, img)
	if err != nil {
		return nil, err
	}
	if img != nil {
		url, err := uc.upload(ctx, *img)
		if err != nil {
			return nil, err
		}
		product.ImageURL = url
	}

	product.Name = in.Name
	product.Description = in.Description
	product.CategoryIDs = in.CategoryIDs
	product.Categories = nil
	product.Price = price
	product.Quantity = quantity
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out := toProductResponse(product)
	return &out, nil
}

// Delete elimina un producto por ID. No falla si no existe.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// checkInput convierte precio y cantidad y verifica que las categorías existan y que el archivo sea una imagen.
func (uc *ProductUseCase) checkInput(ctx context.Context, in dto.ProductInput, img *dto.ImageFile) (decimal.Decimal, int, error) {
	var errs validation.Errors

	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		errs = append(errs, dto.FieldError{Field: "price", Message: "El precio debe ser un número mayor o igual a 0"})
	}
	quantity, err := strconv.Atoi(in.Quantity)
	if err != nil || quantity < 0 {
		errs = append(errs, dto.FieldError{Field: "quantity", Message: "La cantidad debe ser un entero mayor o igual a 0"})
	}

	if len(in.CategoryIDs) == 0 {
		errs = append(errs, dto.FieldError{Field: "category", Message: "Debe seleccionar al menos una categoría"})
	} else {
		found, err := uc.categories.GetByIDs(ctx, in.CategoryIDs)
		if err != nil {
			return decimal.Zero, 0, err
		}
		if len(found) != len(in.CategoryIDs) {
			errs = append(errs, dto.FieldError{Field: "category", Message: "Alguna de las categorías seleccionadas no existe"})
		}
	}

	if img != nil && !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
		errs = append(errs, dto.FieldError{Field: ImageField, Message: "El archivo debe ser una imagen"})
	}

	if len(errs) > 0 {
		return decimal.Zero, 0, errs
	}
	return price, quantity, nil
}

func (uc *ProductUseCase) upload(ctx context.Context, img dto.ImageFile) (string, error) {
	if uc.uploader == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrImageUpload, domain.ErrMediaDisabled)
	}
	if uc.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.uploadTimeout)
		defer cancel()
	}
	url, err := uc.uploader.Upload(ctx, img)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrImageUpload, err)
	}
	return url, nil
}
