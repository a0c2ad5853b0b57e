package usecase

import (
	"context"

	"github.com/jhoicas/catalogo/internal/application/dto"
)

// ImageUploader puerto hacia el host de imágenes. Devuelve la URL pública del archivo.
type ImageUploader interface {
	Upload(ctx context.Context, img dto.ImageFile) (string, error)
}
