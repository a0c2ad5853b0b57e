package media

import (
	"context"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/application/usecase"
	"github.com/jhoicas/catalogo/internal/domain"
)

var _ usecase.ImageUploader = Disabled{}

// Disabled uploader usado cuando MEDIA_ENDPOINT está vacío.
type Disabled struct{}

func (Disabled) Upload(context.Context, dto.ImageFile) (string, error) {
	return "", domain.ErrMediaDisabled
}
