package media

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/application/usecase"
	"github.com/jhoicas/catalogo/pkg/config"
	"github.com/jhoicas/catalogo/pkg/logger"
)

var _ usecase.ImageUploader = (*MinIOUploader)(nil)

// objectPrefix carpeta de las imágenes de producto dentro del bucket.
const objectPrefix = "products/"

// MinIOUploader sube imágenes a un host S3 compatible (MinIO).
type MinIOUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *logger.Logger
}

// NewMinIOUploader conecta con el host y crea el bucket si no existe.
func NewMinIOUploader(ctx context.Context, cfg config.MediaConfig, log *logger.Logger) (*MinIOUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("crear cliente minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("verificar bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("crear bucket %s: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("bucket de imágenes creado")
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = client.EndpointURL().String() + "/" + cfg.Bucket
	}
	return &MinIOUploader{client: client, bucket: cfg.Bucket, publicURL: publicURL, log: log}, nil
}

// Upload guarda la imagen con una clave nueva y devuelve su URL pública.
func (u *MinIOUploader) Upload(ctx context.Context, img dto.ImageFile) (string, error) {
	key := ObjectKey(img.Filename, img.ContentType)
	size := img.Size
	if size <= 0 {
		size = -1
	}
	info, err := u.client.PutObject(ctx, u.bucket, key, img.Content, size, minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("subir %s: %w", key, err)
	}
	u.log.Debug().Str("key", key).Int64("size", info.Size).Msg("imagen subida")
	return PublicURL(u.publicURL, key), nil
}

// ObjectKey clave products/<uuid><ext>. La extensión sale del nombre original o, si no hay, del content type.
func ObjectKey(filename, contentType string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, `\`, "/")))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return objectPrefix + uuid.New().String() + ext
}

// PublicURL une la base pública con la clave del objeto.
func PublicURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
