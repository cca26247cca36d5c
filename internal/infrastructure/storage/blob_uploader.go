package storage

import (
	"context"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/internal/infrastructure"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/google/uuid"
)

// BlobUploader загружает изображения товаров в blob-хранилище под уникальным ключом.
type BlobUploader struct {
	imageRepo usecase.ImageRepository
	logger    logger.Logger
	newToken  func() string
}

func NewBlobUploader(imageRepo usecase.ImageRepository, logger logger.Logger) *BlobUploader {
	return &BlobUploader{
		imageRepo: imageRepo,
		logger:    logger,
		newToken:  uuid.NewString,
	}
}

// UploadImage загружает байты под ключом "<uuid>_<имя файла>" и возвращает
// публичный URL объекта. Повторных попыток нет.
func (b *BlobUploader) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	const op = "BlobUploader.UploadImage"

	contentType, err := infrastructure.ContentTypeFromName(req.FileName)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	imageID := b.newToken()
	objKey := ObjectKey(imageID, req.FileName)
	image := domain.NewImage(imageID, b.imageRepo.Container(), objKey, req.Data, contentType)

	key, err := b.imageRepo.Upload(ctx, image)
	if err != nil {
		b.logger.Errorf(err, "%s: upload of %s failed", op, objKey)
		return nil, e.Wrap(op, err)
	}

	return usecase.NewUploadImageRes(key, b.imageRepo.ObjectURL(key)), nil
}

// ObjectKey собирает ключ объекта из случайного токена и имени файла без пути.
func ObjectKey(token string, fileName string) string {
	return token + "_" + infrastructure.BaseName(fileName)
}
