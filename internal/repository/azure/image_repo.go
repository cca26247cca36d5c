package azure

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/jimlawless/whereami"
)

// ImageRepo реализует репозиторий изображений поверх Azure Blob Storage.
type ImageRepo struct {
	container *container.Client
	cfg       *cfg.AzureBlobCfg
}

func NewImageRepo(client *azblob.Client, cfg *cfg.AzureBlobCfg) *ImageRepo {
	return &ImageRepo{
		container: client.ServiceClient().NewContainerClient(cfg.ContainerName),
		cfg:       cfg,
	}
}

// Upload загружает изображение как block blob и возвращает имя объекта.
// Существующий объект с тем же именем перезаписывается.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	blobClient := i.container.NewBlockBlobClient(image.ObjectKey)

	_, err := blobClient.UploadBuffer(ctx, image.Bytes, &blockblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &image.ContentType,
		},
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return image.ObjectKey, nil
}

// ObjectURL возвращает публичный адрес объекта: https://<account>.<domain>/<container>/<key>.
func (i *ImageRepo) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s/%s", i.cfg.AccountName, i.cfg.StorageDomain, i.cfg.ContainerName, url.PathEscape(key))
}

func (i *ImageRepo) Container() string {
	return i.cfg.ContainerName
}
