package clients

import (
	config "github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/jimlawless/whereami"
)

// NewAzureBlobClient создаёт клиент Azure Blob Storage по строке подключения.
func NewAzureBlobClient(cfg *config.AzureBlobCfg) (*azblob.Client, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return client, nil
}
