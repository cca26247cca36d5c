package usecase

import (
	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// SubmitProductReq — запрос на сохранение товара из формы.
type SubmitProductReq struct {
	Name        string
	Description string
	Price       *decimal.Decimal // nil, если цена не передана
	Image       *ProductImage    // nil, если файл не выбран
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data []byte // байты изображения
	Name string // оригинальное имя файла
}

// SubmitProductRes — результат успешного сохранения товара.
type SubmitProductRes struct {
	Product  *domain.Product
	ImageKey string
}

// ListProductsRes — список сохранённых товаров.
type ListProductsRes struct {
	Products  []domain.Product
	FromCache bool
}

// CachedProducts — результат чтения кэша списка.
type CachedProducts struct {
	Products   []domain.Product
	Generation int64
	Hit        bool
}

// INFRASTRUCTURE

// UploadImageReq — запрос на загрузку изображения товара в blob-хранилище.
type UploadImageReq struct {
	FileName string
	Data     []byte
}

// UploadImageRes — ключ объекта и публичный URL загруженного изображения.
type UploadImageRes struct {
	Key string
	URL string
}

// WriteMessageReq — событие о созданном товаре.
type WriteMessageReq struct {
	Product *domain.Product
}

// MAPPERS

func NewSubmitProductReq(name string, description string, price *decimal.Decimal, image *ProductImage) *SubmitProductReq {
	return &SubmitProductReq{
		Name:        name,
		Description: description,
		Price:       price,
		Image:       image,
	}
}

func NewProductImage(data []byte, name string) *ProductImage {
	return &ProductImage{
		Data: data,
		Name: name,
	}
}

func NewSubmitProductRes(product *domain.Product, imageKey string) *SubmitProductRes {
	return &SubmitProductRes{
		Product:  product,
		ImageKey: imageKey,
	}
}

func NewListProductsRes(products []domain.Product, fromCache bool) *ListProductsRes {
	if products == nil {
		products = []domain.Product{}
	}

	return &ListProductsRes{
		Products:  products,
		FromCache: fromCache,
	}
}

func NewCachedProducts(products []domain.Product, generation int64, hit bool) *CachedProducts {
	return &CachedProducts{
		Products:   products,
		Generation: generation,
		Hit:        hit,
	}
}

func NewUploadImageReq(fileName string, data []byte) *UploadImageReq {
	return &UploadImageReq{
		FileName: fileName,
		Data:     data,
	}
}

func NewUploadImageRes(key string, url string) *UploadImageRes {
	return &UploadImageRes{
		Key: key,
		URL: url,
	}
}

func NewWriteMessageReq(product *domain.Product) *WriteMessageReq {
	return &WriteMessageReq{Product: product}
}
