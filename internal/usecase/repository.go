package usecase

import (
	"context"

	"github.com/DRSN-tech/product-catalog/internal/domain"
)

type ProductRepository interface {
	Insert(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	ObjectURL(key string) string
	Container() string
}

type CacheRepository interface {
	// GetProducts возвращает список текущего поколения или промах с номером поколения.
	GetProducts(ctx context.Context) (*CachedProducts, error)
	// SetProducts пишет список под поколение, прочитанное до запроса к БД.
	// Если поколение успело смениться, запись никто не прочитает.
	SetProducts(ctx context.Context, generation int64, products []domain.Product) error
	// InvalidateProducts начинает новое поколение после вставки.
	InvalidateProducts(ctx context.Context) error
}
