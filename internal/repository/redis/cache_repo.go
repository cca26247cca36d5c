package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/internal/repository/redis/converter"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/clients"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	// generationKey — счётчик поколений списка, растёт при каждой вставке.
	generationKey = "products:gen"
	// productsKeyPrefix — префикс ключа списка, к нему добавляется поколение.
	productsKeyPrefix = "products:all:"
)

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProducts возвращает список текущего поколения. При промахе Hit=false,
// а Generation нужно передать в SetProducts.
func (c *CacheRepo) GetProducts(ctx context.Context) (*usecase.CachedProducts, error) {
	generation, err := c.generation(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	key := productsKey(generation)
	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return usecase.NewCachedProducts(nil, generation, false), nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Warnf("Redis unmarshal failed, dropping key %s: %v", key, err)
		c.drop(ctx, key)
		return usecase.NewCachedProducts(nil, generation, false), nil
	}

	products, err := c.conv.ToArrEntity(models)
	if err != nil {
		c.logger.Warnf("Cached product has invalid price, dropping key %s: %v", key, err)
		c.drop(ctx, key)
		return usecase.NewCachedProducts(nil, generation, false), nil
	}

	return usecase.NewCachedProducts(products, generation, true), nil
}

// SetProducts кэширует список целиком под указанным поколением с TTL из конфигурации.
func (c *CacheRepo) SetProducts(ctx context.Context, generation int64, products []domain.Product) error {
	data, err := json.Marshal(c.conv.ToArrRedisModel(products))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, productsKey(generation), data, c.cfg.ProductsTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// InvalidateProducts переключает кэш на новое поколение. Старые ключи истекают по TTL.
func (c *CacheRepo) InvalidateProducts(ctx context.Context) error {
	if err := c.client.Client.Incr(ctx, generationKey).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// generation возвращает текущее поколение, 0 если счётчика ещё нет.
func (c *CacheRepo) generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Client.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return 0, nil
		}
		return 0, err
	}

	return generation, nil
}

func (c *CacheRepo) drop(ctx context.Context, key string) {
	if err := c.client.Client.Del(ctx, key).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

func productsKey(generation int64) string {
	return productsKeyPrefix + strconv.FormatInt(generation, 10)
}
