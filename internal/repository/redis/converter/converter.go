package converter

import (
	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) (*domain.Product, error)
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
	ToArrEntity(models []ProductRedisModel) ([]domain.Product, error)
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}

	return &ProductRedisModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price.String(),
		ImageURL:    entity.ImageURL,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductRedisModel) (*domain.Product, error) {
	if model == nil {
		return nil, nil
	}

	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       price,
		ImageURL:    model.ImageURL,
	}, nil
}

func (c *ProductConverterImpl) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	models := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		models = append(models, *c.ToRedisModel(&entities[i]))
	}

	return models
}

func (c *ProductConverterImpl) ToArrEntity(models []ProductRedisModel) ([]domain.Product, error) {
	entities := make([]domain.Product, 0, len(models))
	for i := range models {
		entity, err := c.ToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	return entities, nil
}
