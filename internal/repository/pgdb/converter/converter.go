package converter

import (
	"fmt"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	FromRow(row Row) (*ProductModel, error)
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	var imageURL *string
	if entity.ImageURL != "" {
		url := entity.ImageURL
		imageURL = &url
	}

	return &ProductModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       DecimalToNumeric(entity.Price),
		ImageURL:    imageURL,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	var imageURL string
	if model.ImageURL != nil {
		imageURL = *model.ImageURL
	}

	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       NumericToDecimal(model.Price),
		ImageURL:    imageURL,
	}
}

// FromRow собирает модель из строки, полученной по именам колонок.
func (c *ProductConverterImpl) FromRow(row Row) (*ProductModel, error) {
	id, err := toInt64(row[ColumnID])
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", ColumnID, err)
	}

	name, err := toString(row[ColumnName])
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", ColumnName, err)
	}

	description, err := toString(row[ColumnDescription])
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", ColumnDescription, err)
	}

	price, err := toNumeric(row[ColumnPrice])
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", ColumnPrice, err)
	}

	var imageURL *string
	if v := row[ColumnImageURL]; v != nil {
		s, err := toString(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", ColumnImageURL, err)
		}
		imageURL = &s
	}

	return &ProductModel{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
	}, nil
}

func DecimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func NumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int32:
		return int64(val), nil
	case int:
		return int64(val), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func toString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unexpected type %T", v)
	}
}

func toNumeric(v any) (pgtype.Numeric, error) {
	switch val := v.(type) {
	case pgtype.Numeric:
		if val.NaN || val.InfinityModifier != pgtype.Finite {
			return pgtype.Numeric{}, fmt.Errorf("non-finite numeric")
		}
		return val, nil
	case decimal.Decimal:
		return DecimalToNumeric(val), nil
	case float64:
		return DecimalToNumeric(decimal.NewFromFloat(val)), nil
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return pgtype.Numeric{}, err
		}
		return DecimalToNumeric(d), nil
	default:
		return pgtype.Numeric{}, fmt.Errorf("unexpected type %T", v)
	}
}
