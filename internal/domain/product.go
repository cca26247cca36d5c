package domain

import "github.com/shopspring/decimal"

// Product описывает товар из таблицы Produtos.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal // Два знака после запятой
	ImageURL    string
}

func NewProduct(name string, description string, price decimal.Decimal, imageURL string) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
	}
}
