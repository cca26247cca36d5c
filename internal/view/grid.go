package view

import (
	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultColumns — число карточек в строке сетки.
const DefaultColumns = 3

// Card — данные одной карточки товара.
type Card struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
}

// Grid разбивает товары на строки по columns карточек в порядке поступления.
// Последняя строка может быть неполной, пустых ячеек нет.
func Grid(products []domain.Product, columns int) [][]Card {
	if columns <= 0 {
		columns = DefaultColumns
	}

	rows := make([][]Card, 0, (len(products)+columns-1)/columns)
	for start := 0; start < len(products); start += columns {
		end := min(start+columns, len(products))

		row := make([]Card, 0, end-start)
		for _, p := range products[start:end] {
			row = append(row, NewCard(p))
		}
		rows = append(rows, row)
	}

	return rows
}

func NewCard(p domain.Product) Card {
	return Card{
		Name:        p.Name,
		Description: p.Description,
		Price:       FormatPrice(p.Price),
		ImageURL:    p.ImageURL,
	}
}

// FormatPrice округляет до двух знаков (половина от нуля) и добавляет префикс R$.
func FormatPrice(d decimal.Decimal) string {
	return "R$" + d.StringFixed(2)
}
