package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/jimlawless/whereami"
)

//go:embed templates/*.html
var templatesFS embed.FS

// EmptyGridText выводится вместо сетки, когда товаров нет.
const EmptyGridText = "Nenhum produto cadastrado para exibir."

// Уровни сообщений формы.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

type Flash struct {
	Level   string
	Message string
}

// Page — всё, что нужно для отрисовки страницы формы.
type Page struct {
	Flashes  []Flash
	Listed   bool // нажата кнопка вывода списка
	Products []domain.Product
	Columns  int
}

func (p *Page) AddFlash(level, message string) {
	p.Flashes = append(p.Flashes, Flash{Level: level, Message: message})
}

type gridData struct {
	Rows      [][]Card
	EmptyText string
}

type pageData struct {
	Flashes []Flash
	Listed  bool
	Table   []tableRow
	Grid    gridData
}

type tableRow struct {
	ID          int64
	Name        string
	Description string
	Price       string
	ImageURL    string
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// RenderGrid выводит только сетку карточек или заглушку для пустого списка.
func (r *Renderer) RenderGrid(w io.Writer, products []domain.Product, columns int) error {
	return r.tmpl.ExecuteTemplate(w, "grid", newGridData(products, columns))
}

// Render выводит страницу целиком: форму, сообщения, таблицу и сетку.
func (r *Renderer) Render(w io.Writer, page *Page) error {
	data := pageData{
		Flashes: page.Flashes,
		Listed:  page.Listed,
		Grid:    newGridData(page.Products, page.Columns),
	}

	if page.Listed {
		data.Table = make([]tableRow, 0, len(page.Products))
		for _, p := range page.Products {
			data.Table = append(data.Table, tableRow{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price.StringFixed(2),
				ImageURL:    p.ImageURL,
			})
		}
	}

	return r.tmpl.ExecuteTemplate(w, "page", data)
}

func newGridData(products []domain.Product, columns int) gridData {
	return gridData{
		Rows:      Grid(products, columns),
		EmptyText: EmptyGridText,
	}
}
