package converter

import "github.com/jackc/pgx/v5/pgtype"

// Колонки таблицы Produtos.
const (
	ColumnID          = "id"
	ColumnName        = "nome"
	ColumnDescription = "descricao"
	ColumnPrice       = "preco"
	ColumnImageURL    = "imagem_url"
)

// Row — строка результата запроса, ключ — имя колонки.
type Row map[string]any

// ProductModel представляет запись таблицы Produtos в PostgreSQL.
type ProductModel struct {
	ID          int64          `db:"id"`
	Name        string         `db:"nome"`
	Description string         `db:"descricao"`
	Price       pgtype.Numeric `db:"preco"`
	ImageURL    *string        `db:"imagem_url"`
}
