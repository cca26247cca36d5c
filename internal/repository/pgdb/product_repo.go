package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/postgres"
	"github.com/DRSN-tech/product-catalog/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Connector выдаёт новое соединение на одну операцию.
type Connector interface {
	Acquire(ctx context.Context) (postgres.Conn, error)
}

// ProductRepo реализует репозиторий продуктов поверх таблицы Produtos.
type ProductRepo struct {
	db   Connector
	conv converter.ProductConverter
}

func NewProductRepo(db Connector, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		db:   db,
		conv: conv,
	}
}

// Insert добавляет строку товара в отдельной транзакции и возвращает её с присвоенным id.
func (p *ProductRepo) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	const op = "ProductRepo.Insert"

	var saved *domain.Product
	err := p.withConn(ctx, func(conn postgres.Conn) (err error) {
		ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, conn)
		if err != nil {
			return err
		}

		defer func() {
			if err != nil && tx.IsActive() {
				_ = tx.Rollback(ctx)
			}
		}()

		ctx = tr.WithTx(ctx, tx.Transaction())

		saved, err = p.insert(ctx, product)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, toDatabaseError(op, err)
	}

	return saved, nil
}

func (p *ProductRepo) insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO Produtos (nome, descricao, preco, imagem_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	model := p.conv.ToModel(product)
	if err := tx.QueryRow(ctx, query, model.Name, model.Description, model.Price, model.ImageURL).Scan(&model.ID); err != nil {
		return nil, err
	}

	return p.conv.ToEntity(model), nil
}

// FetchAll возвращает все строки таблицы в порядке, который отдал сервер.
// При ошибке возвращается пустой список вместе с DatabaseError.
func (p *ProductRepo) FetchAll(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductRepo.FetchAll"

	query := `SELECT id, nome, descricao, preco, imagem_url FROM Produtos`

	result := make([]domain.Product, 0)
	err := p.withConn(ctx, func(conn postgres.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		var columns []string
		for rows.Next() {
			if columns == nil {
				columns = columnNames(rows.FieldDescriptions())
			}

			values, err := rows.Values()
			if err != nil {
				return err
			}

			row := make(converter.Row, len(columns))
			for i, name := range columns {
				if i < len(values) {
					row[name] = values[i]
				}
			}

			model, err := p.conv.FromRow(row)
			if err != nil {
				return err
			}

			result = append(result, *p.conv.ToEntity(model))
		}

		return rows.Err()
	})
	if err != nil {
		return []domain.Product{}, toDatabaseError(op, err)
	}

	return result, nil
}

// withConn открывает соединение, выполняет fn и всегда закрывает соединение.
func (p *ProductRepo) withConn(ctx context.Context, fn func(conn postgres.Conn) error) error {
	conn, err := p.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(context.WithoutCancel(ctx))

	return fn(conn)
}

func columnNames(fields []pgconn.FieldDescription) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	return names
}

// toDatabaseError приводит любую ошибку драйвера к DatabaseError с кодом SQLSTATE, если он есть.
func toDatabaseError(op string, err error) error {
	var dbErr *e.DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}

	var sqlState string
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		sqlState = pgErr.Code
	}

	return e.NewDatabaseError(op, sqlState, err)
}
