package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	migrations "github.com/DRSN-tech/product-catalog/db"
	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Conn — часть *pgx.Conn, которой пользуются репозитории.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// PgDatabase открывает отдельное соединение с PostgreSQL на каждый вызов.
// Пула нет: соединение живёт ровно одну операцию репозитория.
type PgDatabase struct {
	Dsn        string
	connConfig *pgx.ConnConfig
	cfg        *cfg.PGDBCfg
}

func NewPgDatabase(cfg *cfg.PGDBCfg) (*PgDatabase, error) {
	const op = "PgDatabase.New"

	dsn := cfg.DSN()
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &PgDatabase{Dsn: dsn, connConfig: connConfig, cfg: cfg}, nil
}

// Acquire открывает новое соединение. Закрыть его обязан вызывающий.
func (db *PgDatabase) Acquire(ctx context.Context) (Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, db.connConfig)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

func (db *PgDatabase) Ping(ctx context.Context) error {
	const op = "PgDatabase.Ping"
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	conn, err := pgx.ConnectConfig(ctx, db.connConfig)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer conn.Close(ctx)

	if err := conn.Ping(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// RunMigrations применяет встроенные миграции из db/migrations.
func (db *PgDatabase) RunMigrations(logger logger.Logger) error {
	return RunMigrations(db.Dsn, logger)
}

func RunMigrations(dsn string, logger logger.Logger) error {
	const (
		op                 = "PgDatabase.RunMigrations"
		driverName         = "pgx"
		databaseDriverName = "postgres"
		sourceName         = "iofs"
	)

	sqlDb, err := sql.Open(driverName, dsn)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer sqlDb.Close()

	driver, err := postgres.WithInstance(sqlDb, &postgres.Config{})
	if err != nil {
		return e.Wrap(op, err)
	}

	source, err := iofs.New(migrations.Migrations, migrations.MigrationsDir)
	if err != nil {
		return e.Wrap(op, err)
	}

	m, err := migrate.NewWithInstance(sourceName, source, databaseDriverName, driver)
	if err != nil {
		return e.Wrap(op, err)
	}

	err = m.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return e.Wrap(op, err)
	}

	logger.Infof("migrations applied successfully")
	return nil
}
