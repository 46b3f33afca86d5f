package data

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"restinvoice/internal/core"
	"restinvoice/internal/logger"
	"restinvoice/internal/query"
)

//go:embed migrations
var migrationsFS embed.FS

// Store is the relational store shared by the repositories.
type Store struct {
	db      *sqlx.DB
	dialect query.Dialect
	exec    tracer
	stmt    sq.StatementBuilderType
}

// Open connects to the database named by driver and dsn and runs migrations.
func Open(driver, dsn string) (*Store, error) {
	dialect, err := query.DialectFor(driver)
	if err != nil {
		return nil, err
	}

	if dialect.Driver == query.MySQL.Driver {
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, err
	}

	if dialect.Driver == query.SQLite.Driver {
		// One writer at a time; also keeps ":memory:" databases on a single connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(db.DB, dialect); err != nil {
		db.Close()
		return nil, err
	}

	return NewStore(db, dialect), nil
}

// NewStore wraps an already migrated database.
func NewStore(db *sqlx.DB, dialect query.Dialect) *Store {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect.BindType == sqlx.DOLLAR {
		placeholder = sq.Dollar
	}
	return &Store{
		db:      db,
		dialect: dialect,
		exec:    tracer{db: db},
		stmt:    sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Dialect() query.Dialect {
	return s.dialect
}

// From starts a read query on table.
func (s *Store) From(table string) *query.Builder {
	return query.New(s.exec, s.dialect).Table(table)
}

// execStatement runs an INSERT, UPDATE or DELETE built with squirrel.
func (s *Store) execStatement(ctx context.Context, stmt sq.Sqlizer) (sql.Result, error) {
	sqlText, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}
	res, err := s.exec.ExecContext(ctx, sqlText, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", core.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: %w", query.ErrQueryExecutionFailed, err)
	}
	return res, nil
}

func runMigrations(db *sql.DB, dialect query.Dialect) error {
	var (
		driver database.Driver
		err    error
	)
	switch dialect.Driver {
	case query.SQLite.Driver:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case query.Postgres.Driver:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case query.MySQL.Driver:
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	default:
		err = fmt.Errorf("no migrations for driver %s", dialect.Driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+dialect.Driver)
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	// m.Close is not called: it would close db along with the driver.
	m, err := migrate.NewWithInstance("iofs", source, dialect.Driver, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// mysqlDSN enables the options migrations and scanning rely on.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.MultiStatements = true
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE"))
	}
	return false
}

// tracer logs every statement to the debug logger before running it.
type tracer struct {
	db *sqlx.DB
}

func (t tracer) trace(sqlText string, args []any) {
	if logger.Debug.Writer() == io.Discard {
		return
	}
	logger.Debug.Printf("sql: %s args: %s", sqlText, spew.Sprintf("%v", args))
}

func (t tracer) QueryContext(ctx context.Context, sqlText string, args ...any) (*sql.Rows, error) {
	t.trace(sqlText, args)
	return t.db.QueryContext(ctx, sqlText, args...)
}

func (t tracer) QueryxContext(ctx context.Context, sqlText string, args ...any) (*sqlx.Rows, error) {
	t.trace(sqlText, args)
	return t.db.QueryxContext(ctx, sqlText, args...)
}

func (t tracer) QueryRowxContext(ctx context.Context, sqlText string, args ...any) *sqlx.Row {
	t.trace(sqlText, args)
	return t.db.QueryRowxContext(ctx, sqlText, args...)
}

func (t tracer) ExecContext(ctx context.Context, sqlText string, args ...any) (sql.Result, error) {
	t.trace(sqlText, args)
	return t.db.ExecContext(ctx, sqlText, args...)
}
