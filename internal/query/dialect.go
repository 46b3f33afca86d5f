package query

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Dialect carries the per-driver details the compiler cannot express portably.
type Dialect struct {
	// Driver is the database/sql driver name.
	Driver string
	// BindType is the sqlx placeholder style used when rebinding "?" placeholders.
	BindType int
	// RowIdentity orders pages when the caller asked for no ordering.
	RowIdentity string
}

var (
	SQLite   = Dialect{Driver: "sqlite", BindType: sqlx.QUESTION, RowIdentity: "rowid"}
	Postgres = Dialect{Driver: "postgres", BindType: sqlx.DOLLAR, RowIdentity: "ctid"}
	// MySQL has no addressable row id; InnoDB clusters rows on the primary key.
	MySQL = Dialect{Driver: "mysql", BindType: sqlx.QUESTION, RowIdentity: "id"}
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(SQLite.Driver, sqlx.QUESTION)
}

// DialectFor returns the dialect registered for a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case SQLite.Driver, "sqlite3":
		return SQLite, nil
	case Postgres.Driver:
		return Postgres, nil
	case MySQL.Driver:
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported driver: %s", driver)
	}
}

// Rebind converts "?" placeholders to the dialect's placeholder style.
func (d Dialect) Rebind(query string) string {
	return sqlx.Rebind(d.BindType, query)
}
