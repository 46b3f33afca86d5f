package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type item struct {
	ID    string `db:"id"`
	Owner string `db:"owner"`
	Name  string `db:"name"`
	Score int    `db:"score"`
}

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	db.MustExec(`CREATE TABLE items (id TEXT PRIMARY KEY, owner TEXT NOT NULL, name TEXT NOT NULL, score INTEGER NOT NULL)`)
	return db
}

func seedItems(t *testing.T, db *sqlx.DB, owner string, n int) {
	t.Helper()
	for i := range n {
		// Names descend while insertion order ascends so rowid order is observable.
		db.MustExec(`INSERT INTO items (id, owner, name, score) VALUES (?, ?, ?, ?)`,
			fmt.Sprintf("%s-%02d", owner, i), owner, fmt.Sprintf("item-%02d", n-i), i)
	}
}

func TestPaginateMeta(t *testing.T) {
	db := openTestDB(t)
	seedItems(t, db, "u1", 25)
	seedItems(t, db, "u2", 4)
	ctx := context.Background()

	b := New(db, SQLite).Table("items").Where("owner", "u1")

	page, err := Paginate[item](ctx, b, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, Meta{CurrentPage: 3, LastPage: 3, PerPage: 10, Total: 25}, page.Meta)

	page, err = Paginate[item](ctx, b, 4, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(25), page.Meta.Total)
}

func TestPaginateEmpty(t *testing.T) {
	db := openTestDB(t)
	page, err := Paginate[item](context.Background(), New(db, SQLite).Table("items"), 1, 15)
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, Meta{CurrentPage: 1, LastPage: 1, PerPage: 15, Total: 0}, page.Meta)
}

func TestPaginatePagesAreContiguous(t *testing.T) {
	db := openTestDB(t)
	seedItems(t, db, "u1", 9)
	ctx := context.Background()

	for _, b := range []*Builder{
		New(db, SQLite).Table("items"),
		New(db, SQLite).Table("items").OrderBy("name", "asc"),
	} {
		whole, err := Paginate[item](ctx, b, 1, 6)
		require.NoError(t, err)

		first, err := Paginate[item](ctx, b, 1, 3)
		require.NoError(t, err)
		second, err := Paginate[item](ctx, b, 2, 3)
		require.NoError(t, err)

		assert.Equal(t, whole.Data, append(first.Data, second.Data...))
	}
}

func TestPaginateDefaultOrderIsInsertionOrder(t *testing.T) {
	db := openTestDB(t)
	seedItems(t, db, "u1", 3)

	page, err := Paginate[item](context.Background(), New(db, SQLite).Table("items"), 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, []string{"u1-00", "u1-01", "u1-02"},
		[]string{page.Data[0].ID, page.Data[1].ID, page.Data[2].ID})
}

func TestPaginateTotalMatchesCount(t *testing.T) {
	db := openTestDB(t)
	seedItems(t, db, "u1", 12)
	ctx := context.Background()

	b := New(db, SQLite).Table("items").WhereOp("score", ">=", 4)
	total, err := Count(ctx, b)
	require.NoError(t, err)

	for perPage := 1; perPage <= 13; perPage++ {
		page, err := Paginate[item](ctx, b, 1, perPage)
		require.NoError(t, err)
		assert.Equal(t, total, page.Meta.Total)
		assert.Equal(t, LastPage(total, perPage), page.Meta.LastPage)
		assert.Len(t, page.Data, min(perPage, int(total)))
	}
}

func TestPaginateRejectsInvalidPage(t *testing.T) {
	db := openTestDB(t)
	_, err := Paginate[item](context.Background(), New(db, SQLite).Table("items"), 0, 10)
	assert.ErrorIs(t, err, ErrInvalidPagination)
}

func TestGet(t *testing.T) {
	db := openTestDB(t)
	seedItems(t, db, "u1", 5)
	ctx := context.Background()

	rows, err := Get[item](ctx, New(db, SQLite).Table("items").OrderBy("score", "desc").Limit(2))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 4, rows[0].Score)
	assert.Equal(t, 3, rows[1].Score)

	names, err := Get[string](ctx, New(db, SQLite).Table("items").Select("name").WhereOp("id", "IN", []string{"u1-00", "u1-04"}).OrderBy("name", "asc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"item-01", "item-05"}, names)

	none, err := Get[item](ctx, New(db, SQLite).Table("items").WhereOp("id", "IN", []string{}))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestExecutionErrorsAreWrapped(t *testing.T) {
	db := openTestDB(t)
	_, err := Get[item](context.Background(), New(db, SQLite).Table("missing_table"))
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)

	_, err = Paginate[item](context.Background(), New(db, SQLite).Table("items").Where("nope", 1), 1, 10)
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}
