// Package query builds and executes parameterized SELECT statements against the
// relational store.
//
// Table names, column names and operators cannot be bound as parameters, so they
// are checked against a strict identifier pattern and an operator allow-list at the
// moment they are handed to the builder. Values are always bound.
//
// A Builder is copy-on-write: every chained call returns a new Builder and leaves
// the receiver untouched, so a partially configured query can be shared and
// extended safely.
//
//	b := query.New(db, query.SQLite).
//		Table("templates").
//		Where("user_id", userID).
//		OrderBy("created_at", "desc")
//
//	page, err := query.Paginate[core.Template](ctx, b, 1, 15)
//
// Get never issues an unbounded scan: without an explicit Limit it caps the result
// at MaxLimit rows. Paginate runs a COUNT and a page query as two round trips; the
// two reads are not taken from one snapshot, so under concurrent writes the total
// and the returned rows may disagree. When no ordering was requested Paginate
// orders by the dialect's row identity so page boundaries stay stable.
package query
