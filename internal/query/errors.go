package query

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIdentifier is returned for table or column names that are not bare SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")

	// ErrInvalidOperator is returned for comparison operators outside the allow-list.
	ErrInvalidOperator = errors.New("invalid SQL operator")

	// ErrTableNotSet is returned when a query is compiled before Table was called.
	ErrTableNotSet = errors.New("table name not set")

	// ErrInvalidPagination is returned for page or per-page values below 1.
	ErrInvalidPagination = errors.New("invalid pagination")

	// ErrQueryExecutionFailed wraps every error reported by the store.
	ErrQueryExecutionFailed = errors.New("query execution failed")
)

func executionFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
}
