package shared

import "context"

// Filter holds common list query options shared by all repositories
type Filter struct {
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// UnitOfWork runs a function within a single storage transaction. Used where
// a read-validate-write sequence must not interleave with concurrent writers
// (payment allocation) and where paired rows must change together (transfer
// legs).
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
