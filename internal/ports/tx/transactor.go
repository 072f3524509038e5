package tx

import "context"

// Transactor runs fn as one atomic unit: every repository call made with the
// ctx handed to fn commits together or not at all.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
