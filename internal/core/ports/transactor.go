package ports

import "context"

// Transactor runs fn inside a single storage transaction. Repository calls made
// with the ctx handed to fn join the transaction; returning an error aborts it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
