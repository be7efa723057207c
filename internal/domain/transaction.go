package domain

import "context"

// TransactionManager runs fn atomically against the remote store.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
