package repository

import (
	"context"
	"errors"

	"truetimer/backend/internal/model"
)

var ErrNotFound = errors.New("not found")

// Tx is one unit of work. Everything done through a Tx commits or rolls back
// together.
type Tx interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreateTimer(ctx context.Context, timer *model.StandardTimer) error
	GetTimer(ctx context.Context, id int64) (*model.StandardTimer, error)
	// GetTimerForUpdate reads a timer and holds it against concurrent
	// writers until the transaction ends.
	GetTimerForUpdate(ctx context.Context, id int64) (*model.StandardTimer, error)
	UpdateTimer(ctx context.Context, timer *model.StandardTimer) error
	ListTimersByUser(ctx context.Context, userID string) ([]model.StandardTimer, error)
}

type Store interface {
	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
