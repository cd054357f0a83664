package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// SeenShift model related methods.
	CreateSeenShift(ctx context.Context, create *SeenShift) (*SeenShift, error)
	ListSeenShifts(ctx context.Context, find *FindSeenShift) ([]*SeenShift, error)
	DeleteSeenShifts(ctx context.Context, delete *DeleteSeenShift) (int64, error)
}
