package store

import (
	"context"
	"time"
)

// SeenShift is an open shift that has already been announced.
type SeenShift struct {
	// ID is the employer's available_shift_id.
	ID        string
	CreatedTs int64
}

// FindSeenShift is the find condition for seen shifts.
type FindSeenShift struct {
	ID    *string
	Limit *int
}

// DeleteSeenShift removes seen shifts recorded before CreatedBefore.
type DeleteSeenShift struct {
	CreatedBefore int64
}

// HasSeen reports whether shiftID was recorded.
func (s *Store) HasSeen(ctx context.Context, shiftID string) (bool, error) {
	limit := 1
	list, err := s.driver.ListSeenShifts(ctx, &FindSeenShift{ID: &shiftID, Limit: &limit})
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

// Record marks shiftID as seen. Recording an already seen shift is a no-op.
func (s *Store) Record(ctx context.Context, shiftID string) error {
	_, err := s.driver.CreateSeenShift(ctx, &SeenShift{ID: shiftID, CreatedTs: s.now().Unix()})
	return err
}

func (s *Store) ListSeenShifts(ctx context.Context, find *FindSeenShift) ([]*SeenShift, error) {
	return s.driver.ListSeenShifts(ctx, find)
}

// PruneSeenShifts forgets shifts recorded longer than retention ago.
func (s *Store) PruneSeenShifts(ctx context.Context, retention time.Duration) (int64, error) {
	return s.driver.DeleteSeenShifts(ctx, &DeleteSeenShift{CreatedBefore: s.now().Add(-retention).Unix()})
}
