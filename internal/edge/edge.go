// Package edge models relationship rows (subscriptions, likes) as a two-state
// machine keyed by the relationship tuple. Presence of the row is the state.
package edge

import (
	"context"
	"errors"
	"fmt"

	"vidtube/internal/apperr"
)

type State int

const (
	Absent State = iota
	Present
)

func (s State) String() string {
	if s == Present {
		return "present"
	}
	return "absent"
}

type Outcome int

const (
	Created Outcome = iota + 1
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Next is the toggle transition.
func Next(s State) (State, Outcome) {
	if s == Present {
		return Absent, Removed
	}
	return Present, Created
}

// ErrDuplicate is returned by Store.Create when the edge already exists.
var ErrDuplicate = errors.New("edge already exists")

// ErrConflict is returned when a concurrent toggle keeps the edge flipping under us.
var ErrConflict = apperr.New(apperr.Conflict, "concurrent update, please retry")

// Store persists edges of a single kind.
type Store[K any] interface {
	Exists(ctx context.Context, key K) (bool, error)
	Create(ctx context.Context, key K) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, key K) (bool, error)
}

// Toggle flips the edge for key and reports what happened.
//
// The read and the write are separate statements, so two concurrent toggles
// can both observe Absent. The loser's Create fails with ErrDuplicate; that is
// treated as Present and the transition is retried once as a delete. A delete
// that finds nothing after Present was observed is likewise retried once as a
// create. A second miss surfaces ErrConflict.
func Toggle[K any](ctx context.Context, store Store[K], key K) (Outcome, error) {
	exists, err := store.Exists(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to read edge state: %w", err)
	}
	state := Absent
	if exists {
		state = Present
	}

	for attempt := 0; attempt < 2; attempt++ {
		_, outcome := Next(state)
		switch outcome {
		case Created:
			err := store.Create(ctx, key)
			if err == nil {
				return Created, nil
			}
			if !errors.Is(err, ErrDuplicate) {
				return 0, fmt.Errorf("failed to create edge: %w", err)
			}
			state = Present
		case Removed:
			removed, err := store.Delete(ctx, key)
			if err != nil {
				return 0, fmt.Errorf("failed to delete edge: %w", err)
			}
			if removed {
				return Removed, nil
			}
			state = Absent
		}
	}
	return 0, ErrConflict
}
