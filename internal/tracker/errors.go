package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the habit or completion record does not exist.
	ErrNotFound = errors.New("habit not found")
	// ErrForbidden means the habit exists but belongs to another user.
	ErrForbidden = errors.New("habit not owned by caller")
	// ErrAlreadyCompleted means a completion record already exists for the day.
	ErrAlreadyCompleted = errors.New("habit already completed for this day")
	// ErrNotCompletedToday means uncomplete was called with no matching
	// record, or for a day other than today.
	ErrNotCompletedToday = errors.New("no completion record for today")
	// ErrHabitInactive means the habit has been deactivated and cannot be
	// completed.
	ErrHabitInactive = errors.New("habit is inactive")
	// ErrInvalidDay means the day parameter is not a YYYY-MM-DD date.
	ErrInvalidDay = errors.New("invalid day, expected YYYY-MM-DD")
	// ErrStoreUnavailable wraps failures from the database. Propagated as-is;
	// retry policy belongs to the store client.
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
