package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mindreminder/mindreminder-api/internal/models"
	"gorm.io/gorm"
)

// Tracker owns the completion log and keeps each habit's streak counters
// consistent with it. Day boundaries are UTC calendar dates; a user's
// configured timezone never affects streaks.
type Tracker struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Tracker {
	return &Tracker{db: db, now: time.Now}
}

// NewWithClock constructs a tracker with an injected clock. Used by tests.
func NewWithClock(db *gorm.DB, now func() time.Time) *Tracker {
	return &Tracker{db: db, now: now}
}

// Today returns the current UTC calendar date.
func (t *Tracker) Today() string {
	return FormatDay(t.now())
}

// StreakSnapshot is the read model for a habit's streak state.
type StreakSnapshot struct {
	CurrentStreak    int  `json:"currentStreak"`
	BestStreak       int  `json:"bestStreak"`
	TotalCompletions int  `json:"totalCompletions"`
	CompletedToday   bool `json:"completedToday"`
}

// HabitTodayStatus is a habit joined with its completion state for today.
type HabitTodayStatus struct {
	models.Habit
	CompletedToday bool `json:"completedToday"`
}

// Complete records a completion of the habit for the given day (today when
// empty) and updates the streak counters. The record insert and the counter
// update happen in one transaction; concurrent completes for the same day are
// settled by the unique index on (habit_id, day), so the loser always sees
// ErrAlreadyCompleted.
func (t *Tracker) Complete(ctx context.Context, userID, habitID uuid.UUID, day string, note *string) (*models.Habit, error) {
	if day == "" {
		day = t.Today()
	}
	if _, err := ParseDay(day); err != nil {
		return nil, ErrInvalidDay
	}
	prev, err := PrevDay(day)
	if err != nil {
		return nil, ErrInvalidDay
	}

	var habit *models.Habit
	err = t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		h, err := t.loadOwnedHabit(tx, userID, habitID)
		if err != nil {
			return err
		}
		if !h.IsActive {
			return ErrHabitInactive
		}

		completion := models.HabitCompletion{
			HabitID:     habitID,
			UserID:      userID,
			Day:         day,
			Note:        note,
			CompletedAt: t.now().UTC(),
		}
		if err := tx.Create(&completion).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCompleted
			}
			return storeErr(err)
		}

		// Contiguous-day check: a record for the previous calendar day
		// extends the streak, anything else starts a new one.
		var prevCount int64
		if err := tx.Model(&models.HabitCompletion{}).
			Where("habit_id = ? AND user_id = ? AND day = ?", habitID, userID, prev).
			Count(&prevCount).Error; err != nil {
			return storeErr(err)
		}

		if prevCount > 0 {
			h.CurrentStreak++
		} else {
			h.CurrentStreak = 1
		}
		if h.CurrentStreak > h.BestStreak {
			h.BestStreak = h.CurrentStreak
		}
		h.TotalCompletions++

		if err := tx.Save(h).Error; err != nil {
			return storeErr(err)
		}
		habit = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// Uncomplete removes today's completion record and recomputes the streak from
// the remaining log. Reversal of past days is not supported; bestStreak is
// never decreased.
func (t *Tracker) Uncomplete(ctx context.Context, userID, habitID uuid.UUID, day string) (*models.Habit, error) {
	today := t.Today()
	if day == "" {
		day = today
	}
	if _, err := ParseDay(day); err != nil {
		return nil, ErrInvalidDay
	}
	if day != today {
		return nil, ErrNotCompletedToday
	}

	var habit *models.Habit
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		h, err := t.loadOwnedHabit(tx, userID, habitID)
		if err != nil {
			return err
		}

		res := tx.Where("habit_id = ? AND user_id = ? AND day = ?", habitID, userID, day).
			Delete(&models.HabitCompletion{})
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotCompletedToday
		}

		if h.TotalCompletions > 0 {
			h.TotalCompletions--
		}

		// Recompute from the log: after removal the streak equals the
		// contiguous run ending yesterday, which may not be counter-1.
		streak, err := t.contiguousRun(tx, userID, habitID, day)
		if err != nil {
			return err
		}
		h.CurrentStreak = streak

		if err := tx.Save(h).Error; err != nil {
			return storeErr(err)
		}
		habit = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// Snapshot returns the habit's streak counters plus whether it has been
// completed today. Pure read.
func (t *Tracker) Snapshot(ctx context.Context, userID, habitID uuid.UUID) (*StreakSnapshot, error) {
	h, err := t.loadOwnedHabit(t.db.WithContext(ctx), userID, habitID)
	if err != nil {
		return nil, err
	}

	var todayCount int64
	if err := t.db.WithContext(ctx).Model(&models.HabitCompletion{}).
		Where("habit_id = ? AND user_id = ? AND day = ?", habitID, userID, t.Today()).
		Count(&todayCount).Error; err != nil {
		return nil, storeErr(err)
	}

	return &StreakSnapshot{
		CurrentStreak:    h.CurrentStreak,
		BestStreak:       h.BestStreak,
		TotalCompletions: h.TotalCompletions,
		CompletedToday:   todayCount > 0,
	}, nil
}

// ListActiveWithTodayStatus returns all active habits joined with today's
// completion state. Two queries and a set intersect, never one query per
// habit.
func (t *Tracker) ListActiveWithTodayStatus(ctx context.Context, userID uuid.UUID) ([]HabitTodayStatus, error) {
	db := t.db.WithContext(ctx)

	var habits []models.Habit
	if err := db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&habits).Error; err != nil {
		return nil, storeErr(err)
	}

	var todays []models.HabitCompletion
	if err := db.Where("user_id = ? AND day = ?", userID, t.Today()).
		Find(&todays).Error; err != nil {
		return nil, storeErr(err)
	}

	done := make(map[uuid.UUID]bool, len(todays))
	for _, c := range todays {
		done[c.HabitID] = true
	}

	statuses := make([]HabitTodayStatus, len(habits))
	for i, h := range habits {
		statuses[i] = HabitTodayStatus{Habit: h, CompletedToday: done[h.ID]}
	}
	return statuses, nil
}

// Completions returns the habit's completion log, newest first.
func (t *Tracker) Completions(ctx context.Context, userID, habitID uuid.UUID, limit, offset int) ([]models.HabitCompletion, int64, error) {
	db := t.db.WithContext(ctx)

	if _, err := t.loadOwnedHabit(db, userID, habitID); err != nil {
		return nil, 0, err
	}

	var completions []models.HabitCompletion
	if err := db.Where("habit_id = ? AND user_id = ?", habitID, userID).
		Order("day DESC").
		Offset(offset).
		Limit(limit).
		Find(&completions).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	var total int64
	if err := db.Model(&models.HabitCompletion{}).
		Where("habit_id = ? AND user_id = ?", habitID, userID).
		Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	return completions, total, nil
}

// contiguousRun counts consecutive completed days ending the day before the
// given one. Day strings sort chronologically, so ordering by day is enough.
func (t *Tracker) contiguousRun(tx *gorm.DB, userID, habitID uuid.UUID, day string) (int, error) {
	var days []string
	if err := tx.Model(&models.HabitCompletion{}).
		Where("habit_id = ? AND user_id = ? AND day < ?", habitID, userID, day).
		Order("day DESC").
		Pluck("day", &days).Error; err != nil {
		return 0, storeErr(err)
	}

	expect, err := PrevDay(day)
	if err != nil {
		return 0, ErrInvalidDay
	}

	streak := 0
	for _, d := range days {
		if d != expect {
			break
		}
		streak++
		expect, err = PrevDay(expect)
		if err != nil {
			return 0, ErrInvalidDay
		}
	}
	return streak, nil
}

// loadOwnedHabit fetches a habit and enforces the ownership filter. NotFound
// and Forbidden are distinguished so callers can tell them apart.
func (t *Tracker) loadOwnedHabit(tx *gorm.DB, userID, habitID uuid.UUID) (*models.Habit, error) {
	var habit models.Habit
	if err := tx.First(&habit, "id = ?", habitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr(err)
	}
	if habit.UserID != userID {
		return nil, ErrForbidden
	}
	return &habit, nil
}
