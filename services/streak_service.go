package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/DharuvSharma/fitness-minder/internal/keylock"
	"github.com/DharuvSharma/fitness-minder/internal/streak"

	"github.com/google/uuid"
)

// StreakService derives per-user streak state from completed-workout
// dates. There is no background job: a streak that silently expired
// overnight is corrected lazily, on the next read or write, by the
// decay step. All operations for one user are serialized through a
// per-user lock; the caller supplies "today" so time never has to be
// mocked below this layer.
type StreakService struct {
	store StreakStore
	locks *keylock.KeyLock
}

func NewStreakService(store StreakStore) *StreakService {
	return &StreakService{
		store: store,
		locks: keylock.New(),
	}
}

// ApplyCompletion is the incremental fast path, called when a single
// workout becomes completed. It only ever moves the streak forward:
// a backdated completion at or before the stored last workout date is
// left alone (callers that invalidate history go through Recompute).
// Future-dated workouts never touch the streak.
func (s *StreakService) ApplyCompletion(ctx context.Context, userID string, workoutDate, today time.Time) error {
	workoutDate = dateOnly(workoutDate)
	today = dateOnly(today)

	if workoutDate.After(today) {
		return nil
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	st, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return err
	}

	if st.LastWorkoutDate == nil {
		st.CurrentStreak = 1
		st.LastWorkoutDate = &workoutDate
	} else if workoutDate.After(*st.LastWorkoutDate) {
		gap := daysBetween(*st.LastWorkoutDate, workoutDate)
		if gap == 1 {
			st.CurrentStreak++
			st.LastWorkoutDate = &workoutDate
		} else if gap > 1 {
			// Missed at least one day in between: streak starts over.
			st.CurrentStreak = 1
			st.LastWorkoutDate = &workoutDate
		}
	}

	if st.CurrentStreak > st.LongestStreak {
		st.LongestStreak = st.CurrentStreak
	}

	if err := s.store.Put(ctx, st); err != nil {
		return err
	}

	return s.decay(ctx, st, today)
}

// Recompute rebuilds streak state from the authoritative set of all
// dates with at least one completed workout. Callers use it whenever
// the incremental assumption breaks: a workout toggled incomplete,
// deleted, or moved to another date. The longest streak is a
// high-water mark - recomputing may raise it but never lowers it.
func (s *StreakService) Recompute(ctx context.Context, userID string, completedDates []time.Time, today time.Time) error {
	today = dateOnly(today)

	dates := make([]time.Time, 0, len(completedDates))
	for _, d := range completedDates {
		d = dateOnly(d)
		if d.After(today) {
			// Future completions never count toward a streak.
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	unlock := s.locks.Lock(userID)
	defer unlock()

	st, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return err
	}

	if len(dates) == 0 {
		st.CurrentStreak = 0
		st.LastWorkoutDate = nil
		return s.store.Put(ctx, st)
	}

	// One ascending walk. run ends up being the run that ends at the
	// latest date, which is exactly the current streak.
	run, best := 1, 1
	prev := dates[0]
	for _, d := range dates[1:] {
		if d.Equal(prev) {
			continue
		}
		gap := daysBetween(prev, d)
		if gap == 1 {
			run++
			if run > best {
				best = run
			}
		} else if gap > 1 {
			run = 1
		}
		prev = d
	}

	st.CurrentStreak = run
	last := prev
	st.LastWorkoutDate = &last
	if best > st.LongestStreak {
		st.LongestStreak = best
	}

	if err := s.store.Put(ctx, st); err != nil {
		return err
	}

	return s.decay(ctx, st, today)
}

// GetStreak loads the user's state, applies decay and returns the
// query DTO. A user with no state at all gets the zero response
// without anything being persisted.
func (s *StreakService) GetStreak(ctx context.Context, userID string, today time.Time) (*streak.StreakResponse, error) {
	today = dateOnly(today)

	unlock := s.locks.Lock(userID)
	defer unlock()

	st, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return &streak.StreakResponse{}, nil
	}

	if err := s.decay(ctx, st, today); err != nil {
		return nil, err
	}

	return &streak.StreakResponse{
		CurrentStreak:   st.CurrentStreak,
		LongestStreak:   st.LongestStreak,
		LastWorkoutDate: st.LastWorkoutDate,
	}, nil
}

// decay zeroes the live counter once more than one full day has
// passed since the last workout, so "yesterday" still counts but
// "the day before yesterday" does not. Longest streak and last
// workout date stay as they are. Idempotent for a fixed today; only
// writes when it actually changed something.
func (s *StreakService) decay(ctx context.Context, st *streak.Streak, today time.Time) error {
	if st.LastWorkoutDate == nil || st.CurrentStreak == 0 {
		return nil
	}

	if daysBetween(*st.LastWorkoutDate, today) > 1 {
		st.CurrentStreak = 0
		if err := s.store.Put(ctx, st); err != nil {
			return fmt.Errorf("failed to save decayed streak: %w", err)
		}
	}

	return nil
}

func (s *StreakService) loadOrInit(ctx context.Context, userID string) (*streak.Streak, error) {
	st, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = &streak.Streak{
			ID:     uuid.New(),
			UserID: userID,
		}
	}
	return st, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}
