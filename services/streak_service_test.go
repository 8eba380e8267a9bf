package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func newTestStreakService() (*StreakService, *MemoryStreakStore) {
	store := NewMemoryStreakStore()
	return NewStreakService(store), store
}

func TestGetStreakUnknownUser(t *testing.T) {
	svc, store := newTestStreakService()
	ctx := context.Background()

	resp, err := svc.GetStreak(ctx, "nobody", day(0))
	require.NoError(t, err)

	assert.Equal(t, 0, resp.CurrentStreak)
	assert.Equal(t, 0, resp.LongestStreak)
	assert.Nil(t, resp.LastWorkoutDate)

	// Reads alone never create state.
	st, err := store.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestApplyCompletionConsecutiveDays(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()

	// Each workout is logged on the day it happens.
	for i := 0; i <= 2; i++ {
		require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(i), day(i)))
	}

	resp, err := svc.GetStreak(ctx, "u1", day(2))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.CurrentStreak)
	assert.Equal(t, 3, resp.LongestStreak)
	require.NotNil(t, resp.LastWorkoutDate)
	assert.True(t, resp.LastWorkoutDate.Equal(day(2)))
}

func TestApplyCompletionSameDayIdempotent(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(1)

	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(0), today))
	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(1), today))
	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(1), today))

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentStreak)
}

func TestApplyCompletionGapResetsStreak(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(3)

	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(0), today))
	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(3), today))

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentStreak)
	assert.Equal(t, 1, resp.LongestStreak)
	require.NotNil(t, resp.LastWorkoutDate)
	assert.True(t, resp.LastWorkoutDate.Equal(day(3)))
}

func TestApplyCompletionFutureDateIsNoOp(t *testing.T) {
	svc, store := newTestStreakService()
	ctx := context.Background()
	today := day(0)

	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(5), today))

	st, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestApplyCompletionBackdatedIsIgnored(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(4)

	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(3), today))
	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(4), today))

	// A backdated completion before the last workout date takes the
	// fast path and leaves the streak alone; only Recompute sees it.
	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(2), today))

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentStreak)
	require.NotNil(t, resp.LastWorkoutDate)
	assert.True(t, resp.LastWorkoutDate.Equal(day(4)))
}

func TestApplyCompletionLongestStreakSurvivesReset(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	for i := 0; i <= 2; i++ {
		require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(i), day(i)))
	}
	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(6), day(6)))

	resp, err := svc.GetStreak(ctx, "u1", day(6))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentStreak)
	assert.Equal(t, 3, resp.LongestStreak)
}

func TestRecomputeAnchorsCurrentStreakAtLatestDate(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(6)

	dates := []time.Time{day(0), day(1), day(2), day(5), day(6)}
	require.NoError(t, svc.Recompute(ctx, "u1", dates, today))

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentStreak, "run ending at the latest date, not the historical maximum")
	assert.GreaterOrEqual(t, resp.LongestStreak, 3)
	require.NotNil(t, resp.LastWorkoutDate)
	assert.True(t, resp.LastWorkoutDate.Equal(day(6)))
}

func TestRecomputeUnsortedInputWithDuplicates(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(2)

	dates := []time.Time{day(2), day(0), day(1), day(1), day(0)}
	require.NoError(t, svc.Recompute(ctx, "u1", dates, today))

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.CurrentStreak)
	assert.Equal(t, 3, resp.LongestStreak)
}

func TestRecomputeEmptySetKeepsLongestStreak(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(2)

	for i := 0; i <= 2; i++ {
		require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(i), day(i)))
	}

	// All completed workouts deleted.
	require.NoError(t, svc.Recompute(ctx, "u1", nil, today))

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentStreak)
	assert.Equal(t, 3, resp.LongestStreak)
	assert.Nil(t, resp.LastWorkoutDate)
}

func TestRecomputeNeverLowersLongestStreak(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(10)

	require.NoError(t, svc.Recompute(ctx, "u1", []time.Time{day(0), day(1), day(2), day(3)}, today))
	// History behind the maximum is gone; the high-water mark stays.
	require.NoError(t, svc.Recompute(ctx, "u1", []time.Time{day(9), day(10)}, today))

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentStreak)
	assert.Equal(t, 4, resp.LongestStreak)
}

func TestRecomputeFiltersFutureDates(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(1)

	dates := []time.Time{day(0), day(1), day(2), day(3)}
	require.NoError(t, svc.Recompute(ctx, "u1", dates, today))

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentStreak)
	require.NotNil(t, resp.LastWorkoutDate)
	assert.True(t, resp.LastWorkoutDate.Equal(day(1)), "last workout date must never be in the future")
}

func TestDecayAfterOneDayGrace(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()

	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(0), day(0)))

	// Yesterday still counts.
	resp, err := svc.GetStreak(ctx, "u1", day(1))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentStreak)

	// Two days later the live counter is gone, history is not.
	resp, err = svc.GetStreak(ctx, "u1", day(2))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentStreak)
	assert.Equal(t, 1, resp.LongestStreak)
	require.NotNil(t, resp.LastWorkoutDate)
	assert.True(t, resp.LastWorkoutDate.Equal(day(0)))
}

func TestDecayIsIdempotent(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()

	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(0), day(0)))

	first, err := svc.GetStreak(ctx, "u1", day(3))
	require.NoError(t, err)
	second, err := svc.GetStreak(ctx, "u1", day(3))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecayAppliedAfterWrite(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()

	// The completion itself is stale: logged today for three days ago.
	require.NoError(t, svc.ApplyCompletion(ctx, "u1", day(0), day(3)))

	resp, err := svc.GetStreak(ctx, "u1", day(3))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentStreak)
	assert.Equal(t, 1, resp.LongestStreak)
}

func TestLongestStreakAlwaysAtLeastCurrent(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(9)

	require.NoError(t, svc.Recompute(ctx, "u1", []time.Time{day(5), day(6), day(7), day(8), day(9)}, today))

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.LongestStreak, resp.CurrentStreak)
}

func TestConcurrentApplyCompletionsDoNotLoseUpdates(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(1)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		date := day(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.ApplyCompletion(ctx, "u1", date, today))
		}()
	}
	wg.Wait()

	resp, err := svc.GetStreak(ctx, "u1", today)
	require.NoError(t, err)

	// Whichever order the two days landed in, both must be reflected:
	// the last workout date is the later day and the counters are
	// consistent (2 if the earlier day arrived first, otherwise 1).
	require.NotNil(t, resp.LastWorkoutDate)
	assert.True(t, resp.LastWorkoutDate.Equal(day(1)))
	assert.GreaterOrEqual(t, resp.CurrentStreak, 1)
	assert.LessOrEqual(t, resp.CurrentStreak, 2)
	assert.GreaterOrEqual(t, resp.LongestStreak, resp.CurrentStreak)
}

func TestConcurrentUsersAreIndependent(t *testing.T) {
	svc, _ := newTestStreakService()
	ctx := context.Background()
	today := day(0)

	var wg sync.WaitGroup
	users := []string{"u1", "u2", "u3", "u4"}
	for _, u := range users {
		wg.Add(1)
		u := u
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.ApplyCompletion(ctx, u, day(0), today))
		}()
	}
	wg.Wait()

	for _, u := range users {
		resp, err := svc.GetStreak(ctx, u, today)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.CurrentStreak, "user %s", u)
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, daysBetween(day(0), day(0)))
	assert.Equal(t, 1, daysBetween(day(0), day(1)))
	assert.Equal(t, 3, daysBetween(day(0), day(3)))
	assert.Equal(t, -2, daysBetween(day(2), day(0)))

	// Time-of-day never changes the whole-day distance.
	morning := time.Date(2025, 3, 10, 6, 15, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 11, 23, 45, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(morning, evening))
}
