package services

import (
	"context"
	"sync"

	"github.com/DharuvSharma/fitness-minder/internal/streak"
)

// MemoryStreakStore keeps streak state in a process-local map. Used
// by tests and for running the API without a database.
type MemoryStreakStore struct {
	mu      sync.RWMutex
	streaks map[string]streak.Streak
}

func NewMemoryStreakStore() *MemoryStreakStore {
	return &MemoryStreakStore{streaks: make(map[string]streak.Streak)}
}

func (s *MemoryStreakStore) Get(_ context.Context, userID string) (*streak.Streak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.streaks[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *MemoryStreakStore) Put(_ context.Context, st *streak.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streaks[st.UserID] = *st
	return nil
}
