package memory

import (
	"context"
	"sync"
	"time"

	"shopauth/internal/models"
	"shopauth/internal/repositories"
)

type CodeStore struct {
	mu     sync.Mutex
	nextID int64
	codes  map[int64]models.VerificationCode
}

func NewCodeStore() *CodeStore {
	return &CodeStore{codes: make(map[int64]models.VerificationCode)}
}

func (s *CodeStore) Create(_ context.Context, code *models.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	code.ID = s.nextID
	s.codes[code.ID] = *code
	return nil
}

func (s *CodeStore) LatestByUserID(_ context.Context, userID int) (*models.VerificationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *models.VerificationCode
	for _, c := range s.codes {
		if c.UserID != userID {
			continue
		}
		if latest == nil || c.ID > latest.ID {
			cp := c
			latest = &cp
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	return latest, nil
}

func (s *CodeStore) MarkUsed(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.codes[id]
	if !ok || !c.Validation {
		return repositories.ErrNotFound
	}
	c.Validation = false
	s.codes[id] = c
	return nil
}

func (s *CodeStore) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, c := range s.codes {
		if c.ExpirationTime.Before(cutoff) {
			delete(s.codes, id)
			n++
		}
	}
	return n, nil
}

// Len: количество хранимых кодов (для тестов очистки).
func (s *CodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}
