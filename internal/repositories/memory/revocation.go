package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"shopauth/internal/repositories"
)

// RevocationStore: denylist в памяти; просроченные ключи удаляются лениво при чтении.
type RevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewRevocationStore(now func() time.Time) *RevocationStore {
	if now == nil {
		now = time.Now
	}
	return &RevocationStore{entries: make(map[string]time.Time), now: now}
}

func (s *RevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return repositories.ErrInvalidTTL
	}
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return errors.New("jti is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[jti] = s.now().Add(ttl)
	return nil
}

func (s *RevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jti = strings.TrimSpace(jti)
	exp, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.entries, jti)
		return false, nil
	}
	return true, nil
}
