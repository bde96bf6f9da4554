// Package memory holds in-process twins of the SQL and Redis repositories,
// used by tests and by single-node runs without Postgres/Redis.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"shopauth/internal/models"
	"shopauth/internal/repositories"
)

type UserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int]models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		switch {
		case existing.Email == user.Email:
			return fmt.Errorf("%w: email", repositories.ErrConflict)
		case existing.Username == user.Username:
			return fmt.Errorf("%w: username", repositories.ErrConflict)
		case existing.Phone != nil && user.Phone != nil && *existing.Phone == *user.Phone:
			return fmt.Errorf("%w: phone_number", repositories.ErrConflict)
		}
	}

	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = copyUser(*user)
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := copyUser(u)
	return &cp, nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.TrimSpace(username)
	for _, u := range s.users {
		if u.Username == username {
			cp := copyUser(u)
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *UserStore) UpdatePassword(_ context.Context, userID int, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.PasswordHash = hash
	s.users[userID] = u
	return nil
}

// Seed кладёт пользователя с заданным id (для тестов и dev-данных).
func (s *UserStore) Seed(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID > s.nextID {
		s.nextID = u.ID
	}
	s.users[u.ID] = copyUser(u)
}

// SetActive: тестовый помощник для деактивации пользователя.
func (s *UserStore) SetActive(userID int, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID]; ok {
		u.IsActive = active
		s.users[userID] = u
	}
}

func copyUser(u models.User) models.User {
	if u.Phone != nil {
		p := *u.Phone
		u.Phone = &p
	}
	return u
}
