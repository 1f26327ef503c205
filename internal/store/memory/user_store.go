// Package memory holds mutex-guarded map implementations of the store
// interfaces, used by tests and local development.
package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fashionhub-backend/internal/domain"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[primitive.ObjectID]*domain.User)}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Cart = append([]domain.CartItem(nil), u.Cart...)
	return &c
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) FindAll(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, *copyUser(user))
	}
	return users, nil
}

func (s *UserStore) Insert(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *UserStore) UpdateCart(ctx context.Context, userID primitive.ObjectID, cart []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Cart = append([]domain.CartItem(nil), cart...)
	return nil
}
