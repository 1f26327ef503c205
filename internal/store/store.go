// Package store defines persistence interfaces over the document stores.
// Implementations: store/mongodb for production, store/memory for tests.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fashionhub-backend/internal/domain"
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
	// UpdateCart replaces the user's embedded cart array.
	UpdateCart(ctx context.Context, userID primitive.ObjectID, cart []domain.CartItem) error
}

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AdjustStock applies a signed delta to the stock counter. There is no
	// compare-and-swap here; concurrent cart mutations can race (see the
	// design notes).
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) error
}

type OrderStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	// FindByUser returns the user's orders, newest first.
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error)
	Insert(ctx context.Context, order *domain.Order) error
	// Update persists status, payment status and payment details. Items,
	// amounts and the shipping address are immutable after creation.
	Update(ctx context.Context, order *domain.Order) error
}
