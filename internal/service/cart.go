package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fashionhub-backend/internal/domain"
	"fashionhub-backend/internal/store"
)

// CartService mutates the user's embedded cart and the product stock counter
// together. Stock is decremented on add and restored on remove, so an item in
// a cart is a soft reservation. The two writes are not atomic: concurrent
// mutations of the same product can race (see DESIGN.md).
type CartService struct {
	users    store.UserStore
	products store.ProductStore
	logger   zerolog.Logger
}

func NewCartService(users store.UserStore, products store.ProductStore, logger zerolog.Logger) *CartService {
	return &CartService{
		users:    users,
		products: products,
		logger:   logger,
	}
}

// AddToCart applies a signed quantity delta to the user's cart line for the
// product. A delta of 0 means 1. A net-positive delta that exceeds the
// remaining stock fails with ErrInsufficientStock and mutates nothing. If the
// resulting line quantity drops to zero or below, the line is removed and its
// previous quantity is returned to stock, exactly as RemoveFromCart would.
func (s *CartService) AddToCart(ctx context.Context, userID, productID primitive.ObjectID, quantity int) ([]domain.PopulatedCartItem, error) {
	if quantity == 0 {
		quantity = 1
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if quantity > 0 && quantity > product.Stock {
		return nil, fmt.Errorf("%w: requested %d, only %d available",
			domain.ErrInsufficientStock, quantity, product.Stock)
	}

	idx := -1
	for i, item := range user.Cart {
		if item.Product == productID {
			idx = i
			break
		}
	}

	stockDelta := -quantity
	switch {
	case idx == -1 && quantity < 0:
		// Negative delta for a product that is not in the cart: nothing to
		// remove, nothing to restore.
		return s.populate(ctx, user.Cart)
	case idx == -1:
		user.Cart = append(user.Cart, domain.CartItem{Product: productID, Quantity: quantity})
	case user.Cart[idx].Quantity+quantity <= 0:
		// The line disappears; return its full previous quantity to stock.
		stockDelta = user.Cart[idx].Quantity
		user.Cart = append(user.Cart[:idx], user.Cart[idx+1:]...)
	default:
		user.Cart[idx].Quantity += quantity
	}

	if err := s.users.UpdateCart(ctx, userID, user.Cart); err != nil {
		return nil, err
	}
	if err := s.products.AdjustStock(ctx, productID, stockDelta); err != nil {
		// Cart saved but stock not adjusted; surfaced, not compensated.
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID.Hex()).
		Str("product_id", productID.Hex()).
		Int("quantity", quantity).
		Msg("cart updated")

	return s.populate(ctx, user.Cart)
}

// RemoveFromCart deletes the product's cart line and returns its full
// quantity to stock. Removing a product that is not in the cart is a no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID primitive.ObjectID) ([]domain.PopulatedCartItem, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, item := range user.Cart {
		if item.Product == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return s.populate(ctx, user.Cart)
	}

	restored := user.Cart[idx].Quantity
	user.Cart = append(user.Cart[:idx], user.Cart[idx+1:]...)

	if err := s.users.UpdateCart(ctx, userID, user.Cart); err != nil {
		return nil, err
	}
	if err := s.products.AdjustStock(ctx, productID, restored); err != nil {
		return nil, err
	}

	return s.populate(ctx, user.Cart)
}

// ViewCart returns the cart with each line's product joined in live.
func (s *CartService) ViewCart(ctx context.Context, userID primitive.ObjectID) ([]domain.PopulatedCartItem, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, user.Cart)
}

func (s *CartService) populate(ctx context.Context, cart []domain.CartItem) ([]domain.PopulatedCartItem, error) {
	populated := make([]domain.PopulatedCartItem, 0, len(cart))
	for _, item := range cart {
		product, err := s.products.FindByID(ctx, item.Product)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				// Product was deleted from the catalog after it entered the
				// cart; skip the stale line.
				continue
			}
			return nil, err
		}
		populated = append(populated, domain.PopulatedCartItem{
			Product:  product,
			Quantity: item.Quantity,
		})
	}
	return populated, nil
}
