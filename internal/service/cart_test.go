package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fashionhub-backend/internal/domain"
	"fashionhub-backend/internal/store/memory"
)

type cartFixture struct {
	cart     *CartService
	users    *memory.UserStore
	products *memory.ProductStore
	user     *domain.User
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	users := memory.NewUserStore()
	products := memory.NewProductStore()

	user := &domain.User{
		Name:      "Asha",
		Email:     "asha@example.com",
		Role:      domain.RoleUser,
		Cart:      []domain.CartItem{},
		CreatedAt: time.Now(),
	}
	require.NoError(t, users.Insert(context.Background(), user))

	return &cartFixture{
		cart:     NewCartService(users, products, zerolog.Nop()),
		users:    users,
		products: products,
		user:     user,
	}
}

func (f *cartFixture) seedProduct(t *testing.T, price float64, stock int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Name:        "Linen Shirt",
		Description: "Slim fit",
		Price:       price,
		Stock:       stock,
	}
	require.NoError(t, f.products.Insert(context.Background(), product))
	return product
}

func (f *cartFixture) stock(t *testing.T, id primitive.ObjectID) int {
	t.Helper()
	product, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return product.Stock
}

func TestAddToCartDecrementsStock(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 49.99, 10)

	cart, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)
	assert.Equal(t, product.ID, cart[0].Product.ID)
	assert.Equal(t, 7, f.stock(t, product.ID))
}

func TestAddToCartAccumulatesExistingLine(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 20, 10)

	_, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 2)
	require.NoError(t, err)
	cart, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantity)
	assert.Equal(t, 5, f.stock(t, product.ID))
}

func TestAddToCartDefaultQuantityIsOne(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 20, 4)

	cart, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 0)
	require.NoError(t, err)

	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.Equal(t, 3, f.stock(t, product.ID))
}

func TestAddToCartInsufficientStock(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 100, 5)

	// First add succeeds: 3 of 5.
	cart, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 2, f.stock(t, product.ID))

	// Second add of 3 exceeds the remaining 2; nothing may change.
	_, err = f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 2, f.stock(t, product.ID))
	user, err := f.users.FindByID(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, user.Cart, 1)
	assert.Equal(t, 3, user.Cart[0].Quantity)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.cart.AddToCart(context.Background(), f.user.ID, primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAddToCartNegativeDeltaReducesLine(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 20, 10)

	_, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 5)
	require.NoError(t, err)
	cart, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, -2)
	require.NoError(t, err)

	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)
	assert.Equal(t, 7, f.stock(t, product.ID))
}

func TestAddToCartDeltaToZeroDeletesLine(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 20, 10)

	_, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 3)
	require.NoError(t, err)
	cart, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, -3)
	require.NoError(t, err)

	assert.Empty(t, cart)
	assert.Equal(t, 10, f.stock(t, product.ID))
}

func TestAddToCartNegativeDeltaWithoutLineIsNoop(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 20, 10)

	cart, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, -2)
	require.NoError(t, err)

	assert.Empty(t, cart)
	assert.Equal(t, 10, f.stock(t, product.ID))
}

func TestRemoveFromCartRestoresStockAndIsIdempotent(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 20, 10)

	_, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 6, f.stock(t, product.ID))

	cart, err := f.cart.RemoveFromCart(context.Background(), f.user.ID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
	assert.Equal(t, 10, f.stock(t, product.ID))

	// Second remove: no error, no stock change.
	cart, err = f.cart.RemoveFromCart(context.Background(), f.user.ID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
	assert.Equal(t, 10, f.stock(t, product.ID))
}

func TestViewCartIsLiveJoin(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 50, 10)

	_, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 1)
	require.NoError(t, err)

	// Catalog price changes after the item entered the cart; the view shows
	// the current price.
	updated, err := f.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	updated.Price = 75
	require.NoError(t, f.products.Update(context.Background(), updated))

	cart, err := f.cart.ViewCart(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 75.0, cart[0].Product.Price)
}

func TestViewCartSkipsDeletedProducts(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, 50, 10)

	_, err := f.cart.AddToCart(context.Background(), f.user.ID, product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(context.Background(), product.ID))

	cart, err := f.cart.ViewCart(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}
