package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashionhub-backend/internal/api/handler"
	"fashionhub-backend/internal/config"
	"fashionhub-backend/internal/domain"
	"fashionhub-backend/internal/service"
	"fashionhub-backend/internal/store/memory"
)

type testServer struct {
	router   *gin.Engine
	products *memory.ProductStore
	users    *memory.UserStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := memory.NewUserStore()
	products := memory.NewProductStore()
	orders := memory.NewOrderStore()
	logger := zerolog.Nop()

	cfg := &config.Config{
		Port:        "0",
		Auth:        config.AuthConfig{JWTSecret: "test-secret", AdminEmail: "admin@fashionhub.com"},
		CORSOrigins: []string{"*"},
	}

	authService := service.NewAuthService(users, []byte(cfg.Auth.JWTSecret), cfg.Auth.AdminEmail, logger)
	cartService := service.NewCartService(users, products, logger)
	orderService := service.NewOrderService(orders, users, products,
		service.AlwaysSucceedVerifier{}, cfg.StrictPricing, logger)

	router := NewRouter(cfg, logger, Handlers{
		User:    handler.NewUserHandler(authService),
		Product: handler.NewProductHandler(products),
		Cart:    handler.NewCartHandler(cartService),
		Order:   handler.NewOrderHandler(orderService),
	}, authService, users)

	return &testServer{router: router, products: products, users: users}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func (s *testServer) registerAndLogin(t *testing.T, name, email string) string {
	t.Helper()

	rec, _ := s.do(t, http.MethodPost, "/api/v1/user/register", "", gin.H{
		"name": name, "email": email, "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/user/login", "", gin.H{
		"email": email, "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *testServer) seedProduct(t *testing.T, price float64, stock int) *domain.Product {
	t.Helper()
	product := &domain.Product{Name: "Denim Jacket", Description: "Blue", Price: price, Stock: stock}
	require.NoError(t, s.products.Insert(context.Background(), product))
	return product
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "active", resp["status"])
}

func TestCartRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/cart/view", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, resp["success"])
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "Asha", "asha@example.com")
	product := s.seedProduct(t, 100, 5)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/cart/add", token, gin.H{
		"productId": product.ID.Hex(), "quantity": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := resp["cart"].([]any)
	require.Len(t, cart, 1)
	assert.Equal(t, 3.0, cart[0].(map[string]any)["quantity"])

	stored, err := s.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Stock)

	// Only 2 left; asking for 3 more must fail without changing anything.
	rec, _ = s.do(t, http.MethodPost, "/api/v1/cart/add", token, gin.H{
		"productId": product.ID.Hex(), "quantity": 3,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err = s.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Stock)

	rec, resp = s.do(t, http.MethodPost, "/api/v1/cart/remove", token, gin.H{
		"productId": product.ID.Hex(),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp["cart"])

	stored, err = s.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock)
}

func TestOrderCODFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "Asha", "asha@example.com")
	product := s.seedProduct(t, 100, 5)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/cart/add", token, gin.H{
		"productId": product.ID.Hex(), "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/order/create", token, gin.H{
		"items": []gin.H{{"product": product.ID.Hex(), "quantity": 2, "price": 100}},
		"shippingAddress": gin.H{
			"name": "Asha", "email": "asha@example.com", "phone": "9999999999",
			"address": "12 MG Road", "city": "Bengaluru", "state": "Karnataka", "postalCode": "560001",
		},
		"paymentMethod": "cod",
		"totalAmount":   200,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID, _ := resp["orderId"].(string)
	require.NotEmpty(t, orderID)

	rec, resp = s.do(t, http.MethodGet, "/api/v1/cart/view", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp["cart"], "cart is cleared on order creation")

	rec, resp = s.do(t, http.MethodGet, "/api/v1/order/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := resp["order"].(map[string]any)
	assert.Equal(t, "confirmed", order["status"])
	assert.Equal(t, "pending", order["paymentStatus"])
}

func TestOrderUPIFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "Asha", "asha@example.com")
	product := s.seedProduct(t, 100, 5)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/order/create", token, gin.H{
		"items":           []gin.H{{"product": product.ID.Hex(), "quantity": 1, "price": 100}},
		"shippingAddress": gin.H{"name": "Asha", "address": "12 MG Road", "city": "Bengaluru"},
		"paymentMethod":   "upi",
		"totalAmount":     100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	payment := resp["paymentDetails"].(map[string]any)
	assert.Len(t, payment["referenceId"], 16)
	assert.Equal(t, "fashionhub@upi", payment["upiId"])
	orderID := resp["orderId"].(string)

	// Gateway callback does not carry a bearer token.
	rec, resp = s.do(t, http.MethodPost, "/api/v1/order/verify-upi", "", gin.H{
		"transactionId": payment["transactionId"],
		"orderId":       orderID,
		"status":        "completed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", resp["status"])
}

func TestOrderOwnershipForbidden(t *testing.T) {
	s := newTestServer(t)
	asha := s.registerAndLogin(t, "Asha", "asha@example.com")
	ravi := s.registerAndLogin(t, "Ravi", "ravi@example.com")
	product := s.seedProduct(t, 100, 5)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/order/create", asha, gin.H{
		"items":           []gin.H{{"product": product.ID.Hex(), "quantity": 1, "price": 100}},
		"shippingAddress": gin.H{"name": "Asha"},
		"paymentMethod":   "cod",
		"totalAmount":     100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := resp["orderId"].(string)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/order/"+orderID, ravi, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/order/%s/cancel", orderID), ravi, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminGate(t *testing.T) {
	s := newTestServer(t)
	user := s.registerAndLogin(t, "Asha", "asha@example.com")
	admin := s.registerAndLogin(t, "Root", "admin@fashionhub.com")

	body := gin.H{"name": "Saree", "description": "Silk", "price": 1500, "stock": 3}

	rec, _ := s.do(t, http.MethodPost, "/api/v1/product/", user, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/product/", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	productID := resp["product"].(map[string]any)["_id"].(string)

	// Status updates are admin-only as well.
	rec, resp = s.do(t, http.MethodPost, "/api/v1/order/create", user, gin.H{
		"items":           []gin.H{{"product": productID, "quantity": 1, "price": 1500}},
		"shippingAddress": gin.H{"name": "Asha"},
		"paymentMethod":   "cod",
		"totalAmount":     1500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := resp["orderId"].(string)

	rec, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/order/%s/status", orderID), user, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/order/%s/status", orderID), admin, gin.H{"status": "shipped"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", resp["order"].(map[string]any)["status"])

	rec, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/order/%s/status", orderID), admin, gin.H{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
