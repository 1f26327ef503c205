package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fashionhub-backend/internal/api/middleware"
	"fashionhub-backend/internal/service"
)

type CartHandler struct {
	cart *service.CartService
}

func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	// Quantity is a signed delta; the cart page sends negatives to step a
	// line's quantity down. Omitted means 1.
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Add(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
		return
	}

	cart, err := h.cart.AddToCart(c.Request.Context(), user.ID, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart})
}

type removeFromCartRequest struct {
	ProductID string `json:"productId"`
}

func (h *CartHandler) Remove(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req removeFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
		return
	}

	cart, err := h.cart.RemoveFromCart(c.Request.Context(), user.ID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart})
}

func (h *CartHandler) View(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cart, err := h.cart.ViewCart(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart})
}
