package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fashionhub-backend/internal/api/middleware"
	"fashionhub-backend/internal/domain"
	"fashionhub-backend/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemRequest struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type createOrderRequest struct {
	Items           []orderItemRequest      `json:"items"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	TotalAmount     float64                 `json:"totalAmount"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input"})
		return
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
			return
		}
		items = append(items, domain.OrderItem{
			Product:  productID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	result, err := h.orders.CreateOrder(c.Request.Context(), user.ID, items,
		req.ShippingAddress, domain.PaymentMethod(req.PaymentMethod), req.TotalAmount)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"success":       true,
		"message":       result.Message,
		"orderId":       result.OrderID,
		"paymentMethod": result.PaymentMethod,
	}
	if result.Payment != nil {
		resp["paymentDetails"] = result.Payment
	}
	if result.RequiresPayment {
		resp["requiresPayment"] = true
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orders, err := h.orders.GetUserOrders(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), orderID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled successfully", "order": order})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input"})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated", "order": order})
}

type verifyUPIRequest struct {
	TransactionID string `json:"transactionId"`
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
}

func (h *OrderHandler) VerifyUPI(c *gin.Context) {
	var req verifyUPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input"})
		return
	}

	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	order, err := h.orders.VerifyUPIPayment(c.Request.Context(), orderID, req.TransactionID, req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentVerification) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Payment verification failed",
				"orderId": order.ID,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment verified successfully",
		"orderId": order.ID,
		"status":  order.Status,
	})
}
