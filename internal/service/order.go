package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fashionhub-backend/internal/domain"
	"fashionhub-backend/internal/store"
)

// OrderService converts cart snapshots into persisted orders, runs the
// simulated payment flow and drives the order status lifecycle. Order
// insertion and cart clearing are two sequential writes with no transaction
// around them.
type OrderService struct {
	orders   store.OrderStore
	users    store.UserStore
	products store.ProductStore
	verifier PaymentVerifier
	logger   zerolog.Logger

	// strictPricing replaces client-declared prices with live product prices
	// at creation time. Off by default: the client values are trusted
	// verbatim, matching the original behavior.
	strictPricing bool
}

func NewOrderService(orders store.OrderStore, users store.UserStore, products store.ProductStore,
	verifier PaymentVerifier, strictPricing bool, logger zerolog.Logger) *OrderService {
	return &OrderService{
		orders:        orders,
		users:         users,
		products:      products,
		verifier:      verifier,
		strictPricing: strictPricing,
		logger:        logger,
	}
}

// CreateOrderResult is the creation response payload. Payment is only set
// for UPI orders; RequiresPayment is only set for card orders.
type CreateOrderResult struct {
	OrderID         primitive.ObjectID
	Message         string
	PaymentMethod   domain.PaymentMethod
	RequiresPayment bool
	Payment         *UPIPayment
}

// CreateOrder validates and persists a new order, then clears the user's
// cart. The cart is cleared for every payment method as soon as the order
// exists, whether or not payment has completed.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, items []domain.OrderItem,
	address *domain.ShippingAddress, method domain.PaymentMethod, totalAmount float64) (*CreateOrderResult, error) {

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}
	if address == nil || method == "" || totalAmount == 0 {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}

	normalized := make([]domain.OrderItem, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		normalized[i] = item
	}

	if s.strictPricing {
		totalAmount = 0
		for i, item := range normalized {
			product, err := s.products.FindByID(ctx, item.Product)
			if err != nil {
				return nil, err
			}
			normalized[i].Price = product.Price
			totalAmount += product.Price * float64(item.Quantity)
		}
	}

	order := &domain.Order{
		UserID:          userID,
		Items:           normalized,
		ShippingAddress: *address,
		PaymentMethod:   method,
		TotalAmount:     totalAmount,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	result := &CreateOrderResult{PaymentMethod: method}

	switch method {
	case domain.PaymentMethodUPI:
		payment, err := generateUPITransaction(totalAmount)
		if err != nil {
			return nil, err
		}
		order.PaymentDetails = domain.PaymentDetails{
			TransactionID: payment.TransactionID,
			UPIID:         payment.UPIID,
			Timestamp:     payment.Timestamp,
		}
		result.Payment = payment
		result.Message = "Order created. Awaiting UPI payment confirmation."

	case domain.PaymentMethodCard:
		result.RequiresPayment = true
		result.Message = "Order created. Please complete card payment."

	case domain.PaymentMethodCOD:
		// Payment is deferred to delivery; the order itself is confirmed.
		order.Status = domain.OrderStatusConfirmed
		result.Message = "Order placed successfully! You can pay at delivery."

	default:
		return nil, fmt.Errorf("%w: invalid payment method", domain.ErrValidation)
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	result.OrderID = order.ID

	if err := s.users.UpdateCart(ctx, userID, nil); err != nil {
		// The order exists but the cart survived; surfaced, not rolled back.
		return nil, fmt.Errorf("order created but failed to clear cart: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.Hex()).
		Str("user_id", userID.Hex()).
		Str("payment_method", string(method)).
		Float64("total_amount", totalAmount).
		Msg("order created")

	return result, nil
}

// GetUserOrders returns the user's orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// GetOrder fetches one order, enforcing ownership.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID primitive.ObjectID) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// UpdateStatus sets any of the five known statuses. Transitions are not
// restricted to adjacent states; any listed status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, status)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID.Hex()).
		Str("status", string(status)).
		Msg("order status updated")

	return order, nil
}

// CancelOrder cancels an order on behalf of its owner. Only pending and
// confirmed orders can be cancelled; the payment status is left untouched.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID primitive.ObjectID) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if !order.Status.Cancellable() {
		return nil, domain.ErrInvalidState
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// VerifyUPIPayment is the gateway callback handler. On a completed claim the
// order is confirmed and the payment descriptor updated; anything else fails
// the payment and cancels the order.
func (s *OrderService) VerifyUPIPayment(ctx context.Context, orderID primitive.ObjectID, transactionID, claimedStatus string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	verified, err := s.verifier.VerifyUPI(ctx, transactionID, order.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("payment verification error: %w", err)
	}

	order.UpdatedAt = time.Now()
	if verified && claimedStatus == string(domain.PaymentStatusCompleted) {
		order.PaymentStatus = domain.PaymentStatusCompleted
		order.Status = domain.OrderStatusConfirmed
		order.PaymentDetails.TransactionID = transactionID
		order.PaymentDetails.Timestamp = time.Now()
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}

	order.PaymentStatus = domain.PaymentStatusFailed
	order.Status = domain.OrderStatusCancelled
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Warn().
		Str("order_id", orderID.Hex()).
		Str("claimed_status", claimedStatus).
		Msg("UPI payment verification failed")

	return order, domain.ErrPaymentVerification
}
