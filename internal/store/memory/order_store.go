package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fashionhub-backend/internal/domain"
)

type OrderStore struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]*domain.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[primitive.ObjectID]*domain.Order)}
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return &c
}

func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (s *OrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []domain.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			orders = append(orders, *copyOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *OrderStore) Insert(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (s *OrderStore) Update(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	existing.Status = order.Status
	existing.PaymentStatus = order.PaymentStatus
	existing.PaymentDetails = order.PaymentDetails
	existing.UpdatedAt = order.UpdatedAt
	return nil
}
