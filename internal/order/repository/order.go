package repository

import (
	"context"

	"github.com/retailku/order-admin/internal/order/domain"
	"github.com/retailku/order-admin/pkg/errors"
	"github.com/retailku/order-admin/pkg/storage"
)

// OrderRepository reads orders and user profiles from the document store
// and writes single-order changes back.
type OrderRepository struct {
	gw     storage.Gateway
	orders string
	users  string
}

// NewOrderRepository creates a repository over the named collections.
func NewOrderRepository(gw storage.Gateway, ordersCollection, usersCollection string) *OrderRepository {
	return &OrderRepository{gw: gw, orders: ordersCollection, users: usersCollection}
}

// ListOrders returns every order in store order.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	records, err := r.gw.ListAll(ctx, r.orders)
	if err != nil {
		return nil, mapErr(err)
	}

	orders := make([]domain.Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, decodeOrder(rec))
	}
	return orders, nil
}

// ListUsers returns all user profiles keyed by id.
func (r *OrderRepository) ListUsers(ctx context.Context) (map[string]*domain.User, error) {
	records, err := r.gw.ListAll(ctx, r.users)
	if err != nil {
		return nil, mapErr(err)
	}

	users := make(map[string]*domain.User, len(records))
	for _, rec := range records {
		users[rec.ID] = decodeUser(rec)
	}
	return users, nil
}

// UpdateStatus writes only the status field of one order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	if err := r.gw.UpdatePartial(ctx, r.orders, orderID, map[string]any{fieldStatus: status}); err != nil {
		return mapErr(err)
	}
	return nil
}

// Delete removes one order document.
func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	if err := r.gw.DeleteByID(ctx, r.orders, orderID); err != nil {
		return mapErr(err)
	}
	return nil
}

// Health reports the store status.
func (r *OrderRepository) Health(ctx context.Context) map[string]string {
	return r.gw.Health(ctx)
}

func mapErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errors.NotFound("order")
	}
	return errors.Store(err)
}
