package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/retailku/order-admin/pkg/storage/memory"
)

// Default collection names used by fixtures
const (
	OrdersCollection = "orders"
	UsersCollection  = "user-info"
)

// CartItemFixture represents one line item of a test order
type CartItemFixture struct {
	ProductID string
	Quantity  int
}

// OrderFixture represents test order data
type OrderFixture struct {
	ID            string
	UserID        string
	CreatedAt     time.Time
	PaymentMethod string
	TotalQuantity int
	TotalPrice    float64
	Status        string
	Items         []CartItemFixture
}

// NewOrderFixture creates an order with one cart item and sensible defaults
func NewOrderFixture(id, userID string) OrderFixture {
	return OrderFixture{
		ID:            id,
		UserID:        userID,
		CreatedAt:     time.Date(2026, 10, 15, 3, 30, 0, 0, time.UTC),
		PaymentMethod: "Transfer Bank",
		TotalQuantity: 1,
		TotalPrice:    150000,
		Status:        "Sedang di proses",
		Items:         []CartItemFixture{{ProductID: "p-" + id, Quantity: 1}},
	}
}

// Fields returns the document as the hosted store keeps it, with createdAt
// as a {seconds, nanoseconds} pair.
func (o OrderFixture) Fields() map[string]any {
	items := make([]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"productId": it.ProductID,
			"quantity":  int64(it.Quantity),
		})
	}

	return map[string]any{
		"createdAt": map[string]any{
			"seconds":     o.CreatedAt.Unix(),
			"nanoseconds": int64(o.CreatedAt.Nanosecond()),
		},
		"paymentMethod": o.PaymentMethod,
		"totalQuantity": int64(o.TotalQuantity),
		"totalPrice":    o.TotalPrice,
		"userId":        o.UserID,
		"status":        o.Status,
		"cartItems":     items,
	}
}

// OrderFixtures creates n orders o1..on owned by userID
func OrderFixtures(n int, userID string) []OrderFixture {
	orders := make([]OrderFixture, n)
	for i := range orders {
		orders[i] = NewOrderFixture(fmt.Sprintf("o%d", i+1), userID)
	}
	return orders
}

// UserFixture represents test user profile data
type UserFixture struct {
	ID        string
	Details   string
	Kecamatan string
	Kota      string
	Provinsi  string
	Negara    string
}

// NewUserFixture creates a user with a complete address
func NewUserFixture(id string) UserFixture {
	return UserFixture{
		ID:        id,
		Details:   "Jl. Merdeka No. 1",
		Kecamatan: "Sumur Bandung",
		Kota:      "Bandung",
		Provinsi:  "Jawa Barat",
		Negara:    "Indonesia",
	}
}

// Fields returns the user profile document
func (u UserFixture) Fields() map[string]any {
	return map[string]any{
		"details":   u.Details,
		"kecamatan": u.Kecamatan,
		"kota":      u.Kota,
		"provinsi":  u.Provinsi,
		"negara":    u.Negara,
	}
}

// NewSeededStore returns a memory store holding the given orders and users
// in the default collections.
func NewSeededStore(t *testing.T, orders []OrderFixture, users []UserFixture) *memory.Store {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	for _, o := range orders {
		require.NoError(t, store.Put(ctx, OrdersCollection, o.ID, o.Fields()))
	}
	for _, u := range users {
		require.NoError(t, store.Put(ctx, UsersCollection, u.ID, u.Fields()))
	}
	return store
}
