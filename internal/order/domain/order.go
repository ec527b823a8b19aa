package domain

import (
	"strings"
	"time"
)

// Order is one customer purchase as kept in the orders collection.
type Order struct {
	ID            string     `json:"id"`
	CreatedAt     Timestamp  `json:"created_at"`
	PaymentMethod string     `json:"payment_method"`
	TotalQuantity int64      `json:"total_quantity"`
	TotalPrice    float64    `json:"total_price"`
	UserID        string     `json:"user_id"`
	Status        string     `json:"status"`
	CartItems     []CartItem `json:"cart_items"`
}

// CartItem is a line item. Name and Price are optional and carried through
// as stored.
type CartItem struct {
	ProductID string   `json:"product_id"`
	Quantity  int64    `json:"quantity"`
	Name      string   `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
}

// RowCount is the number of table rows the order occupies. An order without
// cart items still takes one row.
func (o *Order) RowCount() int {
	if len(o.CartItems) == 0 {
		return 1
	}
	return len(o.CartItems)
}

// User is the address profile of a customer, keyed by Order.UserID.
type User struct {
	ID        string `json:"id"`
	Details   string `json:"details"`
	Kecamatan string `json:"kecamatan"`
	Kota      string `json:"kota"`
	Provinsi  string `json:"provinsi"`
	Negara    string `json:"negara"`
}

// Address joins the address fragments with ", ". A nil user yields the
// empty join ", , , , ".
func (u *User) Address() string {
	if u == nil {
		return strings.Join(make([]string, 5), ", ")
	}
	return strings.Join([]string{u.Details, u.Kecamatan, u.Kota, u.Provinsi, u.Negara}, ", ")
}

// Timestamp is a (seconds, nanoseconds) instant as hosted document stores
// expose it.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

// TimestampOf converts a time.Time.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int64(t.Nanosecond())}
}

// Time returns the instant in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, ts.Nanoseconds).UTC()
}

// IsZero reports whether the timestamp was never set.
func (ts Timestamp) IsZero() bool {
	return ts.Seconds == 0 && ts.Nanoseconds == 0
}

// Row is one rendered table line. Order-level cells are drawn only when
// First is set, spanning Span rows. Item is nil for an order without cart
// items.
type Row struct {
	Order *Order
	Item  *CartItem
	First bool
	Span  int
}

// ExpandRows flattens orders into table rows, one per cart item.
func ExpandRows(orders []Order) []Row {
	n := 0
	for i := range orders {
		n += orders[i].RowCount()
	}

	rows := make([]Row, 0, n)
	for i := range orders {
		o := &orders[i]
		span := o.RowCount()
		if len(o.CartItems) == 0 {
			rows = append(rows, Row{Order: o, First: true, Span: span})
			continue
		}
		for j := range o.CartItems {
			rows = append(rows, Row{Order: o, Item: &o.CartItems[j], First: j == 0, Span: span})
		}
	}
	return rows
}
