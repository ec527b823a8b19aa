package repository

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/retailku/order-admin/internal/order/domain"
	"github.com/retailku/order-admin/pkg/storage"
)

// Document field names as written by the storefront.
const (
	fieldCreatedAt     = "createdAt"
	fieldPaymentMethod = "paymentMethod"
	fieldTotalQuantity = "totalQuantity"
	fieldTotalPrice    = "totalPrice"
	fieldUserID        = "userId"
	fieldStatus        = "status"
	fieldCartItems     = "cartItems"
)

// decodeOrder never fails: missing or mistyped fields become zero values.
func decodeOrder(rec storage.Record) domain.Order {
	f := rec.Fields
	o := domain.Order{
		ID:            rec.ID,
		CreatedAt:     asTimestamp(f[fieldCreatedAt]),
		PaymentMethod: asString(f[fieldPaymentMethod]),
		TotalQuantity: asInt64(f[fieldTotalQuantity]),
		TotalPrice:    asFloat64(f[fieldTotalPrice]),
		UserID:        asString(f[fieldUserID]),
		Status:        asString(f[fieldStatus]),
	}

	if items, ok := f[fieldCartItems].([]any); ok {
		o.CartItems = make([]domain.CartItem, 0, len(items))
		for _, raw := range items {
			m, ok := raw.(map[string]any)
			if !ok {
				m = map[string]any{}
			}
			item := domain.CartItem{
				ProductID: asString(m["productId"]),
				Quantity:  asInt64(m["quantity"]),
				Name:      asString(m["name"]),
			}
			if p, ok := m["price"]; ok && p != nil {
				price := asFloat64(p)
				item.Price = &price
			}
			o.CartItems = append(o.CartItems, item)
		}
	}
	return o
}

func decodeUser(rec storage.Record) *domain.User {
	f := rec.Fields
	return &domain.User{
		ID:        rec.ID,
		Details:   asString(f["details"]),
		Kecamatan: asString(f["kecamatan"]),
		Kota:      asString(f["kota"]),
		Provinsi:  asString(f["provinsi"]),
		Negara:    asString(f["negara"]),
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(finite(t))
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int64(finite(f))
		}
	}
	return 0
}

// asFloat64 maps NaN and infinities to 0; neither survives formatting or JSON.
func asFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case int64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return finite(f)
		}
	}
	return 0
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// asTimestamp accepts a time.Time, a {seconds, nanoseconds} map (with or
// without leading underscores), an RFC 3339 string or Unix seconds.
func asTimestamp(v any) domain.Timestamp {
	switch t := v.(type) {
	case time.Time:
		return domain.TimestampOf(t)
	case map[string]any:
		secs, ok := t["seconds"]
		if !ok {
			secs = t["_seconds"]
		}
		nanos, ok := t["nanoseconds"]
		if !ok {
			nanos = t["_nanoseconds"]
		}
		return domain.Timestamp{Seconds: asInt64(secs), Nanoseconds: asInt64(nanos)}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return domain.TimestampOf(parsed)
		}
	case int64:
		return domain.Timestamp{Seconds: t}
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return domain.Timestamp{}
		}
		secs, frac := math.Modf(t)
		return domain.Timestamp{Seconds: int64(secs), Nanoseconds: int64(math.Round(frac * 1e9))}
	}
	return domain.Timestamp{}
}
