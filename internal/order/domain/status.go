package domain

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/retailku/order-admin/pkg/httputil"
)

// Shipping statuses in presentation order.
const (
	StatusProcessing  = "Sedang di proses"
	StatusPacking     = "Sedang di kemas"
	StatusInTransit   = "Dalam perjalanan"
	StatusDelivered   = "Telah sampai"
	StatusFailed      = "Pengiriman gagal"
	StatusUnreachable = "Pelanggan tidak bisa di hubungi"
)

// StatusValidatorTag is the validator tag accepting only vocabulary values.
const StatusValidatorTag = "order_status"

var statuses = []string{
	StatusProcessing,
	StatusPacking,
	StatusInTransit,
	StatusDelivered,
	StatusFailed,
	StatusUnreachable,
}

// Statuses returns the vocabulary in presentation order.
func Statuses() []string {
	return append([]string(nil), statuses...)
}

// IsValidStatus reports whether s is part of the vocabulary.
func IsValidStatus(s string) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

var registerOnce sync.Once

// RegisterValidation installs the order_status rule on the shared validator.
func RegisterValidation() {
	registerOnce.Do(func() {
		err := httputil.RegisterCustomValidation(StatusValidatorTag, func(fl validator.FieldLevel) bool {
			return IsValidStatus(fl.Field().String())
		})
		if err != nil {
			panic(err)
		}
	})
}
