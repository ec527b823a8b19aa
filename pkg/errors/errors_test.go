package errors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retailku/order-admin/pkg/i18n"
)

func TestNotFound_Localizes(t *testing.T) {
	err := NotFound("order")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, "Order not found", err.Message)
	assert.Equal(t, "Pesanan tidak ditemukan", err.Localize(context.Background()))
	assert.True(t, Is(err, ErrNotFound))
}

func TestStore_WrapsCause(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := Store(cause)

	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.Equal(t, "STORE_ERROR", err.Code)
	assert.True(t, Is(err, ErrStore))
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestInvalidStatus(t *testing.T) {
	err := InvalidStatus("Hilang")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	assert.Equal(t, `Unknown status "Hilang"`, err.LocalizeWith(i18n.NewLocalizer(i18n.LocaleEnglish)))
	assert.Equal(t, `Status "Hilang" tidak dikenal`, err.LocalizeWith(i18n.NewLocalizer(i18n.LocaleIndonesian)))
}

func TestViewLoading(t *testing.T) {
	err := ViewLoading()

	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, "VIEW_LOADING", err.Code)
	assert.True(t, Is(err, ErrViewLoading))
}

func TestAs(t *testing.T) {
	var wrapped error = Wrap(errors.New("boom"), "X", "x failed", http.StatusTeapot)

	var appErr *AppError
	assert.True(t, As(wrapped, &appErr))
	assert.Equal(t, http.StatusTeapot, appErr.StatusCode)
	assert.Equal(t, "x failed: boom", appErr.Error())
}

func TestLocalize_WithoutKeyUsesMessage(t *testing.T) {
	err := New("CUSTOM", "plain message", http.StatusBadRequest)
	assert.Equal(t, "plain message", err.Localize(context.Background()))
}
