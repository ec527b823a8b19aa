package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailku/order-admin/pkg/httputil"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1500000, "Rp1.500.000"},
		{0, "Rp0"},
		{999, "Rp999"},
		{1000, "Rp1.000"},
		{150000.4, "Rp150.000"},
		{150000.5, "Rp150.001"},
		{-1500, "-Rp1.500"},
		{-0.4, "Rp0"},
		{1234567890, "Rp1.234.567.890"},
		{math.NaN(), "Rp0"},
		{math.Inf(1), "Rp0"},
		{math.Inf(-1), "Rp0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRupiah(tt.amount))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	ts := TimestampOf(time.Date(2026, 10, 15, 3, 30, 0, 0, time.UTC))

	assert.Equal(t, "15/10/2026, 10.30.00", FormatTimestamp(ts, jakarta, "id"))
	assert.Equal(t, "10/15/2026, 10:30:00 AM", FormatTimestamp(ts, jakarta, "en"))
	assert.Equal(t, "15/10/2026, 10.30.00", FormatTimestamp(ts, jakarta, "fr"))
	assert.Equal(t, "15/10/2026, 03.30.00", FormatTimestamp(ts, nil, "id"))
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2026, 10, 15, 3, 30, 0, 250, time.UTC)
	ts := TimestampOf(at)

	assert.Equal(t, at.Unix(), ts.Seconds)
	assert.Equal(t, int64(250), ts.Nanoseconds)
	assert.True(t, ts.Time().Equal(at))
	assert.False(t, ts.IsZero())
	assert.True(t, Timestamp{}.IsZero())
}

func TestUser_Address(t *testing.T) {
	u := &User{Details: "Jl. Merdeka No. 1", Kecamatan: "Sumur Bandung", Kota: "Bandung", Provinsi: "Jawa Barat", Negara: "Indonesia"}
	assert.Equal(t, "Jl. Merdeka No. 1, Sumur Bandung, Bandung, Jawa Barat, Indonesia", u.Address())

	var missing *User
	assert.Equal(t, ", , , , ", missing.Address())
	assert.Equal(t, ", , , , ", (&User{}).Address())
}

func TestExpandRows(t *testing.T) {
	orders := []Order{
		{ID: "a", CartItems: []CartItem{{ProductID: "p1"}, {ProductID: "p2"}, {ProductID: "p3"}}},
		{ID: "b"},
		{ID: "c", CartItems: []CartItem{{ProductID: "p4"}}},
	}

	rows := ExpandRows(orders)
	require.Len(t, rows, 5)

	assert.True(t, rows[0].First)
	assert.Equal(t, 3, rows[0].Span)
	assert.False(t, rows[1].First)
	assert.False(t, rows[2].First)
	assert.Equal(t, "p3", rows[2].Item.ProductID)

	assert.Equal(t, "b", rows[3].Order.ID)
	assert.True(t, rows[3].First)
	assert.Nil(t, rows[3].Item)
	assert.Equal(t, 1, rows[3].Span)

	assert.Equal(t, "c", rows[4].Order.ID)
	assert.True(t, rows[4].First)
}

func TestStatuses(t *testing.T) {
	got := Statuses()
	assert.Equal(t, []string{
		"Sedang di proses",
		"Sedang di kemas",
		"Dalam perjalanan",
		"Telah sampai",
		"Pengiriman gagal",
		"Pelanggan tidak bisa di hubungi",
	}, got)

	got[0] = "mutated"
	assert.Equal(t, StatusProcessing, Statuses()[0])

	for _, s := range Statuses() {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("Dibatalkan"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("telah sampai"))
}

func TestRegisterValidation(t *testing.T) {
	RegisterValidation()
	RegisterValidation()

	type body struct {
		Status string `validate:"required,order_status"`
	}

	assert.NoError(t, httputil.Validate(body{Status: StatusDelivered}))
	assert.Error(t, httputil.Validate(body{Status: "Dibatalkan"}))
}
