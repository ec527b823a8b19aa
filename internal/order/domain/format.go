package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount as whole Rupiah with Indonesian digit
// grouping: 1500000 becomes "Rp1.500.000", -1500 becomes "-Rp1.500".
// NaN and infinities render as "Rp0".
func FormatRupiah(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	rounded := decimal.NewFromFloat(amount).Round(0)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + "Rp" + rupiahPrinter.Sprintf("%d", rounded.Abs().IntPart())
}

var timestampLayouts = map[string]string{
	"id": "02/01/2006, 15.04.05",
	"en": "1/2/2006, 3:04:05 PM",
}

// FormatTimestamp renders ts in loc using the date layout of locale.
// Unknown locales use the Indonesian layout; a nil loc means UTC.
func FormatTimestamp(ts Timestamp, loc *time.Location, locale string) string {
	if loc == nil {
		loc = time.UTC
	}
	layout, ok := timestampLayouts[locale]
	if !ok {
		layout = timestampLayouts["id"]
	}
	return ts.Time().In(loc).Format(layout)
}
