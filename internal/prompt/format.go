package prompt

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// money renders v as US dollars with thousands separators and at most three
// fraction digits: 2100000000 -> "$2,100,000,000".
func money(v float64) string {
	return "$" + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// count renders an integer with thousands separators.
func count(v int64) string {
	return printer.Sprint(number.Decimal(v))
}

// raw renders v with the fewest digits that represent it exactly.
func raw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// delta renders a percentage change with an explicit sign for gains.
func delta(v float64) string {
	if v > 0 {
		return "+" + raw(v) + "%"
	}
	return raw(v) + "%"
}

// ratio renders a 0-1 value as a percentage with one decimal.
func ratio(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// compact renders v divided by unit with fixed decimals and a suffix:
// compact(8.5e9, 1e9, 2, "B") -> "8.50B".
func compact(v, unit float64, decimals int, suffix string) string {
	return strconv.FormatFloat(v/unit, 'f', decimals, 64) + suffix
}
