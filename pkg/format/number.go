// Package format renders indicator values for display and export.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/metrics-calculator/pkg/constants"
	"github.com/shopspring/decimal"
)

// Fixed returns value in fixed-point notation with two decimals and no
// separators (e.g., "-1234.50"). Halves round away from zero.
func Fixed(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return decimal.NewFromFloat(value).StringFixed(constants.DisplayDecimals)
}

// Currency returns a currency string with the given symbol and thousands separators (e.g., "-$1,234.56").
func Currency(symbol string, amount float64) string {
	formatted := grouped(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// Percent returns a percentage string with separators (e.g., "1,250.00%").
func Percent(value float64) string {
	return Number(value) + "%"
}

// Number returns a plain number with separators but no symbol (e.g., "-1,234.56").
func Number(value float64) string {
	formatted := grouped(math.Abs(value))
	if value < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

func grouped(value float64) string {
	formatted := Fixed(value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	if len(parts) != 2 {
		return formatted
	}
	decPart := parts[1]

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
