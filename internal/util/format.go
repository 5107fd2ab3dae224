package util

import (
	"fmt"
	"math"
)

// FormatNumber formats an int64 with K/M suffix for readability.
// Examples: 500 -> "500", 1500 -> "1.5K", 1500000 -> "1.5M"
func FormatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatRate renders a conversion rate as a percentage. Missing or
// non-finite rates render as "—".
func FormatRate(rate *float64) string {
	if rate == nil || math.IsInf(*rate, 0) || math.IsNaN(*rate) {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", *rate*100)
}

// FormatRateRaw renders a rate with four decimals for exports, or "" when missing.
func FormatRateRaw(rate *float64) string {
	if rate == nil || math.IsInf(*rate, 0) || math.IsNaN(*rate) {
		return ""
	}
	return fmt.Sprintf("%.4f", *rate)
}
