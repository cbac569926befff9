package models

import (
	"fmt"
	"strings"
)

// FormatKRW renders a KRW amount with thousands separators for the
// presentation layer, e.g. 1234567.8 -> "1,234,568원".
func FormatKRW(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := fmt.Sprintf("%.0f", amount)
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	out := b.String() + "원"
	if neg {
		out = "-" + out
	}
	return out
}
