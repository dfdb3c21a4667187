package narrative

import (
	"fmt"
	"strings"
)

// FormatSignedPct renders a weekly change with an explicit sign, "+2.67%".
func FormatSignedPct(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

// FormatAbsPct renders the magnitude of a change, "0.82%".
func FormatAbsPct(pct float64) string {
	if pct < 0 {
		pct = -pct
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatMoney renders a price with thousands separators and two decimals.
func FormatMoney(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)
	whole, frac := parts[0], parts[1]

	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// JoinAnd joins items into prose: "a", "a and b", "a, b, and c".
func JoinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
