package dashboard

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatNumberVI renders n the way vi-VN locales do: "." groups thousands,
// "," separates up to three decimals.
func FormatNumberVI(n float64) string {
	s := humanize.FormatFloat("#.###,###", n)
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ",")
	}
	return s
}

// FormatVND renders an amount as "1.000.000₫".
func FormatVND(n float64) string {
	return FormatNumberVI(n) + "₫"
}

// RevenueTick is the revenue axis label: thousands with three decimals.
func RevenueTick(v float64) string {
	return strconv.FormatFloat(v/1000, 'f', 3, 64) + "₫"
}

// FormatCount renders a plain counter.
func FormatCount(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
