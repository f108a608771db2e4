package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultTimelineDays is used when no feature string declares a day count.
const DefaultTimelineDays = 14

var (
	// First digit run, allowing spaces (incl. nbsp and narrow nbsp) as thousands separators.
	priceDigitsRe = regexp.MustCompile(`\d[\d \t\x{00A0}\x{202F}]*`)
	daysRe        = regexp.MustCompile(`(?i)(\d+)\s*(?:[–—-]\s*(\d+)\s*)?(?:дн|день|дня|дней|day)`)
)

// ParsePrice extracts the first number from a localized display price.
// "от 65 000 ₽" yields 65000 RUB; a range "25 000–40 000 ₽" yields its low bound.
func ParsePrice(label string) (Money, error) {
	currency := detectCurrency(label)
	match := priceDigitsRe.FindString(label)
	if match == "" {
		return Money{Currency: currency}, ErrUnparseable
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, match)
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Money{Currency: currency}, ErrUnparseable
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// ParseTimeline scans features in order and returns the first day count found.
// The boolean is false when the default was used.
func ParseTimeline(features []string) (Timeline, bool) {
	for _, f := range features {
		m := daysRe.FindStringSubmatch(f)
		if m == nil {
			continue
		}
		days, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		maxDays := days
		if m[2] != "" {
			if v, err := strconv.Atoi(m[2]); err == nil && v > days {
				maxDays = v
			}
		}
		return Timeline{Days: days, MaxDays: maxDays}, true
	}
	return Timeline{Days: DefaultTimelineDays, MaxDays: DefaultTimelineDays}, false
}

func detectCurrency(label string) string {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "$") || strings.Contains(lower, "usd"):
		return "USD"
	case strings.Contains(lower, "€") || strings.Contains(lower, "eur"):
		return "EUR"
	default:
		return "RUB"
	}
}
