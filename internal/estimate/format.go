package estimate

import (
	"strconv"
	"strings"

	"neeklo-backend/internal/catalog"
)

// FormatAmount renders an integer with a space as thousands separator: 81250 -> "81 250".
func FormatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(' ')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatPercent renders a signed percentage: 15 -> "+15%", -10 -> "-10%", 0 -> "0%".
func FormatPercent(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if p > 0 {
		s = "+" + s
	}
	return s + "%"
}

// FormatPrice renders money for display: "81 250 ₽".
func FormatPrice(m catalog.Money) string {
	symbol := m.Currency
	switch m.Currency {
	case "", "RUB":
		symbol = "₽"
	case "USD":
		return "$" + FormatAmount(m.Amount)
	case "EUR":
		symbol = "€"
	}
	return FormatAmount(m.Amount) + " " + symbol
}

// FormatDays renders a day count with the Russian plural form: 1 день, 3 дня, 14 дней.
func FormatDays(n int) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	word := "дней"
	switch mod100 := abs % 100; {
	case mod100 >= 11 && mod100 <= 14:
	case abs%10 == 1:
		word = "день"
	case abs%10 >= 2 && abs%10 <= 4:
		word = "дня"
	}
	return strconv.Itoa(n) + " " + word
}
