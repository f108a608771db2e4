package leads

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLen     = 100
	maxCommentLen  = 2000
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telegramRe = regexp.MustCompile(`^@?[A-Za-z0-9_]{5,32}$`)
)

// Normalize trims every field.
func (c Contact) Normalize() Contact {
	return Contact{
		Name:     strings.TrimSpace(c.Name),
		Phone:    strings.TrimSpace(c.Phone),
		Email:    strings.TrimSpace(c.Email),
		Telegram: strings.TrimSpace(c.Telegram),
		Comment:  strings.TrimSpace(c.Comment),
	}
}

// Validate checks a normalized contact: a name and at least one of phone, email or
// telegram are required, and each given channel must be well-formed.
func (c Contact) Validate() error {
	var errs ValidationErrors
	switch {
	case c.Name == "":
		errs = append(errs, FieldError{Field: "name", Message: "Укажите имя"})
	case utf8.RuneCountInString(c.Name) > maxNameLen:
		errs = append(errs, FieldError{Field: "name", Message: "Слишком длинное имя"})
	}
	if c.Phone == "" && c.Email == "" && c.Telegram == "" {
		errs = append(errs, FieldError{Field: "contact", Message: "Укажите телефон, email или Telegram"})
	}
	if c.Phone != "" {
		if n := countDigits(c.Phone); n < minPhoneDigits || n > maxPhoneDigits {
			errs = append(errs, FieldError{Field: "phone", Message: "Некорректный номер телефона"})
		}
	}
	if c.Email != "" && !emailRe.MatchString(c.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Некорректный email"})
	}
	if c.Telegram != "" && !telegramRe.MatchString(c.Telegram) {
		errs = append(errs, FieldError{Field: "telegram", Message: "Некорректный Telegram"})
	}
	if utf8.RuneCountInString(c.Comment) > maxCommentLen {
		errs = append(errs, FieldError{Field: "comment", Message: "Слишком длинный комментарий"})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
