package leads

import (
	"fmt"
	"strings"
)

var sourceTitles = map[Source]string{
	SourceBrief:   "Бриф",
	SourceContact: "Форма обратной связи",
	SourceQuiz:    "Квиз",
}

// Title returns the heading used in notifications.
func (s Source) Title() string {
	if t, ok := sourceTitles[s]; ok {
		return t
	}
	return string(s)
}

// ContactLines renders the non-empty contact fields, one per line.
func (c Contact) ContactLines() []string {
	var lines []string
	add := func(label, v string) {
		if v != "" {
			lines = append(lines, label+": "+v)
		}
	}
	add("Имя", c.Name)
	add("Телефон", c.Phone)
	add("Email", c.Email)
	add("Telegram", c.Telegram)
	add("Комментарий", c.Comment)
	return lines
}

// contactsHeading opens the contact section, which Text always writes last.
const contactsHeading = "\nКонтакты:\n"

// WithoutContacts drops the contact section from an archived brief.
func WithoutContacts(text string) string {
	if i := strings.Index(text, contactsHeading); i >= 0 {
		return text[:i]
	}
	return text
}

// Text renders the lead as plain text for archives and log delivery.
func (l Lead) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Заявка: %s\n", l.Source.Title())
	fmt.Fprintf(&b, "ID: %s\n", l.ID)
	if l.ProductSlug != "" {
		fmt.Fprintf(&b, "Продукт: %s\n", l.ProductSlug)
	}
	if !l.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Создана: %s\n", l.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	if l.Summary != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(l.Summary))
		b.WriteString("\n")
	}
	b.WriteString(contactsHeading)
	for _, line := range l.Contact.ContactLines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
