// Package notify delivers leads to the neeklo team.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"neeklo-backend/internal/leads"
)

// telegramMaxRunes is the Bot API limit for one text message after entity parsing.
const telegramMaxRunes = 4096

// sender is the part of *tgbotapi.BotAPI used here.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts leads to a chat through the Bot API.
type Telegram struct {
	bot    sender
	chatID int64
}

// NewTelegram authenticates the bot token and returns a notifier for chatID.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// Notify sends the lead as an HTML message.
func (t *Telegram) Notify(ctx context.Context, lead leads.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatHTML(lead))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// FormatHTML renders the lead for Telegram's HTML parse mode.
// The contact and summary body is cut on plain text before escaping so the
// header and ID footer stay whole and no entity is split.
func FormatHTML(lead leads.Lead) string {
	esc := func(s string) string { return tgbotapi.EscapeText(tgbotapi.ModeHTML, s) }

	title := "Новая заявка: " + lead.Source.Title()
	product := ""
	if lead.ProductSlug != "" {
		product = "Продукт: " + lead.ProductSlug
	}
	footer := "ID: " + lead.ID

	var body strings.Builder
	for _, line := range lead.Contact.ContactLines() {
		body.WriteString(line)
		body.WriteString("\n")
	}
	if lead.Summary != "" {
		body.WriteString("\n")
		body.WriteString(lead.Summary)
		body.WriteString("\n")
	}

	// Visible text: title, product, blank line, body, blank line, footer.
	fixed := utf8.RuneCountInString(title) + 1 + 1 + 1 + utf8.RuneCountInString(footer)
	if product != "" {
		fixed += utf8.RuneCountInString(product) + 1
	}
	text := truncate(body.String(), telegramMaxRunes-fixed)

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", esc(title))
	if product != "" {
		fmt.Fprintf(&b, "Продукт: <code>%s</code>\n", esc(lead.ProductSlug))
	}
	b.WriteString("\n")
	b.WriteString(esc(text))
	fmt.Fprintf(&b, "\n<i>%s</i>", esc(footer))
	return b.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

var _ leads.Notifier = (*Telegram)(nil)
