package notify

import (
	"context"

	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/shared/telemetry"
)

// Log writes leads to the structured log. Used in development.
type Log struct{}

// Notify logs the lead text.
func (Log) Notify(ctx context.Context, lead leads.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	telemetry.Info("lead.notify_log", map[string]any{
		"lead_id": lead.ID,
		"source":  string(lead.Source),
		"product": lead.ProductSlug,
		"text":    lead.Text(),
	})
	return nil
}

var _ leads.Notifier = Log{}
