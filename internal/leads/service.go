package leads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"neeklo-backend/internal/queue"
	"neeklo-backend/internal/shared/metrics"
	"neeklo-backend/internal/shared/storage/object"
	"neeklo-backend/internal/shared/telemetry"
)

// Notifier delivers a lead to the team.
type Notifier interface {
	Notify(ctx context.Context, lead Lead) error
}

// Deliverer is the subset of Service used by the queue worker.
type Deliverer interface {
	Deliver(ctx context.Context, leadID string) error
}

// Service accepts lead submissions and delivers them.
type Service struct {
	Repo     Repo
	Notifier Notifier
	// Queue, when set, defers delivery to the worker instead of notifying inline.
	Queue queue.Client
	// Archive, when set, receives a plain-text copy of every lead.
	Archive object.ObjectStore

	Now   func() time.Time
	NewID func() string
}

// NewService constructs a Service with inline delivery.
func NewService(repo Repo, notifier Notifier) *Service {
	return &Service{Repo: repo, Notifier: notifier}
}

// Submit validates and stores the submission, then delivers or enqueues it.
// The returned error is non-nil only for ValidationErrors; delivery problems
// are reported through Result.Success.
func (s *Service) Submit(ctx context.Context, sub Submission) (Result, error) {
	contact := sub.Contact.Normalize()
	if err := contact.Validate(); err != nil {
		return Result{}, err
	}
	source := sub.Source
	if source == "" {
		source = SourceContact
	}
	if !source.Valid() {
		return Result{}, ValidationErrors{{Field: "source", Message: "Неизвестный источник заявки"}}
	}

	lead := Lead{
		ID:          s.newID(),
		VisitorID:   sub.VisitorID,
		Source:      source,
		ProductSlug: strings.TrimSpace(sub.ProductSlug),
		Contact:     contact,
		Summary:     strings.TrimSpace(sub.Summary),
		Status:      StatusNew,
		CreatedAt:   s.now(),
	}
	metrics.IncLeadSubmitted()
	fields := map[string]any{
		"lead_id":    lead.ID,
		"source":     string(lead.Source),
		"product":    lead.ProductSlug,
		"visitor_id": lead.VisitorID,
		"request_id": sub.RequestID,
	}

	archiveKey, err := s.persist(ctx, lead)
	if err != nil {
		fields["error"] = err
		telemetry.Error("lead.persist_failed", fields)
		metrics.IncLeadFailed()
		return Result{Success: false, Message: MessageTryAgain}, nil
	}
	lead.ArchiveKey = archiveKey

	if s.Queue != nil {
		// Stored before Send: the worker may deliver before Send returns.
		lead.Status = StatusQueued
		s.save(ctx, lead)
		err = s.Queue.Send(ctx, queue.NewMessage(lead.ID, sub.RequestID, s.now()))
	} else {
		err = s.notify(ctx, &lead)
	}
	if err != nil {
		lead.Status = StatusFailed
		lead.LastError = err.Error()
		s.save(ctx, lead)
		fields["error"] = err
		telemetry.Error("lead.delivery_failed", fields)
		metrics.IncLeadFailed()
		return Result{Success: false, Message: MessageTryAgain, LeadID: lead.ID}, nil
	}
	if s.Queue == nil {
		s.save(ctx, lead)
	}

	fields["status"] = string(lead.Status)
	telemetry.Info("lead.submitted", fields)
	return Result{Success: true, Message: MessageSuccess, LeadID: lead.ID}, nil
}

// Deliver sends a stored lead through the notifier. Already delivered leads are skipped.
func (s *Service) Deliver(ctx context.Context, leadID string) error {
	lead, err := s.Repo.Get(ctx, leadID)
	if err != nil {
		return fmt.Errorf("load lead %s: %w", leadID, err)
	}
	if lead.Status == StatusDelivered {
		telemetry.Info("lead.already_delivered", map[string]any{"lead_id": leadID})
		return nil
	}
	if err := s.notify(ctx, &lead); err != nil {
		lead.Status = StatusFailed
		lead.LastError = err.Error()
		s.save(ctx, lead)
		metrics.IncLeadFailed()
		return fmt.Errorf("deliver lead %s: %w", leadID, err)
	}
	s.save(ctx, lead)
	telemetry.Info("lead.delivered", map[string]any{"lead_id": leadID})
	return nil
}

// Recent lists the newest leads.
func (s *Service) Recent(ctx context.Context, limit int) ([]Lead, error) {
	return s.Repo.ListRecent(ctx, limit)
}

// maxBriefBytes caps how much of an archived brief is read back.
const maxBriefBytes = 1 << 20

// Brief reads the archived brief of a lead with the contact section removed.
func (s *Service) Brief(ctx context.Context, leadID string) (string, error) {
	lead, err := s.Repo.Get(ctx, leadID)
	if err != nil {
		return "", fmt.Errorf("load lead %s: %w", leadID, err)
	}
	if s.Archive == nil || lead.ArchiveKey == "" {
		return "", ErrNoArchive
	}
	rc, err := s.Archive.Open(ctx, lead.ArchiveKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNoArchive, lead.ArchiveKey)
		}
		return "", fmt.Errorf("open brief %s: %w", lead.ArchiveKey, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxBriefBytes))
	if err != nil {
		return "", fmt.Errorf("read brief %s: %w", lead.ArchiveKey, err)
	}
	return WithoutContacts(string(data)), nil
}

// persist stores the lead and archives its text concurrently.
// Archive failures are logged and do not fail the submission.
func (s *Service) persist(ctx context.Context, lead Lead) (string, error) {
	var archiveKey string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Repo.Create(gctx, lead)
	})
	if s.Archive != nil {
		g.Go(func() error {
			owner := lead.VisitorID
			if owner == "" {
				owner = lead.ID
			}
			key, _, err := s.Archive.Save(gctx, owner, lead.ID+".txt", "text/plain; charset=utf-8", strings.NewReader(lead.Text()))
			if err != nil {
				telemetry.Warn("lead.archive_failed", map[string]any{"lead_id": lead.ID, "error": err})
				return nil
			}
			archiveKey = key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return archiveKey, nil
}

func (s *Service) notify(ctx context.Context, lead *Lead) error {
	if s.Notifier == nil {
		return errors.New("no notifier configured")
	}
	start := time.Now()
	err := s.Notifier.Notify(ctx, *lead)
	metrics.ObserveLeadDeliveryMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return err
	}
	now := s.now()
	lead.Status = StatusDelivered
	lead.LastError = ""
	lead.DeliveredAt = &now
	metrics.IncLeadDelivered()
	return nil
}

func (s *Service) save(ctx context.Context, lead Lead) {
	err := s.Repo.Update(ctx, lead)
	if errors.Is(err, ErrDelivered) {
		telemetry.Info("lead.update_skipped", map[string]any{
			"lead_id": lead.ID,
			"status":  string(lead.Status),
		})
		return
	}
	if err != nil {
		telemetry.Error("lead.update_failed", map[string]any{
			"lead_id": lead.ID,
			"status":  string(lead.Status),
			"error":   err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

var _ Deliverer = (*Service)(nil)
