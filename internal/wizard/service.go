package wizard

import (
	"context"
	"fmt"
	"time"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/estimate"
	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/shared/session"
)

// LeadSubmitter hands a finished brief to the leads pipeline.
type LeadSubmitter interface {
	Submit(ctx context.Context, sub leads.Submission) (leads.Result, error)
}

// Service runs wizard sessions against the catalog.
type Service struct {
	Catalog  *catalog.Catalog
	Sessions *session.Store[Session]
	Leads    LeadSubmitter
	Now      func() time.Time
}

// NewService constructs a Service.
func NewService(c *catalog.Catalog, store *session.Store[Session], submitter LeadSubmitter) *Service {
	return &Service{Catalog: c, Sessions: store, Leads: submitter}
}

// Start opens a session for productSlug.
func (s *Service) Start(productSlug string) (string, Session, error) {
	p, ok := s.Catalog.Product(productSlug)
	if !ok {
		return "", Session{}, fmt.Errorf("product %q: %w", productSlug, catalog.ErrNotFound)
	}
	sess := New(p, s.now())
	return s.Sessions.Create(sess), sess, nil
}

// Get returns a session.
func (s *Service) Get(id string) (Session, error) {
	return s.Sessions.Get(id)
}

// SelectPackage chooses the session's package.
func (s *Service) SelectPackage(id, packageID string) (Session, error) {
	return s.Sessions.Update(id, func(sess Session) (Session, error) {
		return sess.SelectPackage(packageID, s.now())
	})
}

// SetAnswer records one answer.
func (s *Service) SetAnswer(id, questionID string, sel estimate.Selection) (Session, error) {
	return s.Sessions.Update(id, func(sess Session) (Session, error) {
		return sess.SetAnswer(questionID, sel, s.now())
	})
}

// Next advances the session.
func (s *Service) Next(id string) (Session, error) {
	return s.Sessions.Update(id, func(sess Session) (Session, error) {
		return sess.Next(s.now())
	})
}

// Back moves the session one step back.
func (s *Service) Back(id string) (Session, error) {
	return s.Sessions.Update(id, func(sess Session) (Session, error) {
		return sess.Back(s.now())
	})
}

// Close discards a session.
func (s *Service) Close(id string) {
	s.Sessions.Delete(id)
}

// SubmitRequest carries the contact step and request metadata.
type SubmitRequest struct {
	Contact   leads.Contact
	VisitorID string
	RequestID string
}

// Submit validates the brief and the contact, then sends the summary as a lead.
// The session is claimed first so concurrent submits send one lead.
// On a delivery failure the claim is released and the session stays on the contact step.
func (s *Service) Submit(ctx context.Context, id string, req SubmitRequest) (Session, leads.Result, error) {
	sess, err := s.Sessions.Update(id, func(cur Session) (Session, error) {
		return cur.Claim(s.now())
	})
	if err != nil {
		return sess, leads.Result{}, err
	}

	var res leads.Result
	contact := req.Contact.Normalize()
	err = contact.Validate()
	if err == nil {
		res, err = s.Leads.Submit(ctx, leads.Submission{
			VisitorID:   req.VisitorID,
			RequestID:   req.RequestID,
			Source:      leads.SourceBrief,
			ProductSlug: sess.Product.Slug,
			Contact:     contact,
			Summary:     sess.Summary(),
		})
	}

	sess, uerr := s.Sessions.Update(id, func(cur Session) (Session, error) {
		if err != nil || !res.Success {
			return cur.Release(s.now()), nil
		}
		return cur.Submitted(res.LeadID, s.now()), nil
	})
	if err != nil {
		return sess, res, err
	}
	return sess, res, uerr
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
