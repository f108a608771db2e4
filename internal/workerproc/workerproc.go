// Package workerproc turns queue payloads into lead deliveries. It is shared by
// the long-poll worker and the SQS-triggered Lambda.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingLeadID indicates a message without a lead id.
type ErrMissingLeadID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingLeadID) Error() string { return "missing lead id" }

// ErrProcess indicates delivery failed after successful parsing.
type ErrProcess struct {
	LeadID    string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "deliver lead"
	}
	return "deliver lead: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Unrecoverable reports whether redelivering the message can never succeed:
// malformed payloads and leads that no longer exist.
func Unrecoverable(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		missing ErrMissingLeadID
	)
	switch {
	case errors.As(err, &empty), errors.As(err, &decode), errors.As(err, &missing):
		return true
	case errors.Is(err, leads.ErrNotFound):
		return true
	default:
		return false
	}
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.LeadID) == "" {
		return msg, meta, ErrMissingLeadID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// Process delivers the lead named by an already parsed message.
func Process(ctx context.Context, d leads.Deliverer, msg queue.Message) error {
	if d == nil {
		return errors.New("lead delivery not configured")
	}
	if strings.TrimSpace(msg.LeadID) == "" {
		return ErrMissingLeadID{RequestID: msg.RequestID}
	}
	if err := d.Deliver(ctx, msg.LeadID); err != nil {
		return ErrProcess{LeadID: msg.LeadID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}

// HandleMessage parses a payload and delivers its lead.
func HandleMessage(ctx context.Context, d leads.Deliverer, body string) error {
	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}
	return Process(ctx, d, msg)
}
