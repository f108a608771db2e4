package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageVersion is the current payload version written by Send.
const MessageVersion = 1

// Message asks the worker to deliver one stored lead.
type Message struct {
	LeadID     string `json:"leadId"`
	RequestID  string `json:"requestId,omitempty"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// NewMessage builds a message for leadID stamped with now.
func NewMessage(leadID, requestID string, now time.Time) Message {
	return Message{
		LeadID:     leadID,
		RequestID:  requestID,
		EnqueuedAt: now.UTC().Format(time.RFC3339),
		Version:    MessageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message. Payloads from a newer
// writer (Version > MessageVersion) are rejected; a missing version reads as 1.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Version == 0 {
		msg.Version = MessageVersion
	}
	if msg.Version > MessageVersion {
		return Message{}, fmt.Errorf("unsupported message version %d", msg.Version)
	}
	return msg, nil
}
