package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/queue"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeDeliverer struct {
	err   error
	calls []string
}

func (f *fakeDeliverer) Deliver(ctx context.Context, leadID string) error {
	f.calls = append(f.calls, leadID)
	return f.err
}

func leadMessage(t *testing.T, id, receipt, leadID string) sqstypes.Message {
	t.Helper()
	body, err := queue.EncodeMessage(queue.Message{LeadID: leadID, RequestID: "req-" + id, Version: queue.MessageVersion})
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	return sqstypes.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	d := &fakeDeliverer{}

	handleMessage(context.Background(), client, "queue", d, leadMessage(t, "m1", "r1", "lead-1"))

	if len(client.deleted) != 1 || client.deleted[0] != "r1" {
		t.Fatalf("expected delete of r1, got %v", client.deleted)
	}
	if len(d.calls) != 1 || d.calls[0] != "lead-1" {
		t.Fatalf("expected delivery of lead-1, got %v", d.calls)
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	client := &fakeSQS{}
	d := &fakeDeliverer{err: errors.New("telegram down")}

	handleMessage(context.Background(), client, "queue", d, leadMessage(t, "m2", "r2", "lead-2"))

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %v", client.deleted)
	}
}

func TestWorkerDeletesWhenLeadMissing(t *testing.T) {
	client := &fakeSQS{}
	d := &fakeDeliverer{err: fmt.Errorf("load lead: %w", leads.ErrNotFound)}

	handleMessage(context.Background(), client, "queue", d, leadMessage(t, "m3", "r3", "gone"))

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %v", client.deleted)
	}
}

func TestWorkerDeletesOnInvalidPayload(t *testing.T) {
	for name, body := range map[string]string{
		"bad json":   "{bad-json",
		"empty":      "",
		"no lead id": `{"requestId":"req-1","version":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := &fakeSQS{}
			d := &fakeDeliverer{}
			msg := sqstypes.Message{
				MessageId:     aws.String("m4"),
				ReceiptHandle: aws.String("r4"),
				Body:          aws.String(body),
			}

			handleMessage(context.Background(), client, "queue", d, msg)

			if len(client.deleted) != 1 {
				t.Fatalf("expected delete, got %v", client.deleted)
			}
			if len(d.calls) != 0 {
				t.Fatalf("expected no delivery, got %v", d.calls)
			}
		})
	}
}

func TestReceiveCount(t *testing.T) {
	if got := receiveCount(sqstypes.Message{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	msg := sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "3"}}
	if got := receiveCount(msg); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
