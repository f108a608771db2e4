package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

type stubDeliverer map[string]error

func (s stubDeliverer) Deliver(ctx context.Context, leadID string) error {
	return s[leadID]
}

func TestProcessBatchReportsRetryableFailuresOnly(t *testing.T) {
	d := stubDeliverer{"lead-bad": errors.New("telegram down")}
	event := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "ok", Body: `{"leadId":"lead-ok","version":1}`},
		{MessageId: "retry", Body: `{"leadId":"lead-bad","version":1}`},
		{MessageId: "garbage", Body: `not json`},
	}}

	resp := processBatch(context.Background(), d, event)

	assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "retry"}}, resp.BatchItemFailures)
}
