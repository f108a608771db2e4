package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"neeklo-backend/internal/bootstrap"
	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/shared/config"
	"neeklo-backend/internal/shared/metrics"
	"neeklo-backend/internal/shared/telemetry"
	"neeklo-backend/internal/workerproc"
)

var (
	initOnce  sync.Once
	initErr   error
	deliverer leads.Deliverer
)

func initApp() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	deliverer = app.Deliverer()
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda_worker.bootstrap_failed", map[string]any{"error": initErr})
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}
	return processBatch(ctx, deliverer, event), nil
}

// processBatch reports retryable failures only; malformed messages and
// missing leads are dropped so they do not loop through the queue.
func processBatch(ctx context.Context, d leads.Deliverer, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := workerproc.HandleMessage(ctx, d, record.Body)
		if err == nil {
			continue
		}
		metrics.IncWorkerFailed()
		fields := map[string]any{"sqs_message_id": record.MessageId, "error": err.Error()}
		if workerproc.Unrecoverable(err) {
			telemetry.Error("lambda_worker.lead.dropped", fields)
			continue
		}
		telemetry.Error("lambda_worker.lead.failed", fields)
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
