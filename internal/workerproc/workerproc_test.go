package workerproc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/queue"
)

type fakeDeliverer struct {
	err error
	ids []string
}

func (f *fakeDeliverer) Deliver(_ context.Context, id string) error {
	f.ids = append(f.ids, id)
	return f.err
}

func body(t *testing.T, msg queue.Message) string {
	t.Helper()
	b, err := queue.EncodeMessage(msg)
	require.NoError(t, err)
	return string(b)
}

func TestParseMessageErrors(t *testing.T) {
	_, _, err := ParseMessage("  ")
	var empty ErrEmptyBody
	assert.ErrorAs(t, err, &empty)

	_, meta, err := ParseMessage("{bad")
	var decode ErrDecode
	require.ErrorAs(t, err, &decode)
	assert.Equal(t, 4, meta.BodyLen)
	assert.Len(t, meta.BodySHA, 64)

	_, _, err = ParseMessage(`{"requestId":"req-1"}`)
	var missing ErrMissingLeadID
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "req-1", missing.RequestID)
}

func TestHandleMessageDelivers(t *testing.T) {
	d := &fakeDeliverer{}
	err := HandleMessage(context.Background(), d, body(t, queue.NewMessage("lead-1", "req-1", time.Now())))
	require.NoError(t, err)
	assert.Equal(t, []string{"lead-1"}, d.ids)
}

func TestHandleMessageWrapsDeliveryError(t *testing.T) {
	d := &fakeDeliverer{err: errors.New("telegram down")}
	err := HandleMessage(context.Background(), d, body(t, queue.NewMessage("lead-2", "req-2", time.Now())))

	var procErr ErrProcess
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "lead-2", procErr.LeadID)
	assert.Equal(t, "req-2", procErr.RequestID)
	assert.False(t, Unrecoverable(err))
}

func TestUnrecoverable(t *testing.T) {
	assert.True(t, Unrecoverable(ErrEmptyBody{}))
	assert.True(t, Unrecoverable(ErrDecode{Err: errors.New("x")}))
	assert.True(t, Unrecoverable(ErrMissingLeadID{}))
	assert.True(t, Unrecoverable(ErrProcess{Err: fmt.Errorf("load lead x: %w", leads.ErrNotFound)}))
	assert.False(t, Unrecoverable(errors.New("timeout")))
}

func TestProcessWithoutDeliverer(t *testing.T) {
	assert.Error(t, Process(context.Background(), nil, queue.Message{LeadID: "x"}))
}
