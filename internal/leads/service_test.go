package leads

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neeklo-backend/internal/queue"
	"neeklo-backend/internal/shared/storage/object"
)

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	leads []Lead
}

func (f *fakeNotifier) Notify(_ context.Context, lead Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, lead)
	return f.err
}

type fakeQueue struct {
	msgs []queue.Message
}

func (f *fakeQueue) Send(_ context.Context, msg queue.Message) error {
	f.msgs = append(f.msgs, msg)
	return nil
}

type fakeArchive struct {
	mu    sync.Mutex
	err   error
	saved map[string]string
}

func (f *fakeArchive) Save(_ context.Context, owner, fileName, _ string, r io.Reader) (string, int64, error) {
	if f.err != nil {
		return "", 0, f.err
	}
	body, _ := io.ReadAll(r)
	key := owner + "/" + fileName
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[key] = string(body)
	return key, int64(len(body)), nil
}

func (f *fakeArchive) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.saved[key]
	if !ok {
		return nil, object.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

type failingRepo struct{ *MemoryRepo }

func (failingRepo) Create(context.Context, Lead) error { return errors.New("db down") }

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repo, n Notifier) *Service {
	svc := NewService(repo, n)
	svc.Now = func() time.Time { return fixedNow }
	svc.NewID = func() string { return "lead-1" }
	return svc
}

func validSubmission() Submission {
	return Submission{
		VisitorID:   "visitor-1",
		Source:      SourceBrief,
		ProductSlug: "website",
		Contact:     Contact{Name: " Анна ", Phone: "+7 999 123 45 67"},
		Summary:     "Продукт: Сайт",
	}
}

func TestSubmitDeliversInline(t *testing.T) {
	repo := NewMemoryRepo()
	n := &fakeNotifier{}
	archive := &fakeArchive{}
	svc := newTestService(repo, n)
	svc.Archive = archive

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: MessageSuccess, LeadID: "lead-1"}, res)

	require.Len(t, n.leads, 1)
	assert.Equal(t, "Анна", n.leads[0].Name)

	stored, err := repo.Get(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, stored.Status)
	require.NotNil(t, stored.DeliveredAt)
	assert.Equal(t, fixedNow, *stored.DeliveredAt)
	assert.Equal(t, "visitor-1/lead-1.txt", stored.ArchiveKey)
	assert.Contains(t, archive.saved["visitor-1/lead-1.txt"], "Продукт: Сайт")
	assert.Contains(t, archive.saved["visitor-1/lead-1.txt"], "Телефон: +7 999 123 45 67")
}

func TestSubmitValidationError(t *testing.T) {
	n := &fakeNotifier{}
	svc := newTestService(NewMemoryRepo(), n)
	sub := validSubmission()
	sub.Contact = Contact{Name: "Анна"}

	_, err := svc.Submit(context.Background(), sub)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "contact", verrs[0].Field)
	assert.Empty(t, n.leads)
}

func TestSubmitRejectsUnknownSource(t *testing.T) {
	sub := validSubmission()
	sub.Source = "popup"
	_, err := newTestService(NewMemoryRepo(), &fakeNotifier{}).Submit(context.Background(), sub)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "source", verrs[0].Field)
}

func TestSubmitDefaultsSourceToContact(t *testing.T) {
	repo := NewMemoryRepo()
	sub := validSubmission()
	sub.Source = ""
	_, err := newTestService(repo, &fakeNotifier{}).Submit(context.Background(), sub)
	require.NoError(t, err)
	stored, _ := repo.Get(context.Background(), "lead-1")
	assert.Equal(t, SourceContact, stored.Source)
}

func TestSubmitNotifierFailureAsksToRetry(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, &fakeNotifier{err: errors.New("telegram 502")})

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, MessageTryAgain, res.Message)

	stored, err := repo.Get(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Equal(t, "telegram 502", stored.LastError)
}

func TestSubmitPersistFailure(t *testing.T) {
	n := &fakeNotifier{}
	svc := newTestService(failingRepo{NewMemoryRepo()}, n)

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.LeadID)
	assert.Empty(t, n.leads)
}

func TestSubmitArchiveFailureDoesNotBlock(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, &fakeNotifier{})
	svc.Archive = &fakeArchive{err: errors.New("s3 down")}

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.True(t, res.Success)
	stored, _ := repo.Get(context.Background(), "lead-1")
	assert.Empty(t, stored.ArchiveKey)
}

func TestSubmitEnqueuesWhenQueueConfigured(t *testing.T) {
	repo := NewMemoryRepo()
	n := &fakeNotifier{}
	q := &fakeQueue{}
	svc := newTestService(repo, n)
	svc.Queue = q

	sub := validSubmission()
	sub.RequestID = "req-9"
	res, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, n.leads)
	require.Len(t, q.msgs, 1)
	assert.Equal(t, "lead-1", q.msgs[0].LeadID)
	assert.Equal(t, "req-9", q.msgs[0].RequestID)

	stored, _ := repo.Get(context.Background(), "lead-1")
	assert.Equal(t, StatusQueued, stored.Status)
}

func TestSubmitQueueKeepsWorkerDelivery(t *testing.T) {
	repo := NewMemoryRepo()
	n := &fakeNotifier{}
	svc := newTestService(repo, n)
	svc.Queue = queue.ClientFunc(func(ctx context.Context, msg queue.Message) error {
		return svc.Deliver(ctx, msg.LeadID)
	})

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, n.leads, 1)

	stored, _ := repo.Get(context.Background(), "lead-1")
	assert.Equal(t, StatusDelivered, stored.Status)
	require.NotNil(t, stored.DeliveredAt)

	// A redelivered message finds the lead delivered and does not notify again.
	require.NoError(t, svc.Deliver(context.Background(), "lead-1"))
	assert.Len(t, n.leads, 1)
}

func TestMemoryRepoUpdateKeepsDeliveredLead(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, Lead{ID: "lead-1", Status: StatusDelivered, DeliveredAt: &fixedNow}))

	err := repo.Update(ctx, Lead{ID: "lead-1", Status: StatusFailed, LastError: "late"})
	assert.ErrorIs(t, err, ErrDelivered)
	stored, _ := repo.Get(ctx, "lead-1")
	assert.Equal(t, StatusDelivered, stored.Status)
	assert.Empty(t, stored.LastError)
}

func TestSubmitQueueFailure(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, &fakeNotifier{})
	svc.Queue = queue.ClientFunc(func(context.Context, queue.Message) error {
		return errors.New("sqs throttled")
	})

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.False(t, res.Success)
	stored, _ := repo.Get(context.Background(), "lead-1")
	assert.Equal(t, StatusFailed, stored.Status)
}

func TestDeliver(t *testing.T) {
	repo := NewMemoryRepo()
	n := &fakeNotifier{}
	svc := newTestService(repo, n)
	require.NoError(t, repo.Create(context.Background(), Lead{ID: "lead-7", Status: StatusQueued, Contact: Contact{Name: "Иван"}}))

	require.NoError(t, svc.Deliver(context.Background(), "lead-7"))
	require.Len(t, n.leads, 1)
	stored, _ := repo.Get(context.Background(), "lead-7")
	assert.Equal(t, StatusDelivered, stored.Status)

	// Redelivered messages do not notify twice.
	require.NoError(t, svc.Deliver(context.Background(), "lead-7"))
	assert.Len(t, n.leads, 1)
}

func TestDeliverFailureMarksLead(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, &fakeNotifier{err: errors.New("boom")})
	require.NoError(t, repo.Create(context.Background(), Lead{ID: "lead-7", Status: StatusQueued}))

	err := svc.Deliver(context.Background(), "lead-7")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "lead-7"))
	stored, _ := repo.Get(context.Background(), "lead-7")
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Equal(t, "boom", stored.LastError)
}

func TestDeliverUnknownLead(t *testing.T) {
	svc := newTestService(NewMemoryRepo(), &fakeNotifier{})
	err := svc.Deliver(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoListRecent(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, Lead{ID: id, CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute)}))
	}
	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestBriefReadsArchiveWithoutContacts(t *testing.T) {
	repo := NewMemoryRepo()
	archive := &fakeArchive{}
	svc := newTestService(repo, &fakeNotifier{})
	svc.Archive = archive

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	require.True(t, res.Success)

	brief, err := svc.Brief(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Contains(t, brief, "Продукт: Сайт")
	assert.NotContains(t, brief, "Контакты")
	assert.NotContains(t, brief, "Анна")

	archive.mu.Lock()
	archive.saved = map[string]string{}
	archive.mu.Unlock()
	_, err = svc.Brief(context.Background(), "lead-1")
	assert.ErrorIs(t, err, ErrNoArchive)

	_, err = svc.Brief(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
