package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"
)

type fakeNotificationRepo struct {
	mu        sync.Mutex
	created   []*models.Notification
	createErr error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, _ string, _, _ int) ([]*models.Notification, int64, error) {
	return nil, 0, nil
}

func publishedContract(comment string) *models.Contract {
	contract := &models.Contract{
		ID:         "c-1",
		Deadline:   time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		Comment:    comment,
		UploadedBy: "cso@xu.edu.ph",
	}
	_ = contract.SetRecipients([]string{"ana@xu.edu.ph", "ben@xu.edu.ph"})
	return contract
}

func TestNotifyContractPublishedShape(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{})

	svc.NotifyContractPublished(publishedContract(""), "Merit Scholarship")

	var n *models.Notification
	select {
	case n = <-svc.queue:
	default:
		t.Fatal("nothing enqueued")
	}

	if n.Title != "New Contract: Merit Scholarship" {
		t.Errorf("title = %q", n.Title)
	}
	want := "A new contract has been uploaded for your scholarship. Please review and sign by April 30, 2026."
	if n.Message != want {
		t.Errorf("message = %q, want %q", n.Message, want)
	}
	if n.Category != "scholarship" {
		t.Errorf("category = %q", n.Category)
	}
	if !n.RequiresAction {
		t.Error("requires_action not set")
	}
	if got := n.RecipientList(); len(got) != 2 {
		t.Errorf("recipients = %v", got)
	}
}

func TestNotifyContractPublishedAppendsComment(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{})

	svc.NotifyContractPublished(publishedContract("Bring your ID."), "Merit Scholarship")

	n := <-svc.queue
	if !strings.HasSuffix(n.Message, " Comment: Bring your ID.") {
		t.Errorf("message = %q", n.Message)
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{})

	// Fill the queue, then one more; the overflow is dropped, not blocked
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(svc.queue)+1; i++ {
			svc.NotifyContractPublished(publishedContract(""), "Merit Scholarship")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked on full queue")
	}
	if len(svc.queue) != cap(svc.queue) {
		t.Errorf("queue length = %d, want %d", len(svc.queue), cap(svc.queue))
	}
}

func TestDeliverFailureDoesNotPanic(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("db down")}
	svc := NewNotificationService(repo)

	// Failure is logged and swallowed
	svc.deliver(&models.Notification{Title: "New Contract: Merit Scholarship"})
	if len(repo.created) != 0 {
		t.Error("unexpected create")
	}
}

func TestWorkerDeliversEnqueued(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)

	svc.NotifyContractPublished(publishedContract(""), "Merit Scholarship")
	svc.Start()
	defer svc.Stop()

	deadline := time.After(2 * time.Second)
	for repo.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("notification never delivered")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
