package services

import (
	"context"
	"testing"
	"time"
)

func TestSSEHubBroadcast(t *testing.T) {
	hub := NewSSEHub()

	a := &SSEClient{ID: "a", Channel: make(chan SSEEvent, 1)}
	b := &SSEClient{ID: "b", Channel: make(chan SSEEvent, 1)}
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast(SSEEvent{Event: "students", Data: "payload"})

	for _, client := range []*SSEClient{a, b} {
		select {
		case event := <-client.Channel:
			if event.Event != "students" {
				t.Errorf("client %s: event = %q", client.ID, event.Event)
			}
		default:
			t.Errorf("client %s received nothing", client.ID)
		}
	}
}

func TestSSEHubSkipsFullClient(t *testing.T) {
	hub := NewSSEHub()

	full := &SSEClient{ID: "full", Channel: make(chan SSEEvent, 1)}
	hub.Register(full)
	full.Channel <- SSEEvent{Event: "old"}

	done := make(chan struct{})
	go func() {
		hub.Broadcast(SSEEvent{Event: "students"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on full client")
	}
}

func TestSSEHubUnregisterClosesChannel(t *testing.T) {
	hub := NewSSEHub()

	client := &SSEClient{ID: "a", Channel: make(chan SSEEvent, 1)}
	hub.Register(client)
	hub.Unregister("a")

	if _, ok := <-client.Channel; ok {
		t.Error("channel still open after unregister")
	}

	// Unregistering twice is a no-op
	hub.Unregister("a")
}

func TestStreamSnapshotOrdersRevokedLast(t *testing.T) {
	svc := NewStreamService(seededStudentRepo())

	snapshot, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(snapshot) != 3 {
		t.Fatalf("got %d students", len(snapshot))
	}
	if snapshot[len(snapshot)-1].ID != 3 {
		t.Errorf("revoked student not last: %v", snapshot[len(snapshot)-1].ID)
	}
}

func TestMarkStaleBroadcastsSnapshot(t *testing.T) {
	svc := NewStreamService(seededStudentRepo())

	client := &SSEClient{ID: "dash", Channel: make(chan SSEEvent, 1)}
	svc.Hub().Register(client)

	svc.MarkStale("/")

	select {
	case event := <-client.Channel:
		if event.Event != "students" {
			t.Errorf("event = %q", event.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot broadcast after MarkStale")
	}
}
