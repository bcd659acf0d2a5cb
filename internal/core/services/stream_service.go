package services

import (
	"context"
	"log"
	"sync"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/adapters/persistence/repositories"
)

// ============================================================
// SSE hub: live dashboard snapshots
// ============================================================

// SSEEvent represents a server-sent event
type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// SSEClient represents a connected dashboard
type SSEClient struct {
	ID      string
	Channel chan SSEEvent
}

// SSEHub manages all SSE connections
type SSEHub struct {
	mu      sync.RWMutex
	clients map[string]*SSEClient
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients: make(map[string]*SSEClient),
	}
}

// Register adds a new SSE client
func (h *SSEHub) Register(client *SSEClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("📡 SSE client registered: %s | total=%d", client.ID, len(h.clients))
}

// Unregister removes an SSE client
func (h *SSEHub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Channel)
		delete(h.clients, clientID)
		log.Printf("📡 SSE client unregistered: %s | total=%d", clientID, len(h.clients))
	}
}

// Broadcast sends an event to every connected client
func (h *SSEHub) Broadcast(event SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Channel <- event:
		default:
			// Client channel full, skip
			log.Printf("⚠️ SSE channel full for client %s, skipping", client.ID)
		}
	}
}

// ============================================================
// Stream service: full-snapshot refreshes
// ============================================================

// StreamService pushes full student snapshots to connected dashboards.
// It also serves as the publisher's view-refresh hook: marking a path stale
// rebroadcasts the latest state. No ordering guarantee beyond "eventually
// reflects latest state".
type StreamService struct {
	hub         *SSEHub
	studentRepo repositories.StudentRepository
}

// NewStreamService creates a new stream service
func NewStreamService(studentRepo repositories.StudentRepository) *StreamService {
	return &StreamService{
		hub:         NewSSEHub(),
		studentRepo: studentRepo,
	}
}

// Hub returns the underlying SSE hub
func (s *StreamService) Hub() *SSEHub {
	return s.hub
}

// MarkStale implements ViewRefresher: refresh dependent read views
func (s *StreamService) MarkStale(path string) {
	go s.broadcastSnapshot()
}

// Snapshot builds the current student snapshot with derived statuses
func (s *StreamService) Snapshot(ctx context.Context) ([]*models.StudentResponse, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	sortStudents(students)

	now := time.Now()
	responses := make([]*models.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, student.ToResponse(now))
	}
	return responses, nil
}

func (s *StreamService) broadcastSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		log.Printf("⚠️ Snapshot broadcast failed: %v", err)
		return
	}

	s.hub.Broadcast(SSEEvent{Event: "students", Data: snapshot})
}
