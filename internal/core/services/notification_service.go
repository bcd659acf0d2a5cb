package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/adapters/persistence/repositories"
)

// NotificationService builds structured notifications and persists them to
// the scholars' inbox through a background worker. Emission is best-effort:
// enqueueing never blocks and failures never propagate to the publisher.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	queue            chan *models.Notification
	stopChan         chan struct{}
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		queue:            make(chan *models.Notification, 64),
		stopChan:         make(chan struct{}),
	}
}

// Start launches the delivery worker
func (s *NotificationService) Start() {
	go s.run()
	log.Println("🚀 NotificationService started")
}

// Stop stops the delivery worker
func (s *NotificationService) Stop() {
	close(s.stopChan)
	log.Println("🛑 NotificationService stopped")
}

func (s *NotificationService) run() {
	for {
		select {
		case notification := <-s.queue:
			s.deliver(notification)
		case <-s.stopChan:
			// Drain whatever is already queued
			for {
				select {
				case notification := <-s.queue:
					s.deliver(notification)
				default:
					return
				}
			}
		}
	}
}

func (s *NotificationService) deliver(notification *models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		// Notification failure never unwinds a completed publish
		log.Printf("⚠️ Notification delivery failed [%s]: %v", notification.Title, err)
		return
	}
	log.Printf("📨 Notification delivered [%s] to %d recipients",
		notification.Title, len(notification.RecipientList()))
}

func (s *NotificationService) enqueue(notification *models.Notification) {
	select {
	case s.queue <- notification:
	default:
		log.Printf("⚠️ Notification queue full, dropping [%s]", notification.Title)
	}
}

// NotifyContractPublished builds and enqueues the publication notice
func (s *NotificationService) NotifyContractPublished(contract *models.Contract, scholarshipName string) {
	deadline := contract.Deadline
	message := fmt.Sprintf(
		"A new contract has been uploaded for your scholarship. Please review and sign by %s.",
		deadline.Format("January 2, 2006"),
	)
	if contract.Comment != "" {
		message += " Comment: " + contract.Comment
	}

	notification := &models.Notification{
		Title:          "New Contract: " + scholarshipName,
		Message:        message,
		Category:       "scholarship",
		RequiresAction: true,
		Deadline:       &deadline,
		DatePosted:     time.Now(),
		PublishedBy:    contract.UploadedBy,
	}
	if err := notification.SetRecipients(contract.RecipientList()); err != nil {
		log.Printf("⚠️ Notification recipients encode failed: %v", err)
		return
	}

	s.enqueue(notification)
}

// NotifyDeadlineReminder builds and enqueues a reminder for recipients who
// have not signed yet
func (s *NotificationService) NotifyDeadlineReminder(contract *models.Contract, scholarshipName string, recipients []string) {
	deadline := contract.Deadline
	notification := &models.Notification{
		Title: "Reminder: " + scholarshipName,
		Message: fmt.Sprintf(
			"Your scholarship contract is still unsigned. The deadline is %s.",
			deadline.Format("January 2, 2006"),
		),
		Category:       "scholarship",
		RequiresAction: true,
		Deadline:       &deadline,
		DatePosted:     time.Now(),
		PublishedBy:    contract.UploadedBy,
	}
	if err := notification.SetRecipients(recipients); err != nil {
		log.Printf("⚠️ Notification recipients encode failed: %v", err)
		return
	}

	s.enqueue(notification)
}

// ListByRecipient lists inbox notifications for an email address
func (s *NotificationService) ListByRecipient(ctx context.Context, email string, offset, limit int) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByRecipient(ctx, email, offset, limit)
}
