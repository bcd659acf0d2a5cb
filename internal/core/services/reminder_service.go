package services

import (
	"context"
	"log"
	"time"

	"cso-scholarhub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// reminderWindow is how far ahead of a deadline reminders go out
const reminderWindow = 3 * 24 * time.Hour

// ReminderService sends daily deadline reminders (08:30) to recipients who
// have not signed their contract yet
type ReminderService struct {
	contractRepo repositories.ContractRepository
	notifier     *NotificationService
	cron         *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(contractRepo repositories.ContractRepository, notifier *NotificationService) *ReminderService {
	return &ReminderService{
		contractRepo: contractRepo,
		notifier:     notifier,
		cron:         cron.New(),
	}
}

// Start schedules the daily reminder job
func (s *ReminderService) Start() {
	if _, err := s.cron.AddFunc("30 8 * * *", s.sendDeadlineReminders); err != nil {
		log.Printf("❌ Failed to schedule deadline reminders: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 ReminderService started (daily 08:30)")
}

// Stop stops the scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
	log.Println("🛑 ReminderService stopped")
}

func (s *ReminderService) sendDeadlineReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	contracts, err := s.contractRepo.ListWithDeadlineBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		log.Printf("❌ Reminder query error: %v", err)
		return
	}

	for _, contract := range contracts {
		pending, err := s.contractRepo.PendingRecipients(ctx, contract.ID)
		if err != nil {
			log.Printf("❌ Pending recipients query error [%s]: %v", contract.ID, err)
			continue
		}
		if len(pending) == 0 {
			continue
		}

		scholarshipName := ""
		if contract.Scholarship != nil {
			scholarshipName = contract.Scholarship.Name
		}
		s.notifier.NotifyDeadlineReminder(contract, scholarshipName, pending)
		log.Printf("⏰ Deadline reminder queued [%s] pending=%d", contract.ID, len(pending))
	}
}
