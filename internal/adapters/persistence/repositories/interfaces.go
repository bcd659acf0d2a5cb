package repositories

import (
	"context"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"
)

// ContractRepository defines contract data access
type ContractRepository interface {
	// CreateWithRecipients creates the contract and appends a pending
	// {contract, status} entry to every recipient student in a single
	// transaction. Recipients without a student record are skipped.
	CreateWithRecipients(ctx context.Context, contract *models.Contract, recipients []string) error
	GetByID(ctx context.Context, id string) (*models.Contract, error)
	List(ctx context.Context, offset, limit int) ([]*models.Contract, int64, error)
	ListByScholarship(ctx context.Context, scholarshipID uint) ([]*models.Contract, error)
	ListWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]*models.Contract, error)
	PendingRecipients(ctx context.Context, contractID string) ([]string, error)
}

// ScholarshipRepository defines scholarship data access
type ScholarshipRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Scholarship, error)
	GetWithContracts(ctx context.Context, id uint) (*models.Scholarship, error)
	List(ctx context.Context) ([]*models.Scholarship, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// StudentRepository defines student data access
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	ListEmailsByScholarship(ctx context.Context, scholarshipID uint) ([]string, error)
	// Verify applies the verification fields in one atomic update.
	Verify(ctx context.Context, id uint, fields map[string]interface{}) error
	// Revoke sets is_revoked; there is no reverse operation.
	Revoke(ctx context.Context, id uint) error
	SetContractStatus(ctx context.Context, studentID uint, contractID, status string) error
}

// NotificationRepository defines notification inbox data access
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, email string, offset, limit int) ([]*models.Notification, int64, error)
}

// UserRepository defines user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
