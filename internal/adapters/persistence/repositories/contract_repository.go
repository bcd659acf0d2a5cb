package repositories

import (
	"context"
	"errors"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// contractRepository implements ContractRepository interface
type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

// CreateWithRecipients creates the contract row and one pending
// student_contracts row per recipient inside a single transaction.
// FirstOrCreate keeps the per-recipient append idempotent on retry.
func (r *contractRepository) CreateWithRecipients(ctx context.Context, contract *models.Contract, recipients []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			return err
		}

		for _, email := range recipients {
			var student models.Student
			if err := tx.Where("email = ?", email).First(&student).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Address without a student record: nothing to append
					continue
				}
				return err
			}

			link := models.StudentContract{
				ContractID: contract.ID,
				StudentID:  student.ID,
				Status:     models.SignStatusPending,
			}
			if err := tx.Where("contract_id = ? AND student_id = ?", contract.ID, student.ID).
				FirstOrCreate(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GetByID gets a contract by ID with its scholarship
func (r *contractRepository) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Preload("Scholarship").
		Where("id = ?", id).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// List lists all contracts with pagination, newest first
func (r *contractRepository) List(ctx context.Context, offset, limit int) ([]*models.Contract, int64, error) {
	var contracts []*models.Contract
	var total int64

	r.db.WithContext(ctx).Model(&models.Contract{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Scholarship").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contracts).Error

	return contracts, total, err
}

// ListByScholarship lists a scholarship's contract history, oldest first
func (r *contractRepository) ListByScholarship(ctx context.Context, scholarshipID uint) ([]*models.Contract, error) {
	var contracts []*models.Contract
	err := r.db.WithContext(ctx).
		Where("scholarship_id = ?", scholarshipID).
		Order("created_at ASC").
		Find(&contracts).Error
	return contracts, err
}

// ListWithDeadlineBetween lists contracts whose deadline falls in [from, to)
func (r *contractRepository) ListWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]*models.Contract, error) {
	var contracts []*models.Contract
	err := r.db.WithContext(ctx).
		Preload("Scholarship").
		Where("deadline >= ? AND deadline < ?", from, to).
		Find(&contracts).Error
	return contracts, err
}

// PendingRecipients returns the emails of recipients who have not yet
// signed or rejected the contract
func (r *contractRepository) PendingRecipients(ctx context.Context, contractID string) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&models.StudentContract{}).
		Joins("JOIN students ON students.id = student_contracts.student_id").
		Where("student_contracts.contract_id = ? AND student_contracts.status = ?", contractID, models.SignStatusPending).
		Pluck("students.email", &emails).Error
	return emails, err
}
