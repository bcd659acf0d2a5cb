package repositories

import (
	"context"

	"cso-scholarhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// scholarshipRepository implements ScholarshipRepository interface
type scholarshipRepository struct {
	db *gorm.DB
}

// NewScholarshipRepository creates a new scholarship repository
func NewScholarshipRepository(db *gorm.DB) ScholarshipRepository {
	return &scholarshipRepository{db: db}
}

// GetByID gets a scholarship by ID
func (r *scholarshipRepository) GetByID(ctx context.Context, id uint) (*models.Scholarship, error) {
	var scholarship models.Scholarship
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&scholarship).Error
	if err != nil {
		return nil, err
	}
	return &scholarship, nil
}

// GetWithContracts gets a scholarship with its contract history
func (r *scholarshipRepository) GetWithContracts(ctx context.Context, id uint) (*models.Scholarship, error) {
	var scholarship models.Scholarship
	err := r.db.WithContext(ctx).
		Preload("Contracts", func(db *gorm.DB) *gorm.DB {
			return db.Order("contracts.created_at ASC")
		}).
		Where("id = ?", id).
		First(&scholarship).Error
	if err != nil {
		return nil, err
	}
	return &scholarship, nil
}

// List lists all active scholarships
func (r *scholarshipRepository) List(ctx context.Context) ([]*models.Scholarship, error) {
	var scholarships []*models.Scholarship
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&scholarships).Error
	return scholarships, err
}

// Exists checks whether a scholarship exists
func (r *scholarshipRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Scholarship{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
