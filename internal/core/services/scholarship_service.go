package services

import (
	"context"
	"errors"

	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/adapters/persistence/repositories"
	"cso-scholarhub/internal/core/domain"

	"gorm.io/gorm"
)

// ScholarshipService exposes the scholarship master data
type ScholarshipService struct {
	scholarshipRepo repositories.ScholarshipRepository
}

// NewScholarshipService creates a new scholarship service
func NewScholarshipService(scholarshipRepo repositories.ScholarshipRepository) *ScholarshipService {
	return &ScholarshipService{scholarshipRepo: scholarshipRepo}
}

// List returns all scholarship programs
func (s *ScholarshipService) List(ctx context.Context) ([]*models.Scholarship, error) {
	return s.scholarshipRepo.List(ctx)
}

// GetWithContracts returns a program with its published contracts, oldest first
func (s *ScholarshipService) GetWithContracts(ctx context.Context, id uint) (*models.Scholarship, error) {
	scholarship, err := s.scholarshipRepo.GetWithContracts(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrScholarshipNotFound
		}
		return nil, err
	}
	return scholarship, nil
}
