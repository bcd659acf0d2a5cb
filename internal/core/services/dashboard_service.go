package services

import (
	"context"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService handles dashboard aggregates
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ContractSummary represents a recent contract entry
type ContractSummary struct {
	ID          string    `json:"id"`
	Scholarship string    `json:"scholarship"`
	Deadline    time.Time `json:"deadline"`
	UploadedBy  string    `json:"uploaded_by"`
	Recipients  int       `json:"recipients"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardData represents the CSO dashboard overview
type DashboardData struct {
	TotalStudents     int64 `json:"total_students"`
	TotalContracts    int64 `json:"total_contracts"`
	TotalScholarships int64 `json:"total_scholarships"`

	// Derived-status breakdown, computed at read time
	RevokedStudents  int64 `json:"revoked_students"`
	ExpiredStudents  int64 `json:"expired_students"`
	VerifiedStudents int64 `json:"verified_students"`
	PendingStudents  int64 `json:"pending_students"`

	ContractsThisMonth int64             `json:"contracts_this_month"`
	RecentContracts    []ContractSummary `json:"recent_contracts"`
}

// GetOverview builds the dashboard overview
func (s *DashboardService) GetOverview(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	s.db.WithContext(ctx).Model(&models.Student{}).Count(&data.TotalStudents)
	s.db.WithContext(ctx).Model(&models.Contract{}).Count(&data.TotalContracts)
	s.db.WithContext(ctx).Model(&models.Scholarship{}).Where("is_active = ?", true).Count(&data.TotalScholarships)

	monthStart := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, 1-time.Now().Day())
	s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("created_at >= ?", monthStart).
		Count(&data.ContractsThisMonth)

	// Status is never stored, so the breakdown derives it per student
	var students []*models.Student
	if err := s.db.WithContext(ctx).
		Select("is_revoked", "contract_expiration", "date_verified").
		Find(&students).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	for _, student := range students {
		switch student.DeriveStatus(now) {
		case domain.StatusRevoked:
			data.RevokedStudents++
		case domain.StatusExpired:
			data.ExpiredStudents++
		case domain.StatusVerified:
			data.VerifiedStudents++
		default:
			data.PendingStudents++
		}
	}

	var recent []*models.Contract
	if err := s.db.WithContext(ctx).
		Preload("Scholarship").
		Order("created_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	data.RecentContracts = make([]ContractSummary, 0, len(recent))
	for _, contract := range recent {
		name := ""
		if contract.Scholarship != nil {
			name = contract.Scholarship.Name
		}
		data.RecentContracts = append(data.RecentContracts, ContractSummary{
			ID:          contract.ID,
			Scholarship: name,
			Deadline:    contract.Deadline,
			UploadedBy:  contract.UploadedBy,
			Recipients:  len(contract.RecipientList()),
			CreatedAt:   contract.CreatedAt,
		})
	}

	return data, nil
}
