package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/adapters/persistence/repositories"
	"cso-scholarhub/internal/core/domain"

	"gorm.io/gorm"
)

// Student service errors
var (
	ErrInvalidSignStatus = errors.New("invalid sign status")
)

// localeDate matches en-US toLocaleDateString output
const localeDate = "1/2/2006"

// StudentService handles scholar listing and the verify/revoke lifecycle
type StudentService struct {
	studentRepo repositories.StudentRepository
	refresher   ViewRefresher
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo repositories.StudentRepository, refresher ViewRefresher) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		refresher:   refresher,
	}
}

// StudentFilter represents listing filters
type StudentFilter struct {
	Query    string // comma-separated terms, all must match
	Category string // scholarship type filter
}

// List returns students matching the filter, revoked last, otherwise by
// ascending application time. Status is derived per call, never stored.
func (s *StudentService) List(ctx context.Context, filter *StudentFilter) ([]*models.StudentResponse, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	terms := parseSearchTerms(filter.Query)

	matched := make([]*models.Student, 0, len(students))
	for _, student := range students {
		if filter.Category != "" && !strings.EqualFold(student.ScholarshipType, filter.Category) {
			continue
		}
		if !matchesTerms(student, terms, now) {
			continue
		}
		matched = append(matched, student)
	}

	sortStudents(matched)

	responses := make([]*models.StudentResponse, 0, len(matched))
	for _, student := range matched {
		responses = append(responses, student.ToResponse(now))
	}
	return responses, nil
}

// sortStudents orders revoked students last, everyone else by ascending
// application time. This is a derived view recomputed per request.
func sortStudents(students []*models.Student) {
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].IsRevoked != students[j].IsRevoked {
			return !students[i].IsRevoked
		}
		return students[i].CreatedAt.Before(students[j].CreatedAt)
	})
}

// parseSearchTerms splits a comma-separated query into trimmed terms
func parseSearchTerms(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var terms []string
	for _, term := range strings.Split(query, ",") {
		if t := strings.TrimSpace(term); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// matchesTerms requires every term to match at least one searchable field,
// including the derived status
func matchesTerms(student *models.Student, terms []string, now time.Time) bool {
	if len(terms) == 0 {
		return true
	}

	fields := []string{
		strings.ToLower(student.Name),
		strings.ToLower(student.Email),
		strings.ToLower(student.University),
		strings.ToLower(student.Program),
		strings.ToLower(student.StudentNo),
		strings.ToLower(student.ScholarshipType),
		strconv.Itoa(student.YearLevel),
		strings.ToLower(student.Gender),
		string(student.DeriveStatus(now)),
	}

	for _, term := range terms {
		found := false
		for _, field := range fields {
			if field != "" && strings.Contains(field, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// GetByID gets a student with derived status
func (s *StudentService) GetByID(ctx context.Context, id uint) (*models.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	return student.ToResponse(time.Now()), nil
}

// VerifyStudentInput represents a verification form submission
type VerifyStudentInput struct {
	ScholarshipType    string  `json:"scholarship_type"`
	GPARequirement     float64 `json:"gpa_requirement"`
	Benefactor         string  `json:"benefactor"`
	AcademicYear       string  `json:"academic_year"`
	ContractExpiration string  `json:"contract_expiration"`
}

// Verify records a successful eligibility check: sets date_verified and the
// verification attributes in one atomic update
func (s *StudentService) Verify(ctx context.Context, id uint, input *VerifyStudentInput) (*models.StudentResponse, error) {
	if strings.TrimSpace(input.ScholarshipType) == "" {
		return nil, domain.NewValidationError("scholarship_type required")
	}
	expiration, err := parseDeadline(input.ContractExpiration)
	if err != nil {
		return nil, domain.NewValidationError("contract_expiration required")
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	if student.IsRevoked {
		return nil, domain.ErrStudentRevoked
	}

	now := time.Now()
	fields := map[string]interface{}{
		"date_verified":       now,
		"scholarship_type":    input.ScholarshipType,
		"gpa_requirement":     input.GPARequirement,
		"benefactor":          input.Benefactor,
		"academic_year":       input.AcademicYear,
		"contract_expiration": expiration,
	}
	if err := s.studentRepo.Verify(ctx, id, fields); err != nil {
		return nil, domain.NewStorageError("verify student", err)
	}

	if s.refresher != nil {
		s.refresher.MarkStale("/verifyAttachments")
	}

	student.DateVerified = &now
	student.ScholarshipType = input.ScholarshipType
	student.GPARequirement = input.GPARequirement
	student.Benefactor = input.Benefactor
	student.AcademicYear = input.AcademicYear
	student.ContractExpiration = &expiration
	return student.ToResponse(now), nil
}

// Revoke marks the student's scholarship as revoked. There is no un-revoke.
func (s *StudentService) Revoke(ctx context.Context, id uint) (*models.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	if student.IsRevoked {
		return nil, domain.ErrStudentRevoked
	}

	if err := s.studentRepo.Revoke(ctx, id); err != nil {
		return nil, domain.NewStorageError("revoke student", err)
	}

	if s.refresher != nil {
		s.refresher.MarkStale("/verifyAttachments")
	}

	student.IsRevoked = true
	return student.ToResponse(time.Now()), nil
}

// SetContractStatus records an explicit sign or reject action
func (s *StudentService) SetContractStatus(ctx context.Context, studentID uint, contractID, status string) error {
	if status != models.SignStatusSigned && status != models.SignStatusRejected {
		return ErrInvalidSignStatus
	}
	if err := s.studentRepo.SetContractStatus(ctx, studentID, contractID, status); err != nil {
		return domain.NewStorageError("set contract status", err)
	}
	return nil
}

// exportColumns is the fixed column order of the verified-student export
var exportColumns = []string{
	"Name", "Sex", "Email", "Student ID", "University", "Program",
	"Year Level", "Date Applied", "Scholarship Type", "GPA Requirement",
	"Benefactor", "Academic Year", "Contract Expiration",
}

// ExportVerifiedCSV renders verified, non-revoked students as CSV, one row
// per student, dates as locale date strings
func (s *StudentService) ExportVerifiedCSV(ctx context.Context) ([]byte, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	verified := make([]*models.Student, 0, len(students))
	for _, student := range students {
		if student.DateVerified != nil && !student.IsRevoked {
			verified = append(verified, student)
		}
	}
	sortStudents(verified)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, student := range verified {
		expiration := ""
		if student.ContractExpiration != nil {
			expiration = student.ContractExpiration.Format(localeDate)
		}
		row := []string{
			student.Name,
			student.Gender,
			student.Email,
			student.StudentNo,
			student.University,
			student.Program,
			strconv.Itoa(student.YearLevel),
			student.CreatedAt.Format(localeDate),
			student.ScholarshipType,
			fmt.Sprintf("%g", student.GPARequirement),
			student.Benefactor,
			student.AcademicYear,
			expiration,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
