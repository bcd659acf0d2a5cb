package repositories

import (
	"context"

	"cso-scholarhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// studentRepository implements StudentRepository interface
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

// GetByID gets a student by ID
func (r *studentRepository) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByEmail gets a student by email
func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// List lists all students
func (r *studentRepository) List(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	err := r.db.WithContext(ctx).Find(&students).Error
	return students, err
}

// ListEmailsByScholarship returns the emails of all students enrolled in
// the scholarship. Used to resolve the "everyone" recipient sentinel.
func (r *studentRepository) ListEmailsByScholarship(ctx context.Context, scholarshipID uint) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("scholarship_id = ?", scholarshipID).
		Pluck("email", &emails).Error
	return emails, err
}

// Verify applies the verification fields as one atomic UPDATE
func (r *studentRepository) Verify(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Revoke marks the student's scholarship as revoked. Irreversible.
func (r *studentRepository) Revoke(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Update("is_revoked", true).Error
}

// SetContractStatus updates a student's per-contract sign status
func (r *studentRepository) SetContractStatus(ctx context.Context, studentID uint, contractID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.StudentContract{}).
		Where("student_id = ? AND contract_id = ?", studentID, contractID).
		Update("status", status).Error
}
