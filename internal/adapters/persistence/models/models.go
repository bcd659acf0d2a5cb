package models

import (
	"encoding/json"
	"time"

	"cso-scholarhub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents a CSO dashboard user
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'CSO'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ============================================================
// Scholarship Master Table
// ============================================================

// Scholarship represents a named scholarship program. Its contract history
// is append-only: contracts reference the program and are never removed.
type Scholarship struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;size:150;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Contracts   []Contract `gorm:"foreignKey:ScholarshipID" json:"contracts,omitempty"`
	Students    []Student  `gorm:"foreignKey:ScholarshipID" json:"students,omitempty"`
}

func (Scholarship) TableName() string {
	return "scholarships"
}

// ============================================================
// Contract Tables
// ============================================================

// Contract represents a published contract document. Created once,
// never mutated, never deleted.
type Contract struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	FileReference string         `gorm:"size:255;not null" json:"file_reference"`
	FileName      string         `gorm:"size:255" json:"file_name"`
	ScholarshipID uint           `gorm:"index;not null" json:"scholarship_id"`
	Deadline      time.Time      `gorm:"not null" json:"deadline"`
	Comment       string         `gorm:"type:text" json:"comment,omitempty"`
	Recipients    datatypes.JSON `gorm:"not null" json:"recipients"`
	UploadedBy    string         `gorm:"size:100;not null" json:"uploaded_by"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	Scholarship   *Scholarship   `gorm:"foreignKey:ScholarshipID" json:"scholarship,omitempty"`
}

func (Contract) TableName() string {
	return "contracts"
}

// BeforeCreate assigns an opaque identifier
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// RecipientList decodes the stored recipient set
func (c *Contract) RecipientList() []string {
	var recipients []string
	if len(c.Recipients) > 0 {
		_ = json.Unmarshal(c.Recipients, &recipients)
	}
	return recipients
}

// SetRecipients encodes the resolved recipient set
func (c *Contract) SetRecipients(recipients []string) error {
	data, err := json.Marshal(recipients)
	if err != nil {
		return err
	}
	c.Recipients = datatypes.JSON(data)
	return nil
}

// Per-contract sign statuses
const (
	SignStatusPending  = "pending"
	SignStatusSigned   = "signed"
	SignStatusRejected = "rejected"
)

// StudentContract links a contract to one of its recipients. Rows are
// appended when a contract is published; only the status changes afterwards,
// through an explicit sign/reject action.
type StudentContract struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID string    `gorm:"size:36;not null;uniqueIndex:idx_student_contract" json:"contract_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_student_contract" json:"student_id"`
	Status     string    `gorm:"size:10;default:'pending'" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Contract   *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
}

func (StudentContract) TableName() string {
	return "student_contracts"
}

// ============================================================
// Student Table
// ============================================================

// Student represents a scholar. Verification fields are mutated only by the
// explicit verify and revoke actions; revocation is irreversible.
type Student struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	Name               string            `gorm:"size:100" json:"name"`
	Email              string            `gorm:"uniqueIndex;size:100;not null" json:"email"`
	StudentNo          string            `gorm:"column:student_id;size:30" json:"student_id"`
	Gender             string            `gorm:"size:10" json:"gender"`
	University         string            `gorm:"size:150" json:"university"`
	Program            string            `gorm:"size:150" json:"program"`
	College            string            `gorm:"size:150" json:"college"`
	YearLevel          int               `json:"year_level"`
	ScholarshipID      uint              `gorm:"index" json:"scholarship_id"`
	ScholarshipType    string            `gorm:"size:150" json:"scholarship_type,omitempty"`
	GPARequirement     float64           `gorm:"type:decimal(3,2)" json:"gpa_requirement,omitempty"`
	Benefactor         string            `gorm:"size:150" json:"benefactor,omitempty"`
	AcademicYear       string            `gorm:"size:20" json:"academic_year,omitempty"`
	ContractExpiration *time.Time        `json:"contract_expiration,omitempty"`
	IsRevoked          bool              `gorm:"default:false" json:"is_revoked"`
	DateVerified       *time.Time        `json:"date_verified,omitempty"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	Contracts          []StudentContract `gorm:"foreignKey:StudentID" json:"contracts,omitempty"`
}

func (Student) TableName() string {
	return "students"
}

// DeriveStatus computes the display status at now. Never persisted.
func (s *Student) DeriveStatus(now time.Time) domain.Status {
	return domain.DeriveStatus(s.IsRevoked, s.ContractExpiration, s.DateVerified, now)
}

// StudentResponse DTO with the derived status attached
type StudentResponse struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	StudentNo          string     `json:"student_id"`
	Gender             string     `json:"gender"`
	University         string     `json:"university"`
	Program            string     `json:"program"`
	College            string     `json:"college"`
	YearLevel          int        `json:"year_level"`
	ScholarshipID      uint       `json:"scholarship_id"`
	ScholarshipType    string     `json:"scholarship_type,omitempty"`
	GPARequirement     float64    `json:"gpa_requirement,omitempty"`
	Benefactor         string     `json:"benefactor,omitempty"`
	AcademicYear       string     `json:"academic_year,omitempty"`
	ContractExpiration *time.Time `json:"contract_expiration,omitempty"`
	IsRevoked          bool       `json:"is_revoked"`
	DateVerified       *time.Time `json:"date_verified,omitempty"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (s *Student) ToResponse(now time.Time) *StudentResponse {
	return &StudentResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Email:              s.Email,
		StudentNo:          s.StudentNo,
		Gender:             s.Gender,
		University:         s.University,
		Program:            s.Program,
		College:            s.College,
		YearLevel:          s.YearLevel,
		ScholarshipID:      s.ScholarshipID,
		ScholarshipType:    s.ScholarshipType,
		GPARequirement:     s.GPARequirement,
		Benefactor:         s.Benefactor,
		AcademicYear:       s.AcademicYear,
		ContractExpiration: s.ContractExpiration,
		IsRevoked:          s.IsRevoked,
		DateVerified:       s.DateVerified,
		Status:             string(s.DeriveStatus(now)),
		CreatedAt:          s.CreatedAt,
	}
}

// ============================================================
// Notification Table
// ============================================================

// Notification represents a message in the scholars' inbox. Delivery beyond
// this table (per-user fan-out, push) is the consumer's concern.
type Notification struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Message        string         `gorm:"type:text" json:"message"`
	Category       string         `gorm:"size:30;index" json:"category"`
	RequiresAction bool           `gorm:"default:false" json:"requires_action"`
	Deadline       *time.Time     `json:"deadline,omitempty"`
	Recipients     datatypes.JSON `json:"recipients"`
	DatePosted     time.Time      `gorm:"not null" json:"date_posted"`
	PublishedBy    string         `gorm:"size:100" json:"published_by"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// SetRecipients encodes the recipient set
func (n *Notification) SetRecipients(recipients []string) error {
	data, err := json.Marshal(recipients)
	if err != nil {
		return err
	}
	n.Recipients = datatypes.JSON(data)
	return nil
}

// RecipientList decodes the recipient set
func (n *Notification) RecipientList() []string {
	var recipients []string
	if len(n.Recipients) > 0 {
		_ = json.Unmarshal(n.Recipients, &recipients)
	}
	return recipients
}

// ============================================================
// Migration
// ============================================================

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Scholarship{},
		&Student{},
		&Contract{},
		&StudentContract{},
		&Notification{},
	)
}
