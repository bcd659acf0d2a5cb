package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/core/domain"
)

func ts(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func seededStudentRepo() *fakeStudentRepo {
	verified := ts("2026-01-10")
	return &fakeStudentRepo{
		students: map[uint]*models.Student{
			1: {
				ID: 1, Name: "Ana Cruz", Email: "ana@xu.edu.ph",
				StudentNo: "2021-00123", Gender: "Female",
				University: "Xavier University", Program: "BS Computer Science",
				YearLevel: 3, ScholarshipType: "Academic Excellence Scholarship",
				DateVerified: &verified, ContractExpiration: tsp("2099-06-01"),
				CreatedAt: ts("2025-08-01"),
			},
			2: {
				ID: 2, Name: "Ben Reyes", Email: "ben@xu.edu.ph",
				StudentNo: "2022-00456", Gender: "Male",
				University: "Xavier University", Program: "BS Nursing",
				YearLevel: 2, CreatedAt: ts("2025-07-01"),
			},
			3: {
				ID: 3, Name: "Carl Uy", Email: "carl@xu.edu.ph",
				StudentNo: "2020-00789", Gender: "Male",
				University: "Xavier University", Program: "BS Accountancy",
				YearLevel: 4, IsRevoked: true,
				CreatedAt: ts("2025-06-01"),
			},
		},
	}
}

func TestListSortsRevokedLast(t *testing.T) {
	svc := NewStudentService(seededStudentRepo(), nil)

	students, err := svc.List(context.Background(), &StudentFilter{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(students) != 3 {
		t.Fatalf("got %d students, want 3", len(students))
	}

	// Non-revoked in application order, revoked at the end even though
	// Carl applied first
	wantOrder := []uint{2, 1, 3}
	for i, want := range wantOrder {
		if students[i].ID != want {
			t.Errorf("position %d: got ID %d, want %d", i, students[i].ID, want)
		}
	}
	if students[2].Status != string(domain.StatusRevoked) {
		t.Errorf("revoked student status = %q", students[2].Status)
	}
}

func TestListSearchAllTermsMustMatch(t *testing.T) {
	svc := NewStudentService(seededStudentRepo(), nil)

	// Both terms match Ana only: "nursing" matches Ben, "ana" matches Ana,
	// together they match nobody
	students, err := svc.List(context.Background(), &StudentFilter{Query: "ana, nursing"})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(students) != 0 {
		t.Errorf("got %d students, want 0", len(students))
	}

	students, _ = svc.List(context.Background(), &StudentFilter{Query: "xavier, accountancy"})
	if len(students) != 1 || students[0].ID != 3 {
		t.Errorf("combined search returned %d students", len(students))
	}
}

func TestListSearchMatchesDerivedStatus(t *testing.T) {
	svc := NewStudentService(seededStudentRepo(), nil)

	students, err := svc.List(context.Background(), &StudentFilter{Query: "revoked"})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(students) != 1 || students[0].ID != 3 {
		t.Errorf("status search returned %d students", len(students))
	}
}

func TestListCategoryFilter(t *testing.T) {
	svc := NewStudentService(seededStudentRepo(), nil)

	students, err := svc.List(context.Background(), &StudentFilter{Category: "academic excellence scholarship"})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(students) != 1 || students[0].ID != 1 {
		t.Errorf("category filter returned %d students", len(students))
	}
}

func TestVerifyRequiresFields(t *testing.T) {
	svc := NewStudentService(seededStudentRepo(), nil)

	_, err := svc.Verify(context.Background(), 2, &VerifyStudentInput{
		ContractExpiration: "2099-06-01",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Reason != "scholarship_type required" {
		t.Errorf("missing type: got %v", err)
	}

	_, err = svc.Verify(context.Background(), 2, &VerifyStudentInput{
		ScholarshipType: "Academic Excellence Scholarship",
	})
	if !errors.As(err, &ve) || ve.Reason != "contract_expiration required" {
		t.Errorf("missing expiration: got %v", err)
	}
}

func TestVerifySetsFieldsAtomically(t *testing.T) {
	repo := seededStudentRepo()
	refresher := &fakeRefresher{}
	svc := NewStudentService(repo, refresher)

	student, err := svc.Verify(context.Background(), 2, &VerifyStudentInput{
		ScholarshipType:    "Merit Scholarship",
		GPARequirement:     3.5,
		Benefactor:         "Alumni Association",
		AcademicYear:       "2026-2027",
		ContractExpiration: "2099-06-01",
	})
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if student.Status != string(domain.StatusVerified) {
		t.Errorf("status = %q, want verified", student.Status)
	}

	fields := repo.verified[2]
	if fields == nil {
		t.Fatal("no update recorded")
	}
	for _, key := range []string{"date_verified", "scholarship_type", "gpa_requirement", "benefactor", "academic_year", "contract_expiration"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("update missing field %q", key)
		}
	}
	if len(refresher.stale) != 1 || refresher.stale[0] != "/verifyAttachments" {
		t.Errorf("refresher calls = %v", refresher.stale)
	}
}

func TestVerifyRefusesRevoked(t *testing.T) {
	svc := NewStudentService(seededStudentRepo(), nil)

	_, err := svc.Verify(context.Background(), 3, &VerifyStudentInput{
		ScholarshipType:    "Merit Scholarship",
		ContractExpiration: "2099-06-01",
	})
	if !errors.Is(err, domain.ErrStudentRevoked) {
		t.Errorf("got %v, want ErrStudentRevoked", err)
	}
}

func TestRevoke(t *testing.T) {
	repo := seededStudentRepo()
	svc := NewStudentService(repo, nil)

	student, err := svc.Revoke(context.Background(), 1)
	if err != nil {
		t.Fatalf("Revoke() error: %v", err)
	}
	if student.Status != string(domain.StatusRevoked) {
		t.Errorf("status = %q, want revoked", student.Status)
	}

	// Already revoked is refused, there is no un-revoke
	if _, err := svc.Revoke(context.Background(), 3); !errors.Is(err, domain.ErrStudentRevoked) {
		t.Errorf("double revoke: got %v", err)
	}

	if _, err := svc.Revoke(context.Background(), 99); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Errorf("unknown student: got %v", err)
	}
}

func TestSetContractStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewStudentService(seededStudentRepo(), nil)

	for _, status := range []string{"pending", "maybe", ""} {
		if err := svc.SetContractStatus(context.Background(), 1, "c1", status); !errors.Is(err, ErrInvalidSignStatus) {
			t.Errorf("status %q: got %v", status, err)
		}
	}
	if err := svc.SetContractStatus(context.Background(), 1, "c1", models.SignStatusSigned); err != nil {
		t.Errorf("signed: got %v", err)
	}
}

func TestExportVerifiedCSV(t *testing.T) {
	svc := NewStudentService(seededStudentRepo(), nil)

	content, err := svc.ExportVerifiedCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportVerifiedCSV() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\r\n")
	// Header plus Ana; Ben is unverified and Carl is revoked
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), content)
	}
	if !strings.HasPrefix(lines[0], "Name,Sex,Email,Student ID,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Ana Cruz") {
		t.Errorf("missing verified student: %s", lines[1])
	}
	// Locale date format, no leading zeros
	if !strings.Contains(lines[1], "6/1/2099") {
		t.Errorf("expiration not in locale format: %s", lines[1])
	}
}
