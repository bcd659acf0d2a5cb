package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Fakes
// ============================================================

type fakeContractRepo struct {
	created    *models.Contract
	recipients []string
	createErr  error
	contracts  map[string]*models.Contract
}

func (f *fakeContractRepo) CreateWithRecipients(_ context.Context, contract *models.Contract, recipients []string) error {
	if f.createErr != nil {
		return f.createErr
	}
	if contract.ID == "" {
		contract.ID = "test-contract-id"
	}
	f.created = contract
	f.recipients = recipients
	return nil
}

func (f *fakeContractRepo) GetByID(_ context.Context, id string) (*models.Contract, error) {
	if c, ok := f.contracts[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeContractRepo) List(_ context.Context, _, _ int) ([]*models.Contract, int64, error) {
	return nil, 0, nil
}

func (f *fakeContractRepo) ListByScholarship(_ context.Context, _ uint) ([]*models.Contract, error) {
	return nil, nil
}

func (f *fakeContractRepo) ListWithDeadlineBetween(_ context.Context, _, _ time.Time) ([]*models.Contract, error) {
	return nil, nil
}

func (f *fakeContractRepo) PendingRecipients(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

type fakeScholarshipRepo struct {
	scholarships map[uint]*models.Scholarship
}

func (f *fakeScholarshipRepo) GetByID(_ context.Context, id uint) (*models.Scholarship, error) {
	if s, ok := f.scholarships[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScholarshipRepo) GetWithContracts(_ context.Context, id uint) (*models.Scholarship, error) {
	return f.GetByID(nil, id)
}

func (f *fakeScholarshipRepo) List(_ context.Context) ([]*models.Scholarship, error) {
	return nil, nil
}

func (f *fakeScholarshipRepo) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := f.scholarships[id]
	return ok, nil
}

type fakeStudentRepo struct {
	students     map[uint]*models.Student
	rosterEmails []string
	verified     map[uint]map[string]interface{}
	revoked      []uint
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id uint) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	for _, s := range f.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) List(_ context.Context) ([]*models.Student, error) {
	out := make([]*models.Student, 0, len(f.students))
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStudentRepo) ListEmailsByScholarship(_ context.Context, _ uint) ([]string, error) {
	return f.rosterEmails, nil
}

func (f *fakeStudentRepo) Verify(_ context.Context, id uint, fields map[string]interface{}) error {
	if f.verified == nil {
		f.verified = make(map[uint]map[string]interface{})
	}
	f.verified[id] = fields
	return nil
}

func (f *fakeStudentRepo) Revoke(_ context.Context, id uint) error {
	f.revoked = append(f.revoked, id)
	return nil
}

func (f *fakeStudentRepo) SetContractStatus(_ context.Context, _ uint, _, _ string) error {
	return nil
}

type fakeBlobStore struct {
	stored   [][]byte
	storeErr error
}

func (f *fakeBlobStore) Store(_ context.Context, content []byte, suggestedName string) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.stored = append(f.stored, content)
	return "/uploads/1000-" + suggestedName, nil
}

func (f *fakeBlobStore) Open(_ context.Context, _ string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

type fakeNotifier struct {
	published []string
}

func (f *fakeNotifier) NotifyContractPublished(_ *models.Contract, scholarshipName string) {
	f.published = append(f.published, scholarshipName)
}

type fakeRefresher struct {
	stale []string
}

func (f *fakeRefresher) MarkStale(path string) {
	f.stale = append(f.stale, path)
}

// ============================================================
// Tests
// ============================================================

func newPublishFixture() (*ContractService, *fakeContractRepo, *fakeStudentRepo, *fakeBlobStore, *fakeNotifier, *fakeRefresher) {
	contractRepo := &fakeContractRepo{}
	scholarshipRepo := &fakeScholarshipRepo{
		scholarships: map[uint]*models.Scholarship{
			1: {ID: 1, Name: "Academic Excellence Scholarship"},
		},
	}
	studentRepo := &fakeStudentRepo{
		rosterEmails: []string{"ana@xu.edu.ph", "ben@xu.edu.ph", "carl@xu.edu.ph"},
	}
	blobStore := &fakeBlobStore{}
	notifier := &fakeNotifier{}
	refresher := &fakeRefresher{}

	svc := NewContractService(contractRepo, scholarshipRepo, studentRepo, blobStore, notifier, refresher)
	return svc, contractRepo, studentRepo, blobStore, notifier, refresher
}

func validPublishInput() *PublishContractInput {
	return &PublishContractInput{
		FileName:      "Contract 2026.pdf",
		FileContent:   []byte("%PDF-1.4 fake"),
		ScholarshipID: 1,
		Deadline:      "2026-04-30",
		Recipients:    []string{"ana@xu.edu.ph", "ben@xu.edu.ph"},
		PublishedBy:   "cso@xu.edu.ph",
	}
}

func TestPublishValidationFailuresHaveNoSideEffects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PublishContractInput)
		reason string
	}{
		{"missing file", func(in *PublishContractInput) { in.FileContent = nil }, "file required"},
		{"missing scholarship", func(in *PublishContractInput) { in.ScholarshipID = 0 }, "scholarship required"},
		{"missing deadline", func(in *PublishContractInput) { in.Deadline = "" }, "deadline required"},
		{"garbage deadline", func(in *PublishContractInput) { in.Deadline = "soon" }, "deadline required"},
		{"missing recipients", func(in *PublishContractInput) { in.Recipients = nil }, "recipients required"},
		{"missing publisher", func(in *PublishContractInput) { in.PublishedBy = "  " }, "uploaded_by required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, contractRepo, _, blobStore, notifier, _ := newPublishFixture()
			input := validPublishInput()
			tt.mutate(input)

			_, err := svc.Publish(context.Background(), input)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", ve.Reason, tt.reason)
			}
			if len(blobStore.stored) != 0 {
				t.Error("file was stored despite validation failure")
			}
			if contractRepo.created != nil {
				t.Error("contract was created despite validation failure")
			}
			if len(notifier.published) != 0 {
				t.Error("notification was emitted despite validation failure")
			}
		})
	}
}

func TestPublishUnknownScholarship(t *testing.T) {
	svc, _, _, blobStore, _, _ := newPublishFixture()
	input := validPublishInput()
	input.ScholarshipID = 99

	_, err := svc.Publish(context.Background(), input)
	if !errors.Is(err, domain.ErrScholarshipNotFound) {
		t.Fatalf("expected ErrScholarshipNotFound, got %v", err)
	}
	if len(blobStore.stored) != 0 {
		t.Error("file was stored for unknown scholarship")
	}
}

func TestPublishExpandsEveryone(t *testing.T) {
	svc, contractRepo, _, _, _, _ := newPublishFixture()
	input := validPublishInput()
	input.Recipients = []string{"Everyone"}

	out, err := svc.Publish(context.Background(), input)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if out.ContractID == "" {
		t.Error("missing contract ID")
	}

	want := []string{"ana@xu.edu.ph", "ben@xu.edu.ph", "carl@xu.edu.ph"}
	if len(contractRepo.recipients) != len(want) {
		t.Fatalf("recipients = %v, want %v", contractRepo.recipients, want)
	}
	for i, email := range want {
		if contractRepo.recipients[i] != email {
			t.Errorf("recipients[%d] = %q, want %q", i, contractRepo.recipients[i], email)
		}
	}

	// The stored contract carries the resolved roster, not the sentinel
	stored := contractRepo.created.RecipientList()
	for _, email := range stored {
		if strings.EqualFold(email, RecipientEveryone) {
			t.Error("sentinel leaked into stored recipients")
		}
	}
}

func TestPublishKeepsExplicitRecipientsVerbatim(t *testing.T) {
	svc, contractRepo, _, _, _, _ := newPublishFixture()
	input := validPublishInput()
	input.Recipients = []string{" ana@xu.edu.ph ", "ben@xu.edu.ph", "ana@xu.edu.ph", ""}

	if _, err := svc.Publish(context.Background(), input); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	want := []string{"ana@xu.edu.ph", "ben@xu.edu.ph"}
	if len(contractRepo.recipients) != len(want) {
		t.Fatalf("recipients = %v, want %v", contractRepo.recipients, want)
	}
}

func TestPublishEmptyRosterFails(t *testing.T) {
	svc, contractRepo, studentRepo, blobStore, _, _ := newPublishFixture()
	studentRepo.rosterEmails = nil
	input := validPublishInput()
	input.Recipients = []string{"everyone"}

	_, err := svc.Publish(context.Background(), input)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(blobStore.stored) != 0 || contractRepo.created != nil {
		t.Error("side effects despite empty roster")
	}
}

func TestPublishStoreFailure(t *testing.T) {
	svc, contractRepo, _, blobStore, notifier, _ := newPublishFixture()
	blobStore.storeErr = errors.New("disk full")

	_, err := svc.Publish(context.Background(), validPublishInput())
	if !domain.IsStorageError(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if contractRepo.created != nil {
		t.Error("contract created despite store failure")
	}
	if len(notifier.published) != 0 {
		t.Error("notification emitted despite store failure")
	}
}

func TestPublishCreateFailureKeepsFile(t *testing.T) {
	svc, _, _, blobStore, notifier, refresher := newPublishFixture()
	svc.contractRepo.(*fakeContractRepo).createErr = errors.New("deadlock")

	_, err := svc.Publish(context.Background(), validPublishInput())
	if !domain.IsStorageError(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	// The blob is written before the transaction and deliberately kept
	if len(blobStore.stored) != 1 {
		t.Error("expected file to remain stored")
	}
	if len(notifier.published) != 0 || len(refresher.stale) != 0 {
		t.Error("post-commit effects ran despite create failure")
	}
}

func TestPublishSuccessEmitsNotificationAndRefresh(t *testing.T) {
	svc, contractRepo, _, _, notifier, refresher := newPublishFixture()

	out, err := svc.Publish(context.Background(), validPublishInput())
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if out.FileReference == "" {
		t.Error("missing file reference")
	}
	if contractRepo.created.UploadedBy != "cso@xu.edu.ph" {
		t.Errorf("uploaded_by = %q", contractRepo.created.UploadedBy)
	}
	if len(notifier.published) != 1 || notifier.published[0] != "Academic Excellence Scholarship" {
		t.Errorf("notifier calls = %v", notifier.published)
	}
	if len(refresher.stale) != 1 || refresher.stale[0] != "/" {
		t.Errorf("refresher calls = %v", refresher.stale)
	}
}

func TestParseDeadline(t *testing.T) {
	if _, err := parseDeadline("2026-04-30"); err != nil {
		t.Errorf("date-only form rejected: %v", err)
	}
	if _, err := parseDeadline("2026-04-30T15:00:00Z"); err != nil {
		t.Errorf("RFC 3339 form rejected: %v", err)
	}
	if _, err := parseDeadline("30/04/2026"); err == nil {
		t.Error("unparseable form accepted")
	}
}
