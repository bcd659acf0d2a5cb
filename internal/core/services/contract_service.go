package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/adapters/persistence/repositories"
	"cso-scholarhub/internal/adapters/storage"
	"cso-scholarhub/internal/core/domain"

	"gorm.io/gorm"
)

// RecipientEveryone is the sentinel recipient that expands to the full
// roster of the named scholarship at publish time
const RecipientEveryone = "everyone"

// ContractService handles contract publication
type ContractService struct {
	contractRepo    repositories.ContractRepository
	scholarshipRepo repositories.ScholarshipRepository
	studentRepo     repositories.StudentRepository
	blobStore       storage.BlobStore
	notifier        ContractNotifier
	refresher       ViewRefresher
}

// NewContractService creates a new contract service
func NewContractService(
	contractRepo repositories.ContractRepository,
	scholarshipRepo repositories.ScholarshipRepository,
	studentRepo repositories.StudentRepository,
	blobStore storage.BlobStore,
	notifier ContractNotifier,
	refresher ViewRefresher,
) *ContractService {
	return &ContractService{
		contractRepo:    contractRepo,
		scholarshipRepo: scholarshipRepo,
		studentRepo:     studentRepo,
		blobStore:       blobStore,
		notifier:        notifier,
		refresher:       refresher,
	}
}

// PublishContractInput represents a publication request
type PublishContractInput struct {
	FileName      string
	FileContent   []byte
	ScholarshipID uint
	Deadline      string
	Comment       string
	Recipients    []string
	PublishedBy   string
}

// PublishContractOutput represents the publication result
type PublishContractOutput struct {
	ContractID    string `json:"contract_id"`
	FileReference string `json:"file_reference"`
}

// Publish validates the request, stores the file, creates the contract and
// fans out a pending entry to every resolved recipient, then hands the
// contract to the notifier. Validation happens before any side effect; the
// contract create and recipient fan-out commit in one transaction. A file
// stored before a failed commit is not deleted.
func (s *ContractService) Publish(ctx context.Context, input *PublishContractInput) (*PublishContractOutput, error) {
	if len(input.FileContent) == 0 {
		return nil, domain.NewValidationError("file required")
	}
	if input.ScholarshipID == 0 {
		return nil, domain.NewValidationError("scholarship required")
	}
	deadline, err := parseDeadline(input.Deadline)
	if err != nil {
		return nil, domain.NewValidationError("deadline required")
	}
	if len(input.Recipients) == 0 {
		return nil, domain.NewValidationError("recipients required")
	}
	if strings.TrimSpace(input.PublishedBy) == "" {
		return nil, domain.NewValidationError("uploaded_by required")
	}

	scholarship, err := s.scholarshipRepo.GetByID(ctx, input.ScholarshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrScholarshipNotFound
		}
		return nil, domain.NewStorageError("load scholarship", err)
	}

	// Resolve recipients once, before any persistence. The stored contract
	// always holds the resolved set, never the sentinel.
	recipients, err := s.resolveRecipients(ctx, input.Recipients, scholarship.ID)
	if err != nil {
		return nil, domain.NewStorageError("resolve recipients", err)
	}
	if len(recipients) == 0 {
		// A contract is never created without a non-empty recipient set
		return nil, domain.NewValidationError("recipients required")
	}

	fileRef, err := s.blobStore.Store(ctx, input.FileContent, input.FileName)
	if err != nil {
		log.Printf("❌ Contract file store failed: %v", err)
		return nil, domain.NewStorageError("store file", err)
	}

	contract := &models.Contract{
		FileReference: fileRef,
		FileName:      input.FileName,
		ScholarshipID: scholarship.ID,
		Deadline:      deadline,
		Comment:       input.Comment,
		UploadedBy:    input.PublishedBy,
	}
	if err := contract.SetRecipients(recipients); err != nil {
		return nil, domain.NewStorageError("encode recipients", err)
	}

	if err := s.contractRepo.CreateWithRecipients(ctx, contract, recipients); err != nil {
		log.Printf("❌ Contract persistence failed, stored file kept at %s: %v", fileRef, err)
		return nil, domain.NewStorageError("create contract", err)
	}

	// Publish succeeded once the records exist; notification and view
	// refresh are best-effort side effects.
	if s.notifier != nil {
		s.notifier.NotifyContractPublished(contract, scholarship.Name)
	}
	if s.refresher != nil {
		s.refresher.MarkStale("/")
	}

	log.Printf("✅ Contract %s published to %d recipients [scholarship=%s]",
		contract.ID, len(recipients), scholarship.Name)

	return &PublishContractOutput{
		ContractID:    contract.ID,
		FileReference: fileRef,
	}, nil
}

// resolveRecipients expands the "everyone" sentinel to the scholarship
// roster, otherwise returns the explicit set deduplicated
func (s *ContractService) resolveRecipients(ctx context.Context, requested []string, scholarshipID uint) ([]string, error) {
	for _, r := range requested {
		if strings.EqualFold(strings.TrimSpace(r), RecipientEveryone) {
			return s.studentRepo.ListEmailsByScholarship(ctx, scholarshipID)
		}
	}

	seen := make(map[string]bool, len(requested))
	resolved := make([]string, 0, len(requested))
	for _, r := range requested {
		email := strings.TrimSpace(r)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		resolved = append(resolved, email)
	}
	return resolved, nil
}

// parseDeadline accepts date-only and RFC 3339 form values
func parseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty deadline")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// GetByID gets a contract by ID
func (s *ContractService) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContractNotFound
		}
		return nil, err
	}
	return contract, nil
}

// List lists contracts with pagination
func (s *ContractService) List(ctx context.Context, offset, limit int) ([]*models.Contract, int64, error) {
	return s.contractRepo.List(ctx, offset, limit)
}

// ListByScholarship lists a scholarship's contract history
func (s *ContractService) ListByScholarship(ctx context.Context, scholarshipID uint) ([]*models.Contract, error) {
	return s.contractRepo.ListByScholarship(ctx, scholarshipID)
}

// OpenFile reads the stored file content of a contract
func (s *ContractService) OpenFile(ctx context.Context, id string) (*models.Contract, []byte, error) {
	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.blobStore.Open(ctx, contract.FileReference)
	if err != nil {
		return nil, nil, domain.NewStorageError("open file", err)
	}
	return contract, content, nil
}
