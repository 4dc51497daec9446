package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"mess-feedback/internal/adapters/persistence/models"
	"mess-feedback/internal/adapters/persistence/repositories"
	"mess-feedback/internal/adapters/storage"
	"mess-feedback/internal/core/domain"

	"github.com/google/uuid"
)

// DefaultUploadMaxBytes caps a proof attachment when no limit is configured
const DefaultUploadMaxBytes = 10 << 20

// Attachment is an uploaded proof file
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// SubmitFeedbackInput represents one feedback submission
type SubmitFeedbackInput struct {
	RegNo        string
	Name         string
	Block        string
	Room         string
	MessName     string
	MessType     string
	Category     string
	FeedbackType string
	Comments     string
	Proof        *Attachment
}

// requiredFields returns the required fields in validation order
func (in *SubmitFeedbackInput) requiredFields() []struct{ name, value string } {
	return []struct{ name, value string }{
		{"regNo", in.RegNo},
		{"name", in.Name},
		{"block", in.Block},
		{"room", in.Room},
		{"messName", in.MessName},
		{"messType", in.MessType},
		{"category", in.Category},
		{"feedbackType", in.FeedbackType},
		{"comments", in.Comments},
	}
}

// FeedbackService handles feedback ingestion and listing
type FeedbackService struct {
	repo           repositories.FeedbackRepository
	storage        storage.ObjectStorage
	maxUploadBytes int64
	now            func() time.Time
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(repo repositories.FeedbackRepository, store storage.ObjectStorage, maxUploadBytes int64) *FeedbackService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultUploadMaxBytes
	}
	return &FeedbackService{
		repo:           repo,
		storage:        store,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// Validate checks the submission and returns the row to insert. Values are
// stored exactly as submitted; whitespace-only values count as missing.
func (s *FeedbackService) Validate(input *SubmitFeedbackInput) (*models.Feedback, error) {
	for _, f := range input.requiredFields() {
		if strings.TrimSpace(f.value) == "" {
			return nil, &domain.ValidationError{Field: f.name, Missing: true}
		}
	}

	row := &models.Feedback{
		RegNo:        input.RegNo,
		Name:         input.Name,
		Block:        input.Block,
		Room:         input.Room,
		MessName:     input.MessName,
		MessType:     domain.MessType(input.MessType),
		Category:     domain.Category(input.Category),
		FeedbackType: domain.FeedbackType(input.FeedbackType),
		Comments:     input.Comments,
	}

	if !row.MessType.Valid() {
		return nil, &domain.ValidationError{Field: "messType"}
	}
	if !row.Category.Valid() {
		return nil, &domain.ValidationError{Field: "category"}
	}
	if !row.FeedbackType.Valid() {
		return nil, &domain.ValidationError{Field: "feedbackType"}
	}
	return row, nil
}

// Submit validates and stores one submission and returns the new record id.
// The attachment is stored before the insert; if either step fails nothing
// is inserted.
func (s *FeedbackService) Submit(ctx context.Context, input *SubmitFeedbackInput) (uint, error) {
	row, err := s.Validate(input)
	if err != nil {
		return 0, err
	}

	var proofKey string
	if input.Proof != nil {
		proofKey, err = s.storeAttachment(ctx, input.Proof)
		if err != nil {
			return 0, err
		}
		location := s.storage.URL(proofKey)
		row.ProofPath = &location
	}

	id, err := s.repo.Insert(ctx, row)
	if err != nil {
		if proofKey != "" {
			if delErr := s.storage.Delete(context.WithoutCancel(ctx), proofKey); delErr != nil {
				log.Printf("⚠️ Failed to remove orphaned attachment %s: %v", proofKey, delErr)
			}
		}
		return 0, err
	}

	log.Printf("✅ Feedback submitted: id=%d regNo=%s type=%s", id, row.RegNo, row.FeedbackType)
	return id, nil
}

// ListAll returns every feedback record, newest first
func (s *FeedbackService) ListAll(ctx context.Context) ([]domain.FeedbackRecord, error) {
	rows, err := s.repo.QueryAll(ctx)
	if err != nil {
		return nil, &domain.QueryError{Err: err}
	}

	records := make([]domain.FeedbackRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].ToDomain())
	}
	return records, nil
}

// storeAttachment writes the proof under the uploads prefix and returns its key
func (s *FeedbackService) storeAttachment(ctx context.Context, a *Attachment) (string, error) {
	if a.Reader == nil {
		return "", &domain.AttachmentError{Err: errors.New("attachment has no content")}
	}
	if a.Size > s.maxUploadBytes {
		return "", &domain.AttachmentError{
			Err: fmt.Errorf("attachment is %d bytes, limit is %d", a.Size, s.maxUploadBytes),
		}
	}

	key := path.Join(storage.UploadsPrefix, AttachmentFilename(s.now(), a.Filename))
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.Put(ctx, key, a.Reader, a.Size, contentType); err != nil {
		return "", &domain.AttachmentError{Err: err}
	}
	return key, nil
}

// AttachmentFilename builds <epoch-millis>-<random>-<original name>. The
// random part keeps equal names uploaded in the same millisecond apart.
func AttachmentFilename(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), shortID(), sanitizeFilename(original))
}

// shortID returns 8 hex characters of a random UUID
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// sanitizeFilename strips directories and characters unsafe in paths or URLs
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	clean := strings.Trim(b.String(), ".")
	if clean == "" {
		return "proof"
	}
	return clean
}
