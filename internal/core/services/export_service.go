package services

import (
	"bytes"
	"context"
	"errors"
	"log"
	"path"
	"strings"
	"time"

	"mess-feedback/internal/adapters/storage"
	"mess-feedback/internal/core/domain"

	"github.com/xuri/excelize/v2"
)

const (
	// ExportSheetName is the worksheet holding exported rows
	ExportSheetName = "Feedback Data"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportColumns is the header row, in FeedbackRecord field order
var ExportColumns = []interface{}{
	"id", "regNo", "name", "block", "room", "messName", "messType",
	"category", "feedbackType", "comments", "proofPath", "createdAt",
}

// ExportService snapshots feedback into spreadsheet files
type ExportService struct {
	feedback FeedbackLister
	storage  storage.ObjectStorage
	now      func() time.Time
}

// NewExportService creates a new export service
func NewExportService(feedback FeedbackLister, store storage.ObjectStorage) *ExportService {
	return &ExportService{
		feedback: feedback,
		storage:  store,
		now:      time.Now,
	}
}

// ExportSnapshot writes every current record to a new .xlsx file and
// returns its public location. Each call produces an independent file.
func (s *ExportService) ExportSnapshot(ctx context.Context) (string, error) {
	records, err := s.feedback.ListAll(ctx)
	if err != nil {
		var qe *domain.QueryError
		if errors.As(err, &qe) {
			return "", err
		}
		return "", &domain.QueryError{Err: err}
	}

	buf, err := BuildWorkbook(records)
	if err != nil {
		return "", &domain.SerializationError{Err: err}
	}

	key := path.Join(storage.ExportsPrefix, ExportFilename(s.now()))
	if err := s.storage.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), xlsxContentType); err != nil {
		return "", &domain.IOError{Path: key, Err: err}
	}

	location := s.storage.URL(key)
	log.Printf("✅ Feedback export created: %s (%d rows)", location, len(records))
	return location, nil
}

// ExportFilename builds feedback_export_<ISO timestamp>_<random>.xlsx with
// ':' and '.' in the timestamp replaced by '-'
func ExportFilename(now time.Time) string {
	ts := now.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return "feedback_export_" + ts + "_" + shortID() + ".xlsx"
}

// BuildWorkbook encodes records as a single-sheet workbook with a header row
func BuildWorkbook(records []domain.FeedbackRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, err
	}

	sw, err := f.NewStreamWriter(ExportSheetName)
	if err != nil {
		return nil, err
	}
	if err := sw.SetRow("A1", ExportColumns); err != nil {
		return nil, err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, exportRow(r)); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func exportRow(r domain.FeedbackRecord) []interface{} {
	proof := ""
	if r.ProofPath != nil {
		proof = *r.ProofPath
	}
	return []interface{}{
		r.ID,
		r.RegNo,
		r.Name,
		r.Block,
		r.Room,
		r.MessName,
		string(r.MessType),
		string(r.Category),
		string(r.FeedbackType),
		r.Comments,
		proof,
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
