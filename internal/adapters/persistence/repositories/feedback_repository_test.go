package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"mess-feedback/internal/adapters/persistence/models"
	"mess-feedback/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var feedbackColumns = []string{
	"id", "reg_no", "name", "block", "room", "mess_name", "mess_type",
	"category", "feedback_type", "comments", "proof_path", "created_at",
}

// newMockDB opens gorm's MySQL dialector over a mocked connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet SQL expectations: %v", err)
		}
	})
	return db, mock
}

func newMockFeedbackRepo(t *testing.T, opTimeout time.Duration) (FeedbackRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewFeedbackRepository(db, opTimeout), mock
}

func validRow() *models.Feedback {
	return &models.Feedback{
		RegNo:        "21BCE1001",
		Name:         "Asha",
		Block:        "A",
		Room:         "101",
		MessName:     "Central Mess",
		MessType:     domain.MessTypeVeg,
		Category:     domain.CategoryHygiene,
		FeedbackType: domain.FeedbackTypeComplaint,
		Comments:     "Plates were not washed properly.",
	}
}

var insertFeedback = regexp.QuoteMeta("INSERT INTO `feedback`")

func TestInsertAssignsStoreIDAndTimestamp(t *testing.T) {
	repo, mock := newMockFeedbackRepo(t, time.Second)
	mock.ExpectExec(insertFeedback).WillReturnResult(sqlmock.NewResult(42, 1))

	stale := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	row := validRow()
	row.ID = 7
	row.CreatedAt = stale

	before := time.Now().Add(-time.Second)
	id, err := repo.Insert(context.Background(), row)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 42 || row.ID != 42 {
		t.Fatalf("expected the store-assigned id 42, got %d (row %d)", id, row.ID)
	}
	if row.CreatedAt.Equal(stale) || row.CreatedAt.Before(before) {
		t.Fatalf("expected created_at to be assigned on insert, got %s", row.CreatedAt)
	}
}

func TestInsertConstraintFailureIsNotRetryable(t *testing.T) {
	repo, mock := newMockFeedbackRepo(t, time.Second)
	mock.ExpectExec(insertFeedback).
		WillReturnError(&mysql.MySQLError{Number: 1265, Message: "Data truncated for column 'mess_type'"})

	_, err := repo.Insert(context.Background(), validRow())
	var se *domain.StorageError
	if !errors.As(err, &se) || se.Retryable {
		t.Fatalf("expected a non-retryable StorageError, got %v", err)
	}
}

func TestInsertRejectsInvalidRowBeforeSQL(t *testing.T) {
	repo, _ := newMockFeedbackRepo(t, time.Second)

	row := validRow()
	row.Category = "Price"
	_, err := repo.Insert(context.Background(), row)
	if !errors.Is(err, models.ErrConstraint) || domain.IsRetryable(err) {
		t.Fatalf("expected a constraint error without touching the store, got %v", err)
	}
}

func TestQueryAllOrdersNewestFirst(t *testing.T) {
	repo, mock := newMockFeedbackRepo(t, time.Second)

	newer := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	proof := "/uploads/1-abcd1234-plate.jpg"
	mock.ExpectQuery(`^SELECT \* FROM ` + "`feedback`" + ` ORDER BY created_at DESC,\s*id DESC$`).
		WillReturnRows(sqlmock.NewRows(feedbackColumns).
			AddRow(3, "21BCE1003", "Ravi", "B", "202", "Central Mess", "Non-Veg", "Quantity", "Suggestion", "More rotis", nil, newer).
			AddRow(2, "21BCE1002", "Meera", "C", "303", "Central Mess", "Veg", "Quality", "Appreciation", "Good dal", proof, newer).
			AddRow(1, "21BCE1001", "Asha", "A", "101", "Central Mess", "Veg", "Hygiene", "Complaint", "Dirty plates", nil, older))

	rows, err := repo.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 3 || rows[0].ID != 3 || rows[1].ID != 2 || rows[2].ID != 1 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[0].MessType != domain.MessTypeNonVeg || rows[0].ProofPath != nil {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[1].ProofPath == nil || *rows[1].ProofPath != proof {
		t.Fatalf("expected proof path %s on row 2", proof)
	}
}

func TestQueryAllEmptyStoreReturnsEmptySlice(t *testing.T) {
	repo, mock := newMockFeedbackRepo(t, time.Second)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `feedback`")).
		WillReturnRows(sqlmock.NewRows(feedbackColumns))

	rows, err := repo.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected an empty non-nil slice, got %#v", rows)
	}
}

func TestQueryAllTimesOutAsRetryable(t *testing.T) {
	repo, mock := newMockFeedbackRepo(t, 20*time.Millisecond)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `feedback`")).
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows(feedbackColumns))

	start := time.Now()
	_, err := repo.QueryAll(context.Background())
	if !domain.IsRetryable(err) {
		t.Fatalf("expected a retryable StorageError, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("expected the operation timeout to cut the query short, took %s", elapsed)
	}
}

func TestCountByGroupsEnumColumn(t *testing.T) {
	repo, mock := newMockFeedbackRepo(t, time.Second)
	mock.ExpectQuery(`SELECT mess_type AS value, COUNT\(\*\) AS total FROM ` + "`feedback`" + ` GROUP BY .?mess_type.?`).
		WillReturnRows(sqlmock.NewRows([]string{"value", "total"}).
			AddRow("Veg", 4).
			AddRow("Night Mess", 1))

	counts, err := repo.CountBy(context.Background(), "mess_type")
	if err != nil {
		t.Fatalf("count by: %v", err)
	}
	if counts["Veg"] != 4 || counts["Night Mess"] != 1 || len(counts) != 2 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestCountByRejectsUnknownColumn(t *testing.T) {
	repo, _ := newMockFeedbackRepo(t, time.Second)

	for _, column := range []string{"comments", "reg_no; DROP TABLE feedback", ""} {
		if _, err := repo.CountBy(context.Background(), column); err == nil {
			t.Fatalf("expected column %q to be rejected", column)
		}
	}
}

func TestCountSince(t *testing.T) {
	repo, mock := newMockFeedbackRepo(t, time.Second)
	since := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `feedback` WHERE created_at >= ?")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(5))

	n, err := repo.CountSince(context.Background(), since)
	if err != nil || n != 5 {
		t.Fatalf("expected 5, got %d (%v)", n, err)
	}
}
