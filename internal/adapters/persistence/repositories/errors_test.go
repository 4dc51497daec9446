package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"mess-feedback/internal/adapters/persistence/models"
	"mess-feedback/internal/core/domain"

	"github.com/go-sql-driver/mysql"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"hook constraint", fmt.Errorf("%w: column comments cannot be empty", models.ErrConstraint), false},
		{"enum truncated", &mysql.MySQLError{Number: 1265, Message: "Data truncated for column 'mess_type'"}, false},
		{"null column", &mysql.MySQLError{Number: 1048, Message: "Column 'name' cannot be null"}, false},
		{"duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"server gone", &mysql.MySQLError{Number: 2006, Message: "MySQL server has gone away"}, true},
		{"pool wait timeout", context.DeadlineExceeded, true},
		{"bad conn", driver.ErrBadConn, true},
		{"invalid conn", mysql.ErrInvalidConn, true},
		{"unknown", errors.New("boom"), true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("insert feedback", tt.err)

			var se *domain.StorageError
			if !errors.As(err, &se) {
				t.Fatalf("expected StorageError, got %T", err)
			}
			if se.Retryable != tt.retryable {
				t.Fatalf("retryable = %v, want %v", se.Retryable, tt.retryable)
			}
			if !errors.Is(err, tt.err) {
				t.Fatal("cause lost in wrapping")
			}
		})
	}
}

func TestClassifyPassesThrough(t *testing.T) {
	if classify("op", nil) != nil {
		t.Fatal("nil must stay nil")
	}

	inner := &domain.StorageError{Op: "query feedback", Retryable: true, Err: errors.New("x")}
	if got := classify("other", inner); got != error(inner) {
		t.Fatalf("expected existing StorageError unchanged, got %v", got)
	}
}

func TestIsDuplicateEntry(t *testing.T) {
	if !isDuplicateEntry(fmt.Errorf("create: %w", &mysql.MySQLError{Number: 1062})) {
		t.Fatal("expected wrapped 1062 to be a duplicate")
	}
	if isDuplicateEntry(&mysql.MySQLError{Number: 1048}) || isDuplicateEntry(errors.New("x")) {
		t.Fatal("unexpected duplicate match")
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := withTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > 50*time.Millisecond {
		t.Fatalf("expected a deadline within 50ms, got %v", deadline)
	}

	parent, cancelParent := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelParent()
	ctx, cancel = withTimeout(parent, time.Minute)
	defer cancel()
	if d, _ := ctx.Deadline(); !d.Equal(mustDeadline(parent)) {
		t.Fatal("expected the earlier parent deadline to be kept")
	}

	ctx, cancel = withTimeout(context.Background(), 0)
	defer cancel()
	if d, ok := ctx.Deadline(); !ok || time.Until(d) > DefaultOpTimeout {
		t.Fatal("expected DefaultOpTimeout for a zero duration")
	}
}

func mustDeadline(ctx context.Context) time.Time {
	d, _ := ctx.Deadline()
	return d
}
