package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"mess-feedback/internal/adapters/persistence/models"
	"mess-feedback/internal/core/domain"

	"github.com/go-sql-driver/mysql"
)

// DefaultOpTimeout bounds how long a single store call may wait for a pooled connection
const DefaultOpTimeout = 5 * time.Second

// MySQL server error numbers that indicate a rejected row rather than an unavailable server
var constraintErrNumbers = map[uint16]bool{
	1048: true, // column cannot be null
	1062: true, // duplicate entry
	1265: true, // data truncated (enum out of domain)
	1364: true, // field has no default value
	1366: true, // incorrect value
	1406: true, // data too long
	3819: true, // check constraint violated
}

// isDuplicateEntry reports whether err is a MySQL unique key violation
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// classify wraps err into a StorageError, separating constraint failures
// from connectivity failures.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var se *domain.StorageError
	if errors.As(err, &se) {
		return err
	}

	retryable := true
	var me *mysql.MySQLError
	var ne net.Error
	switch {
	case errors.Is(err, models.ErrConstraint):
		retryable = false
	case errors.As(err, &me):
		retryable = !constraintErrNumbers[me.Number]
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, sql.ErrConnDone),
		errors.As(err, &ne):
		retryable = true
	}

	return &domain.StorageError{Op: op, Retryable: retryable, Err: err}
}

// withTimeout applies the operation timeout unless ctx already has an earlier deadline
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultOpTimeout
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < d {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
