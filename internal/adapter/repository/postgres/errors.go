package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL error codes the adapter reacts to
const (
	codeLockNotAvailable = pq.ErrorCode("55P03")
	codeQueryCanceled    = pq.ErrorCode("57014")
	codeUniqueViolation  = pq.ErrorCode("23505")
)

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// isLockTimeout reports whether err means the row lock could not be taken in time
func isLockTimeout(err error) bool {
	return hasCode(err, codeLockNotAvailable) ||
		hasCode(err, codeQueryCanceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
