package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ledgerbook/backend/internal/domain/shared"
)

// Postgres SQLSTATE codes that mean the transaction ran out of time
const (
	pgLockNotAvailable = "55P03"
	pgQueryCanceled    = "57014"
)

// TranslateError maps a storage error onto the domain error taxonomy.
// Domain errors pass through untouched; nil stays nil.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	if isTimeout(err) {
		return shared.WrapDomainError(shared.CodeTransactionTimeout, shared.ErrTransactionTimeout.Message, err)
	}
	if isUnavailable(err) {
		return shared.WrapDomainError(shared.CodeDatabaseUnavailable, shared.ErrDatabaseUnavailable.Message, err)
	}
	return shared.WrapDomainError(shared.CodeInternal, shared.ErrInternal.Message, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgLockNotAvailable || pgErr.Code == pgQueryCanceled
	}
	return false
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "failed to connect")
}
