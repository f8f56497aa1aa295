// Package cache stores rendered reports per user, in Redis or in process memory.
package cache

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// ReportCache caches rendered reports per user.
// Values are stored as JSON, so a hit decodes into dest the same way an HTTP
// client would decode the report.
//
// Every user has a generation. Get reports the generation it looked in, and
// Set writes under the generation it is given; a write for a generation that
// InvalidateUser has since moved past is never served.
type ReportCache interface {
	Get(ctx context.Context, userID uuid.UUID, key string, dest any) (gen int64, hit bool, err error)
	Set(ctx context.Context, userID uuid.UUID, gen int64, key string, value any) error
	// InvalidateUser drops every cached report of userID
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
	io.Closer
}

const defaultKeyPrefix = "ledger:report:"
