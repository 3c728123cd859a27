package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStoreUnavailable marks transient persistence failures. It is the only
// error class callers may retry with backoff; everything else is terminal
// for the request.
var ErrStoreUnavailable = errors.New("store unavailable")

// wrapStoreErr converts connection-level failures into ErrStoreUnavailable
// and passes every other error through unchanged. A reservation must never
// be assumed committed without a positive acknowledgment from the store.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return err
}
