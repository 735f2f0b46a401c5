package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const storeName = "postgres"

// classify maps connectivity failures to StoreUnavailableError and leaves
// everything else untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return &entity.StoreUnavailableError{Store: storeName, Err: err}
	}
	return err
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 08 connection exception, 53 insufficient resources, 57P0x shutdown
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "53") ||
			strings.HasPrefix(pgErr.Code, "57P0")
	}

	return pgconn.Timeout(err)
}
