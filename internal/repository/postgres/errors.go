package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

// wrapErr prefixes err with the operation and tags connectivity failures
// with domain.ErrDatabaseUnavailable.
func wrapErr(op string, err error) error {
	var (
		connErr *pgconn.ConnectError
		netErr  net.Error
	)
	if errors.As(err, &connErr) || errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("postgres: %s: %w: %w", op, domain.ErrDatabaseUnavailable, err)
	}
	return fmt.Errorf("postgres: %s: %w", op, err)
}
