package postgres

import (
	"errors"
	"net"
	"testing"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

func TestWrapErr(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	if err := wrapErr("create submission", dialErr); !errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Errorf("expected ErrDatabaseUnavailable, got %v", err)
	}

	constraint := errors.New("violates check constraint")
	err := wrapErr("create submission", constraint)
	if errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Errorf("query errors must not be tagged unavailable")
	}
	if !errors.Is(err, constraint) || err.Error() != "postgres: create submission: violates check constraint" {
		t.Errorf("unexpected wrap %v", err)
	}
}
