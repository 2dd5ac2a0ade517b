package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestDatabaseErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list: %w", NewDatabaseError("read", "failed to list transactions", cause))

	var dbErr *DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %T", err)
	}
	if dbErr.Operation != "read" {
		t.Fatalf("operation mismatch: %q", dbErr.Operation)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if got := dbErr.Error(); got != "read: failed to list transactions: connection refused" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestTypedErrorsCarryMessage(t *testing.T) {
	cases := []error{
		NewNotFoundError("transaction not found"),
		NewAlreadyExistsError("email already registered"),
		NewValidationError("amount must be greater than zero"),
		NewUnauthorizedError("invalid credentials"),
	}
	want := []string{
		"transaction not found",
		"email already registered",
		"amount must be greater than zero",
		"invalid credentials",
	}
	for i, err := range cases {
		if err.Error() != want[i] {
			t.Fatalf("case %d: got %q want %q", i, err.Error(), want[i])
		}
	}
}
