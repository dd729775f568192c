package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		if got := ToDomainError(nil); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
		if got := MapError(nil); got != nil {
			t.Fatalf("MapError(nil) = %v, want nil", got)
		}
	})

	t.Run("domain error passes through", func(t *testing.T) {
		original := NewForbidden("nope")
		mapped := ToDomainError(original)
		if mapped.Code != "FORBIDDEN" || mapped.HTTPStatus != http.StatusForbidden {
			t.Fatalf("unexpected mapping: %+v", mapped)
		}
	})

	t.Run("wrapped domain error unwraps", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", NewConflict("dup", nil))
		mapped := ToDomainError(wrapped)
		if mapped.Code != "CONFLICT" {
			t.Fatalf("expected CONFLICT, got %s", mapped.Code)
		}
	})

	t.Run("row miss becomes not found", func(t *testing.T) {
		mapped := ToDomainError(pgx.ErrNoRows)
		if mapped.Code != "NOT_FOUND" || mapped.HTTPStatus != http.StatusNotFound {
			t.Fatalf("unexpected mapping: %+v", mapped)
		}
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		cause := errors.New("disk on fire")
		mapped := ToDomainError(cause)
		if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != http.StatusInternalServerError {
			t.Fatalf("unexpected mapping: %+v", mapped)
		}
		if !errors.Is(mapped, cause) {
			t.Fatal("cause must stay wrapped for server-side logging")
		}
	})
}

func TestIsUniqueViolation(t *testing.T) {
	violation := &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_name"}

	if !IsUniqueViolation(violation, "uq_users_name") {
		t.Fatal("exact constraint must match")
	}
	if !IsUniqueViolation(violation, "") {
		t.Fatal("empty constraint matches any unique violation")
	}
	if IsUniqueViolation(violation, "uq_other") {
		t.Fatal("different constraint must not match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("non-unique pg error must not match")
	}
	if IsUniqueViolation(errors.New("plain"), "") {
		t.Fatal("plain error must not match")
	}
	if IsUniqueViolation(fmt.Errorf("insert: %w", violation), "uq_users_name") != true {
		t.Fatal("wrapped pg error must still match")
	}
}

func TestDomainErrorMessage(t *testing.T) {
	plain := NewDomainError("VALIDATION_FAILED", "bad input", http.StatusBadRequest, nil)
	if plain.Error() != "bad input" {
		t.Fatalf("Error() = %q", plain.Error())
	}

	var wrapped *DomainError
	if !errors.As(NewInternalError(errors.New("cause")), &wrapped) {
		t.Fatal("NewInternalError must return a DomainError")
	}
	if wrapped.Error() != "internal server error: cause" {
		t.Fatalf("Error() = %q", wrapped.Error())
	}
}
