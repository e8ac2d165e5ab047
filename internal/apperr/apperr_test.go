package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errSample = NotFound("member_not_found", "member not found")

func TestWrappedSentinelMatches(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", errSample.Wrap(errors.New("no rows")))
	if !errors.Is(wrapped, errSample) {
		t.Fatalf("expected wrapped error to match sentinel")
	}

	other := NotFound("payment_not_found", "payment not found")
	if errors.Is(wrapped, other) {
		t.Fatalf("expected different code not to match")
	}
}

func TestFromClassifiesPlainErrorsAsInternal(t *testing.T) {
	err := From(errors.New("boom"))
	if err.Kind != KindInternal {
		t.Fatalf("expected internal kind, got %v", err.Kind)
	}
	if err.Code != "internal_error" {
		t.Fatalf("expected internal_error code, got %s", err.Code)
	}
}

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindDatabase:     http.StatusInternalServerError,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := kind.HTTPStatus(); got != want {
			t.Fatalf("%s: expected %d, got %d", kind, want, got)
		}
	}
}

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	detailed := errSample.WithDetails(map[string]string{"id": "x"})
	if errSample.Details != nil {
		t.Fatalf("expected sentinel details to stay nil")
	}
	if detailed.Details == nil {
		t.Fatalf("expected details on copy")
	}
}
