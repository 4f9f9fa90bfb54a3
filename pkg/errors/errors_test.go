package errors

import (
	stderrors "errors"
	"testing"
)

func TestCodeWireContract(t *testing.T) {
	cases := []struct {
		code   ErrorCode
		reason string
		status int
	}{
		{InvalidArgument, "ERR_INVALID_ARGUMENT", 400},
		{InvalidState, "ERR_INVALID_STATE", 400},
		{NotFound, "ERR_NOT_FOUND", 404},
		{RateLimit, "ERR_RATE_LIMIT", 400},
		{Internal, "ERR_INTERNAL", 500},
	}
	for _, tc := range cases {
		if tc.code.Reason() != tc.reason {
			t.Fatalf("code %d reason = %q", tc.code, tc.code.Reason())
		}
		if tc.code.HTTPStatus() != tc.status {
			t.Fatalf("code %d status = %d", tc.code, tc.code.HTTPStatus())
		}
	}
}

func TestNewAndNewf(t *testing.T) {
	err := New(NotFound)
	if err.Error() != "Not Found" {
		t.Fatalf("default message = %q", err.Error())
	}
	if !Is(err, NotFound) {
		t.Fatalf("Is failed")
	}

	err = Newf(NotFound, "Job %d not found.", 7)
	if err.Error() != "Job 7 not found." {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestWrapPreservesUnderlying(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := Wrap(cause, Internal)
	if !stderrors.Is(err, cause) {
		t.Fatalf("unwrap chain broken")
	}
	if GetCode(err) != Internal {
		t.Fatalf("code = %d", GetCode(err))
	}
}

func TestGetErrorOnForeignError(t *testing.T) {
	err := GetError(stderrors.New("boom"))
	if err.Code != Internal {
		t.Fatalf("foreign errors map to internal, got %d", err.Code)
	}
	if GetError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
