package unit

import (
	"testing"

	"github.com/investplatform/admin-backend/internal/apierr"
)

func TestAPIErrorHTTPStatus(t *testing.T) {
	cases := []struct {
		code   int
		status int
	}{
		{apierr.InvalidPayload, 400},
		{apierr.TokenExpired, 401},
		{apierr.ConfirmationFailed, 403},
		{apierr.NotFound, 404},
		{apierr.StatusAlreadyAssigned, 409},
		{apierr.InternalServerError, 500},
	}
	for _, tc := range cases {
		if got := apierr.New(tc.code).HTTPStatus(); got != tc.status {
			t.Fatalf("code %d: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestAPIErrorMessages(t *testing.T) {
	if apierr.New(apierr.EmailExists).Msg != "Email exists" {
		t.Fatalf("unexpected default message")
	}
	if apierr.Message(999999) != "Internal server error" {
		t.Fatalf("expected fallback message for unknown code")
	}

	err := apierr.Newf(apierr.Conflict, "wallet %s is busy", "wal-1")
	if err.Msg != "wallet wal-1 is busy" {
		t.Fatalf("unexpected formatted message %s", err.Msg)
	}

	withData := apierr.New(apierr.InvalidPayload).WithData(map[string]string{"field": "email"})
	if withData.Data == nil {
		t.Fatalf("expected detail data kept")
	}
}
