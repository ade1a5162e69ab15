package overlay

import (
	"encoding/json"
	"testing"

	"github.com/investplatform/admin-backend/internal/models"
)

func TestStateOf(t *testing.T) {
	if StateOf(nil) != Approved {
		t.Fatal("nil updates must be approved")
	}
	if StateOf(json.RawMessage(`{}`)) != Approved {
		t.Fatal("empty object must be approved")
	}
	if StateOf(json.RawMessage(`{"email":"new@example.com"}`)) != Pending {
		t.Fatal("staged changes must be pending")
	}
}

func TestFlattenOverlaysStagedFields(t *testing.T) {
	user := models.User{
		ID:        "u-1",
		Email:     "old@example.com",
		LastName:  "Smith",
		FirstName: "Anna",
		Updates:   json.RawMessage(`{"email":"new@example.com","lastName":"Brown"}`),
	}
	out, err := Flatten(&user, user.Updates)
	if err != nil {
		t.Fatalf("flatten error: %v", err)
	}
	if out["email"] != "new@example.com" {
		t.Fatalf("staged email must win, got %v", out["email"])
	}
	if out["lastName"] != "Brown" {
		t.Fatalf("staged lastName must win, got %v", out["lastName"])
	}
	if out["firstName"] != "Anna" {
		t.Fatalf("untouched field must survive, got %v", out["firstName"])
	}
	if _, present := out["updates"]; present {
		t.Fatal("updates key must not leak into output")
	}
	// The stored row stays untouched.
	if user.Email != "old@example.com" {
		t.Fatalf("flatten must not mutate the entity, got %q", user.Email)
	}
}

func TestFlattenWithoutUpdates(t *testing.T) {
	user := models.User{ID: "u-1", Email: "a@example.com"}
	out, err := Flatten(&user, nil)
	if err != nil {
		t.Fatalf("flatten error: %v", err)
	}
	if out["email"] != "a@example.com" {
		t.Fatalf("unexpected email: %v", out["email"])
	}
}

func TestStageMergesKeyByKey(t *testing.T) {
	first, err := Stage(nil, map[string]any{"email": "one@example.com", "phone": "111"})
	if err != nil {
		t.Fatalf("stage error: %v", err)
	}
	second, err := Stage(first, map[string]any{"email": "two@example.com"})
	if err != nil {
		t.Fatalf("stage error: %v", err)
	}
	staged := map[string]any{}
	if err := json.Unmarshal(second, &staged); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if staged["email"] != "two@example.com" {
		t.Fatalf("later staging must win, got %v", staged["email"])
	}
	if staged["phone"] != "111" {
		t.Fatalf("earlier keys must survive, got %v", staged["phone"])
	}
}

func TestConfirmAppliesToCanonicalFields(t *testing.T) {
	user := models.User{ID: "u-1", Email: "old@example.com", Phone: "111"}
	updates := json.RawMessage(`{"email":"new@example.com"}`)
	if err := Confirm(&user, updates); err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("canonical email must be replaced, got %q", user.Email)
	}
	if user.Phone != "111" {
		t.Fatalf("unstaged field must survive, got %q", user.Phone)
	}
}
