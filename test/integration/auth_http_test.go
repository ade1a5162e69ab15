package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/models"
	"github.com/investplatform/admin-backend/test/integration/testutil"
)

func seedAdmin(t *testing.T, gdb *gorm.DB, email, password string, status models.AdminStatus, perms models.Permissions) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := &models.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Role:         "operator",
		Permissions:  perms,
		Status:       status,
	}
	if err := gdb.Create(admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	envelope := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, envelope
}

func login(t *testing.T, router http.Handler, email, password string) (access, refresh string) {
	t.Helper()
	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	result, ok := envelope["result"].(map[string]any)
	if !ok {
		t.Fatalf("login result missing: %v", envelope)
	}
	access, _ = result["accessToken"].(string)
	refresh, _ = result["refreshToken"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("login returned empty tokens: %v", result)
	}
	return access, refresh
}

func TestLoginAndProtectedRoutes(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	router := buildRouter(t, gdb)

	seedAdmin(t, gdb, "ops@example.com", "s3cret-pass", models.AdminStatusVerified, models.Permissions{
		"users": models.PermissionRead,
	})

	access, _ := login(t, router, "ops@example.com", "s3cret-pass")

	// A granted read permission opens the listing.
	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/users", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list users status = %d, body %s", rec.Code, rec.Body.String())
	}
	result, ok := envelope["result"].(map[string]any)
	if !ok {
		t.Fatalf("list users result missing: %v", envelope)
	}
	if _, ok := result["count"]; !ok {
		t.Fatalf("list users result has no count: %v", result)
	}

	// No permission entry for admins, so the same token is refused there.
	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/admins", access, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("list admins status = %d, want 403", rec.Code)
	}
	if code, _ := envelope["code"].(float64); int(code) != 403000 {
		t.Fatalf("list admins code = %v, want 403000", envelope["code"])
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	router := buildRouter(t, gdb)

	seedAdmin(t, gdb, "ops@example.com", "s3cret-pass", models.AdminStatusVerified, nil)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "ops@example.com",
		"password": "not-the-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if code, _ := envelope["code"].(float64); int(code) != 401002 {
		t.Fatalf("code = %v, want 401002", envelope["code"])
	}
}

func TestUnverifiedAdminCannotUseResources(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	router := buildRouter(t, gdb)

	seedAdmin(t, gdb, "new@example.com", "s3cret-pass", models.AdminStatusNew, models.Permissions{
		"users": models.PermissionWrite,
	})

	access, _ := login(t, router, "new@example.com", "s3cret-pass")

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/users", access, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if code, _ := envelope["code"].(float64); int(code) != 403004 {
		t.Fatalf("code = %v, want 403004", envelope["code"])
	}
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	router := buildRouter(t, gdb)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/users", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if code, _ := envelope["code"].(float64); int(code) != 401002 {
		t.Fatalf("code = %v, want 401002", envelope["code"])
	}
}

func TestRefreshRotatesAndOldTokenDies(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	router := buildRouter(t, gdb)

	seedAdmin(t, gdb, "ops@example.com", "s3cret-pass", models.AdminStatusVerified, nil)

	_, refresh := login(t, router, "ops@example.com", "s3cret-pass")

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refreshToken": refresh,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body %s", rec.Code, rec.Body.String())
	}
	result, _ := envelope["result"].(map[string]any)
	if result["refreshToken"] == refresh {
		t.Fatal("refresh token was not rotated")
	}

	// The rotated-out token belongs to a closed session now.
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refreshToken": refresh,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("reused refresh status = %d, want 401", rec.Code)
	}
}

func TestLogoutClosesSession(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	router := buildRouter(t, gdb)

	seedAdmin(t, gdb, "ops@example.com", "s3cret-pass", models.AdminStatusVerified, models.Permissions{
		"users": models.PermissionRead,
	})

	access, refresh := login(t, router, "ops@example.com", "s3cret-pass")

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/auth/logout", "", map[string]string{
		"refreshToken": refresh,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/users", access, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d, want 401", rec.Code)
	}
	if code, _ := envelope["code"].(float64); int(code) != 401003 {
		t.Fatalf("code = %v, want 401003", envelope["code"])
	}
}
