package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	userID, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user-123, got %q", userID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ValidateToken(token, testSecret); err == nil {
		t.Fatal("expected validation to fail for expired token")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-jwt", testSecret); err == nil {
		t.Fatal("expected validation to fail for malformed token")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("expected non-matching password to fail")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	cfg := LoadConfigFromEnv()
	if cfg.JWTSecret != "from-env" {
		t.Errorf("expected secret from env, got %q", cfg.JWTSecret)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("expected 24h token duration, got %v", cfg.TokenDuration)
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := Config{JWTSecret: testSecret, TokenDuration: time.Hour}
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	var seenUserID string
	handler := AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserIDFromContext(r.Context())
		if !ok {
			t.Error("expected user id in request context")
		}
		seenUserID = id
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		method     string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", method: http.MethodGet, authHeader: "Bearer " + token, wantStatus: http.StatusNoContent},
		{name: "missing header", method: http.MethodGet, wantStatus: http.StatusUnauthorized},
		{name: "malformed header", method: http.MethodGet, authHeader: "Token " + token, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", method: http.MethodGet, authHeader: "Bearer junk", wantStatus: http.StatusUnauthorized},
		{name: "preflight skips auth", method: http.MethodOptions, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUserID = ""
			req := httptest.NewRequest(tt.method, "/api/records/macros", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("expected CORS headers on every response")
			}
			if tt.wantStatus == http.StatusNoContent && seenUserID != "user-123" {
				t.Errorf("handler saw user id %q, want user-123", seenUserID)
			}
		})
	}
}
