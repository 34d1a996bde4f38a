package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cryptobud/cryptobud/internal/adapter/http/dto"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("register with valid data", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
			Email:    "anna@example.com",
			Name:     "Anna",
			Password: "Sup3r-secret",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var user dto.UserResponse
		if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if user.Email != "anna@example.com" {
			t.Errorf("expected normalized email, got %q", user.Email)
		}
		if user.ID == "" {
			t.Error("expected a generated user ID")
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
			Email:    "anna@example.com",
			Name:     "Another Anna",
			Password: "Sup3r-secret",
		})
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
			Email:    "bob@example.com",
			Name:     "Bob",
			Password: "short",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
			Email:    "anna@example.com",
			Password: "Wr0ng-password",
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("login returns a usable token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
			Email:    "anna@example.com",
			Password: "Sup3r-secret",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var token dto.TokenResponse
		if err := json.Unmarshal(w.Body.Bytes(), &token); err != nil {
			t.Fatalf("failed to parse token response: %v", err)
		}
		if token.Token == "" {
			t.Fatal("expected a signed token")
		}

		me := env.do(t, http.MethodGet, "/api/v1/auth/me", token.Token, nil)
		if me.Code != http.StatusOK {
			t.Fatalf("expected 200 from /auth/me, got %d: %s", me.Code, me.Body.String())
		}

		var user dto.UserResponse
		if err := json.Unmarshal(me.Body.Bytes(), &user); err != nil {
			t.Fatalf("failed to parse user response: %v", err)
		}
		if user.Email != "anna@example.com" {
			t.Errorf("expected anna@example.com, got %q", user.Email)
		}
	})

	t.Run("protected endpoint without token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/transactions/", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}
