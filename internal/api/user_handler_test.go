package api

import (
	"net/http"
	"testing"
)

func TestAuthAndProfileRoutes(t *testing.T) {
	s := newTestServer(t)
	token, id := s.register("alice", "user")

	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "alice2", "email": "alice@example.com", "password": "secret123",
	})
	wantStatus(t, rec, http.StatusBadRequest)

	wantStatus(t, s.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong-password",
	}), http.StatusUnauthorized)

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "secret123",
	})
	wantStatus(t, rec, http.StatusOK)
	var login AuthResponse
	decode(t, rec, &login)
	if login.Token == "" || login.User.ID != id || login.User.Role != "user" {
		t.Fatalf("login = %+v", login)
	}

	rec = s.do(http.MethodPut, "/api/users/profile", token, map[string]any{"firstName": "Alice", "age": 30})
	wantStatus(t, rec, http.StatusOK)
	var user UserResponse
	decode(t, rec, &user)
	if user.FirstName != "Alice" || user.Age == nil || *user.Age != 30 {
		t.Fatalf("profile = %+v", user)
	}

	wantStatus(t, s.do(http.MethodPut, "/api/users/profile", token, map[string]any{"age": 12}), http.StatusBadRequest)
	wantStatus(t, s.do(http.MethodPut, "/api/users/profile", token, map[string]any{"specialization": []string{"yoga"}}), http.StatusBadRequest)

	wantStatus(t, s.do(http.MethodPut, "/api/users/password", token, map[string]any{
		"currentPassword": "nope", "newPassword": "another1",
	}), http.StatusUnauthorized)
	wantStatus(t, s.do(http.MethodPut, "/api/users/password", token, map[string]any{
		"currentPassword": "secret123", "newPassword": "another1",
	}), http.StatusOK)
	wantStatus(t, s.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "another1",
	}), http.StatusOK)

	rec = s.do(http.MethodGet, "/api/auth/profile", token, nil)
	wantStatus(t, rec, http.StatusOK)
	decode(t, rec, &user)
	if user.Username != "alice" || user.FirstName != "Alice" {
		t.Fatalf("profile = %+v", user)
	}
}
