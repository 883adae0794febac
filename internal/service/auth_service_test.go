package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository/memory"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	return NewAuthService(memory.NewStore().Repositories().Users, testSecret, time.Hour, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	token, user, err := svc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
		Profile:  domain.Profile{FirstName: "Alice"},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" || user.PasswordHash != "" {
		t.Fatalf("token %q, hash %q", token, user.PasswordHash)
	}
	if user.Role != domain.RoleUser || user.Email != "alice@example.com" || user.FirstName != "Alice" {
		t.Errorf("user = %+v", user)
	}

	id, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id.UserID != user.ID || id.Role != domain.RoleUser {
		t.Errorf("identity = %+v", id)
	}

	_, logged, err := svc.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID || logged.PasswordHash != "" {
		t.Errorf("logged = %+v", logged)
	}

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	wantErr(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	wantErr(t, err, ErrAuthenticationFailed)

	profile, err := svc.Profile(ctx, user.ID)
	if err != nil || profile.Username != "alice" || profile.PasswordHash != "" {
		t.Fatalf("Profile = %+v, %v", profile, err)
	}
}

func TestRegisterRejects(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	if _, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"duplicate email", RegisterInput{Username: "bob", Email: "A@example.com", Password: "secret1"}, ErrUserAlreadyExists},
		{"duplicate username", RegisterInput{Username: "alice", Email: "b@example.com", Password: "secret1"}, ErrUserAlreadyExists},
		{"short password", RegisterInput{Username: "carol", Email: "c@example.com", Password: "123"}, ErrValidation},
		{"unknown role", RegisterInput{Username: "dave", Email: "d@example.com", Password: "secret1", Role: "admin"}, ErrValidation},
		{"trainer fields on user", RegisterInput{
			Username: "erin", Email: "e@example.com", Password: "secret1",
			Profile: domain.Profile{Specialization: []string{"yoga"}},
		}, ErrTrainerOnlyFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.input)
			wantErr(t, err, tt.want)
		})
	}

	_, trainer, err := svc.Register(ctx, RegisterInput{
		Username: "coach", Email: "coach@example.com", Password: "secret1", Role: domain.RoleTrainer,
		Profile: domain.Profile{Specialization: []string{"yoga"}},
	})
	if err != nil {
		t.Fatalf("trainer register: %v", err)
	}
	if trainer.Role != domain.RoleTrainer {
		t.Errorf("role = %s", trainer.Role)
	}
}

func TestParseTokenRejects(t *testing.T) {
	svc := newAuthService(t)
	user := &domain.User{Role: domain.RoleUser}
	user.ID[0] = 1

	other := NewAuthService(memory.NewStore().Repositories().Users, "other-secret", time.Hour, nil)
	foreign, err := other.IssueToken(user)
	if err != nil {
		t.Fatal(err)
	}

	expiredSvc := NewAuthService(memory.NewStore().Repositories().Users, testSecret, time.Nanosecond, nil)
	expired, err := expiredSvc.IssueToken(user)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(1100 * time.Millisecond)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": user.ID.Hex(), "role": "user"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": user.ID.Hex(), "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	badRoleToken, err := badRole.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      expired,
		"alg none":     unsigned,
		"unknown role": badRoleToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(token)
			wantErr(t, err, ErrUnauthenticated)
		})
	}
}
