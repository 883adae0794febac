package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"
	"alcyxob/fit-platform/internal/repository/memory"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testEnv struct {
	repos   repository.Repositories
	trainer domain.Identity
	user    domain.Identity
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{repos: memory.NewStore().Repositories()}
	env.trainer = env.addUser(t, "coach", domain.RoleTrainer, "yoga")
	env.user = env.addUser(t, "alice", domain.RoleUser)
	return env
}

func (e *testEnv) addUser(t *testing.T, username string, role domain.Role, specialization ...string) domain.Identity {
	t.Helper()
	u := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	u.Specialization = specialization
	id, err := e.repos.Users.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return domain.Identity{UserID: id, Role: role}
}

func (e *testEnv) addCourse(t *testing.T, owner domain.Identity, published bool, price float64) primitive.ObjectID {
	t.Helper()
	c := &domain.Course{
		TrainerID:   owner.UserID,
		Title:       "Morning Flow",
		Price:       price,
		IsPublished: published,
	}
	id, err := e.repos.Courses.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	return id
}

func (e *testEnv) course(t *testing.T, id primitive.ObjectID) *domain.Course {
	t.Helper()
	c, err := e.repos.Courses.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	return c
}

func wantErr(t *testing.T, got, want error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Fatalf("error = %v, want %v", got, want)
	}
}

func ptr[T any](v T) *T { return &v }

func fixedNow() time.Time {
	return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
}
