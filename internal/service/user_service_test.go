package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository/memory"
)

func TestUpdateProfileMergesFields(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repos.Users, env.repos.Workouts, nil)
	ctx := context.Background()

	if _, err := svc.UpdateProfile(ctx, env.user, ProfileUpdate{FirstName: ptr("Alice"), Age: ptr(30)}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	user, err := svc.UpdateProfile(ctx, env.user, ProfileUpdate{Weight: ptr(61.5)})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if user.FirstName != "Alice" || user.Age == nil || *user.Age != 30 || user.Weight == nil || *user.Weight != 61.5 {
		t.Errorf("profile = %+v", user.Profile)
	}

	stored, err := env.repos.Users.GetByID(ctx, env.user.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.FirstName != "Alice" || *stored.Weight != 61.5 {
		t.Errorf("stored profile = %+v", stored.Profile)
	}

	_, err = svc.UpdateProfile(ctx, env.user, ProfileUpdate{Experience: ptr(3)})
	wantErr(t, err, ErrTrainerOnlyFields)

	trainer, err := svc.UpdateProfile(ctx, env.trainer, ProfileUpdate{
		Experience:     ptr(5),
		Specialization: []string{"yoga", "pilates"},
	})
	if err != nil {
		t.Fatalf("trainer update: %v", err)
	}
	if *trainer.Experience != 5 || len(trainer.Specialization) != 2 {
		t.Errorf("trainer profile = %+v", trainer.Profile)
	}
}

func TestChangePassword(t *testing.T) {
	repos := memory.NewStore().Repositories()
	auth := NewAuthService(repos.Users, testSecret, time.Hour, nil)
	svc := NewUserService(repos.Users, repos.Workouts, nil)
	ctx := context.Background()

	_, user, err := auth.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	caller := domain.Identity{UserID: user.ID, Role: user.Role}

	err = svc.ChangePassword(ctx, caller, "nope", "secret2")
	wantErr(t, err, ErrWrongPassword)
	if KindOf(err) != KindUnauthenticated {
		t.Errorf("kind = %v", KindOf(err))
	}
	wantErr(t, svc.ChangePassword(ctx, caller, "secret1", "x"), ErrValidation)

	if err := svc.ChangePassword(ctx, caller, "secret1", "secret2"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := auth.Login(ctx, "a@example.com", "secret2"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	_, _, err = auth.Login(ctx, "a@example.com", "secret1")
	wantErr(t, err, ErrAuthenticationFailed)
}

func TestUserStatsUsesRecentWorkouts(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repos.Users, env.repos.Workouts, nil)
	ctx := context.Background()

	base := fixedNow()
	for i := 0; i < 12; i++ {
		w := &domain.Workout{
			UserID:    env.user.UserID,
			Name:      "run",
			Type:      domain.WorkoutCardio,
			Duration:  30,
			Date:      base.AddDate(0, 0, -i),
			Completed: i%2 == 0,
		}
		if i == 0 {
			w.Duration = 60
		}
		if _, err := env.repos.Workouts.Create(ctx, w); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.UserStats(ctx, env.user)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.TotalWorkouts != RecentWorkoutsLimit || len(stats.RecentWorkouts) != RecentWorkoutsLimit {
		t.Fatalf("total = %d, recent = %d", stats.TotalWorkouts, len(stats.RecentWorkouts))
	}
	if stats.CompletedWorkouts != 5 {
		t.Errorf("CompletedWorkouts = %d, want 5", stats.CompletedWorkouts)
	}
	if stats.AverageWorkoutDuration != 33 {
		t.Errorf("AverageWorkoutDuration = %v, want 33", stats.AverageWorkoutDuration)
	}

	empty, err := svc.UserStats(ctx, env.trainer)
	if err != nil {
		t.Fatal(err)
	}
	if empty.TotalWorkouts != 0 || empty.AverageWorkoutDuration != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}
