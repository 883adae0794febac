package api

import (
	"net/http"
	"testing"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/service"
)

func TestWorkoutRoutes(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("alice", "user")

	wantStatus(t, s.do(http.MethodPost, "/api/workouts", token, map[string]any{"name": "Legs"}), http.StatusBadRequest)
	wantStatus(t, s.do(http.MethodPost, "/api/workouts", token, map[string]any{"name": "Legs", "type": "yoga"}), http.StatusBadRequest)

	rec := s.do(http.MethodPost, "/api/workouts", token, map[string]any{
		"name":      "Legs",
		"type":      "strength",
		"duration":  45,
		"completed": true,
		"exercises": []map[string]any{{"name": "Squat", "sets": 5, "reps": 5, "weight": 80}},
	})
	wantStatus(t, rec, http.StatusCreated)
	var workout domain.Workout
	decode(t, rec, &workout)
	if len(workout.Exercises) != 1 || workout.Exercises[0].Weight != 80 || !workout.Completed {
		t.Fatalf("workout = %+v", workout)
	}

	path := "/api/workouts/" + workout.ID.Hex()
	rec = s.do(http.MethodPut, path, token, map[string]any{"completed": false, "rating": 4})
	wantStatus(t, rec, http.StatusOK)
	decode(t, rec, &workout)
	if workout.Completed || workout.Rating == nil || *workout.Rating != 4 || workout.Name != "Legs" {
		t.Fatalf("updated workout = %+v", workout)
	}

	rec = s.do(http.MethodGet, "/api/users/stats", token, nil)
	wantStatus(t, rec, http.StatusOK)
	var stats service.UserStats
	decode(t, rec, &stats)
	if stats.TotalWorkouts != 1 || stats.CompletedWorkouts != 0 || stats.AverageWorkoutDuration != 45 {
		t.Fatalf("user stats = %+v", stats)
	}

	rec = s.do(http.MethodGet, "/api/workouts", token, nil)
	wantStatus(t, rec, http.StatusOK)
	var workouts []domain.Workout
	decode(t, rec, &workouts)
	if len(workouts) != 1 {
		t.Fatalf("got %d workouts", len(workouts))
	}

	wantStatus(t, s.do(http.MethodDelete, path, token, nil), http.StatusOK)
	wantStatus(t, s.do(http.MethodGet, path, token, nil), http.StatusNotFound)
}
