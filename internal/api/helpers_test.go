package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/fit-platform/internal/repository/memory"
	"alcyxob/fit-platform/internal/service"

	"github.com/gin-gonic/gin"
)

const testSecret = "api-test-secret"

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := memory.NewStore().Repositories()
	media := service.NewMediaService(repos.Courses, repos.Uploads, nil, 0, log)

	router := gin.New()
	SetupRoutes(router, Services{
		Auth:      service.NewAuthService(repos.Users, testSecret, time.Hour, log),
		Users:     service.NewUserService(repos.Users, repos.Workouts, log),
		Courses:   service.NewCourseService(repos.Courses, repos.Users, media, log),
		Stats:     service.NewStatsService(repos.Courses, nil),
		Workouts:  service.NewWorkoutService(repos.Workouts),
		Nutrition: service.NewNutritionService(repos.Meals),
		Media:     media,
	}, Options{Logger: log, MetricsPath: "/metrics"})

	return &testServer{t: t, router: router}
}

// do sends a request with an optional bearer token and JSON body.
func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its token and id.
func (s *testServer) register(username, role string) (token, id string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		s.t.Fatalf("register %s: status %d, body %s", username, rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	decode(s.t, rec, &resp)
	return resp.Token, resp.User.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
