package api

import (
	"net/http"
	"testing"

	"alcyxob/fit-platform/internal/service"
)

func createCourse(t *testing.T, s *testServer, token string, body map[string]any) CourseResponse {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/courses", token, body)
	wantStatus(t, rec, http.StatusCreated)
	var course CourseResponse
	decode(t, rec, &course)
	return course
}

func TestCourseLifecycle(t *testing.T) {
	s := newTestServer(t)
	trainerToken, trainerID := s.register("coach", "trainer")
	userToken, _ := s.register("alice", "user")

	course := createCourse(t, s, trainerToken, map[string]any{
		"title":       "Mobility basics",
		"description": "Ten minutes a day",
		"price":       25,
		"isPublished": true,
		"lessons": []map[string]any{{
			"title":         "Hips",
			"orderInCourse": 1,
			"tasks": []map[string]any{{
				"title":         "Warm up",
				"orderInLesson": 1,
				"videos":        []map[string]any{{"title": "Intro", "contentUrl": "https://cdn.example.com/v/1.mp4"}},
			}},
		}},
	})
	if course.TrainerID != trainerID || len(course.Lessons) != 1 || course.Lessons[0].ID.IsZero() {
		t.Fatalf("unexpected course: %+v", course)
	}
	path := "/api/courses/" + course.ID

	// the owner may edit, nobody else
	otherToken, _ := s.register("coach2", "trainer")
	lessonID := course.Lessons[0].ID.Hex()
	update := map[string]any{
		"title": "Mobility for everyone",
		"price": 30,
		"lessons": []map[string]any{{
			"id":            lessonID,
			"title":         "Hips and knees",
			"orderInCourse": 1,
			"tasks":         []map[string]any{},
		}},
	}
	wantStatus(t, s.do(http.MethodPut, path, otherToken, update), http.StatusForbidden)
	rec := s.do(http.MethodPut, path, trainerToken, update)
	wantStatus(t, rec, http.StatusOK)
	decode(t, rec, &course)
	if course.Title != "Mobility for everyone" || course.Price != 30 || !course.IsPublished || course.Description != "Ten minutes a day" {
		t.Fatalf("update result: %+v", course)
	}
	if len(course.Lessons) != 1 || course.Lessons[0].ID.Hex() != lessonID || course.Lessons[0].Title != "Hips and knees" {
		t.Fatalf("lessons after update: %+v", course.Lessons)
	}

	// interactions
	wantStatus(t, s.do(http.MethodPost, path+"/enroll", userToken, nil), http.StatusOK)
	rec = s.do(http.MethodPost, path+"/enroll", userToken, nil)
	wantStatus(t, rec, http.StatusBadRequest)
	var errBody ErrorResponse
	decode(t, rec, &errBody)
	if errBody.Message != service.ErrAlreadyEnrolled.Message {
		t.Fatalf("message = %q", errBody.Message)
	}

	wantStatus(t, s.do(http.MethodPut, path+"/enrollment", userToken, map[string]any{"completionStatus": "completed"}), http.StatusOK)
	wantStatus(t, s.do(http.MethodPut, path+"/enrollment", userToken, map[string]any{"completionStatus": "paused"}), http.StatusBadRequest)

	wantStatus(t, s.do(http.MethodPost, path+"/reviews", userToken, map[string]any{"rating": 6}), http.StatusBadRequest)
	wantStatus(t, s.do(http.MethodPost, path+"/reviews", userToken, map[string]any{"rating": 4, "comment": "Great"}), http.StatusCreated)
	wantStatus(t, s.do(http.MethodPost, path+"/reviews", userToken, map[string]any{"rating": 5}), http.StatusBadRequest)

	var like LikeResponse
	rec = s.do(http.MethodPost, path+"/like", userToken, nil)
	wantStatus(t, rec, http.StatusOK)
	decode(t, rec, &like)
	if !like.Liked {
		t.Fatal("first toggle should like")
	}
	rec = s.do(http.MethodPost, path+"/like", userToken, nil)
	decode(t, rec, &like)
	if like.Liked {
		t.Fatal("second toggle should unlike")
	}

	rec = s.do(http.MethodGet, path, "", nil)
	wantStatus(t, rec, http.StatusOK)
	decode(t, rec, &course)
	if course.EnrollmentCount != 1 || course.AverageRating != 4 || course.LikeCount != 0 {
		t.Fatalf("course after interactions: %+v", course)
	}
	if course.Trainer == nil || course.Trainer.Username != "coach" {
		t.Fatalf("trainer summary = %+v", course.Trainer)
	}
	if course.Enrollments[0].CompletionStatus != "completed" {
		t.Fatalf("completion status = %q", course.Enrollments[0].CompletionStatus)
	}

	// stats reflect the interactions
	rec = s.do(http.MethodGet, "/api/stats/trainer", trainerToken, nil)
	wantStatus(t, rec, http.StatusOK)
	var stats service.TrainerStats
	decode(t, rec, &stats)
	g := stats.GeneralStats
	if g.TotalCourses != 1 || g.TotalEnrollments != 1 || g.TotalRevenue != 30 || g.TotalReviews != 1 {
		t.Fatalf("general stats = %+v", g)
	}
	if len(stats.MonthlyStats) != 6 || len(stats.TopCourses) != 1 {
		t.Fatalf("monthly %d, top %d", len(stats.MonthlyStats), len(stats.TopCourses))
	}

	wantStatus(t, s.do(http.MethodGet, "/api/stats/courses/"+course.ID, trainerToken, nil), http.StatusOK)
	wantStatus(t, s.do(http.MethodGet, "/api/stats/courses/"+course.ID, otherToken, nil), http.StatusForbidden)

	wantStatus(t, s.do(http.MethodDelete, path, trainerToken, nil), http.StatusOK)
	wantStatus(t, s.do(http.MethodGet, path, "", nil), http.StatusNotFound)
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	s := newTestServer(t)
	trainerToken, _ := s.register("coach", "trainer")
	userToken, _ := s.register("alice", "user")

	course := createCourse(t, s, trainerToken, map[string]any{"title": "Draft course", "price": 0, "lessons": []any{}})
	if course.IsPublished {
		t.Fatal("courses start unpublished")
	}
	rec := s.do(http.MethodPost, "/api/courses/"+course.ID+"/enroll", userToken, nil)
	wantStatus(t, rec, http.StatusBadRequest)
	var body ErrorResponse
	decode(t, rec, &body)
	if body.Message != service.ErrCourseNotPublished.Message {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestListCourses(t *testing.T) {
	s := newTestServer(t)
	trainerToken, trainerID := s.register("coach", "trainer")
	for _, title := range []string{"Alpha course", "Beta course", "Gamma course"} {
		createCourse(t, s, trainerToken, map[string]any{"title": title, "price": 10, "isPublished": true, "lessons": []any{}})
	}

	rec := s.do(http.MethodGet, "/api/courses?limit=2&sortBy=title&sortOrder=asc&trainer="+trainerID, "", nil)
	wantStatus(t, rec, http.StatusOK)
	var list CourseListResponse
	decode(t, rec, &list)
	if list.Total != 3 || list.TotalPages != 2 || list.CurrentPage != 1 || len(list.Courses) != 2 {
		t.Fatalf("list = %+v", list)
	}
	if list.Courses[0].Title != "Alpha course" {
		t.Fatalf("first course = %q", list.Courses[0].Title)
	}

	wantStatus(t, s.do(http.MethodGet, "/api/courses?limit=500", "", nil), http.StatusBadRequest)
	wantStatus(t, s.do(http.MethodGet, "/api/courses?trainer=nope", "", nil), http.StatusBadRequest)
	wantStatus(t, s.do(http.MethodGet, "/api/courses?sortBy=rating", "", nil), http.StatusBadRequest)
}

func TestMediaRoutesWithoutStorage(t *testing.T) {
	s := newTestServer(t)
	trainerToken, _ := s.register("coach", "trainer")
	course := createCourse(t, s, trainerToken, map[string]any{"title": "Video course", "price": 5, "lessons": []any{}})

	rec := s.do(http.MethodPost, "/api/courses/"+course.ID+"/media/upload-url", trainerToken,
		map[string]any{"fileName": "intro.mp4", "contentType": "video/mp4"})
	wantStatus(t, rec, http.StatusBadRequest)
	var body ErrorResponse
	decode(t, rec, &body)
	if body.Message != service.ErrMediaDisabled.Message {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestUpdateCourseRequiresLessons(t *testing.T) {
	s := newTestServer(t)
	trainerToken, _ := s.register("coach", "trainer")
	course := createCourse(t, s, trainerToken, map[string]any{
		"title": "Strength 101",
		"price": 10,
		"lessons": []map[string]any{{
			"title":         "Squats",
			"orderInCourse": 1,
			"tasks":         []map[string]any{},
		}},
	})
	path := "/api/courses/" + course.ID

	rec := s.do(http.MethodPut, path, trainerToken, map[string]any{"title": "Strength 102", "price": 12})
	wantStatus(t, rec, http.StatusBadRequest)
	var body ErrorResponse
	decode(t, rec, &body)
	if len(body.Errors) != 1 || body.Errors[0].Field != "lessons" {
		t.Fatalf("errors = %+v, want lessons", body.Errors)
	}

	rec = s.do(http.MethodGet, path, "", nil)
	wantStatus(t, rec, http.StatusOK)
	decode(t, rec, &course)
	if course.Title != "Strength 101" || len(course.Lessons) != 1 {
		t.Fatalf("rejected update changed the course: %+v", course)
	}

	// nested arrays are required too
	for _, lesson := range []map[string]any{
		{"title": "Squats", "orderInCourse": 1},
		{"title": "Squats", "orderInCourse": 1, "tasks": []map[string]any{{"title": "Warm up", "orderInLesson": 1}}},
	} {
		rec = s.do(http.MethodPut, path, trainerToken, map[string]any{
			"title": "Strength 102", "price": 12, "lessons": []map[string]any{lesson},
		})
		wantStatus(t, rec, http.StatusBadRequest)
	}
}
