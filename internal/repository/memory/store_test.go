package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCourse(t *testing.T, repos repository.Repositories, published bool, price float64) *domain.Course {
	t.Helper()
	c := &domain.Course{
		TrainerID:   primitive.NewObjectID(),
		Title:       "Strength basics",
		Price:       price,
		IsPublished: published,
		Lessons:     []domain.Lesson{{Title: "Intro", OrderInCourse: 1}},
	}
	if _, err := repos.Courses.Create(context.Background(), c); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return c
}

func TestCourseCreateAssignsLessonIDsAndCopies(t *testing.T) {
	repos := NewStore().Repositories()
	c := newCourse(t, repos, true, 10)
	if c.Lessons[0].ID.IsZero() {
		t.Fatal("expected lesson id to be assigned")
	}

	c.Title = "mutated after create"
	got, err := repos.Courses.GetByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if got.Title != "Strength basics" {
		t.Fatalf("store must not share memory with callers, got title %q", got.Title)
	}
}

func TestAddEnrollmentConditions(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	unpublished := newCourse(t, repos, false, 10)
	published := newCourse(t, repos, true, 10)
	user := primitive.NewObjectID()

	err := repos.Courses.AddEnrollment(ctx, unpublished.ID, domain.Enrollment{UserID: user})
	if !errors.Is(err, repository.ErrConditionFailed) {
		t.Fatalf("expected condition failure on unpublished course, got %v", err)
	}
	if err := repos.Courses.AddEnrollment(ctx, published.ID, domain.Enrollment{UserID: user}); err != nil {
		t.Fatalf("first enrollment: %v", err)
	}
	err = repos.Courses.AddEnrollment(ctx, published.ID, domain.Enrollment{UserID: user})
	if !errors.Is(err, repository.ErrConditionFailed) {
		t.Fatalf("expected condition failure on duplicate, got %v", err)
	}
	err = repos.Courses.AddEnrollment(ctx, primitive.NewObjectID(), domain.Enrollment{UserID: user})
	if !errors.Is(err, repository.ErrConditionFailed) {
		t.Fatalf("expected condition failure on missing course, got %v", err)
	}
}

func TestConcurrentEnrollmentsAreUnique(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	c := newCourse(t, repos, true, 10)
	user := primitive.NewObjectID()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repos.Courses.AddEnrollment(ctx, c.ID, domain.Enrollment{UserID: user}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one successful enrollment, got %d", succeeded)
	}
	got, _ := repos.Courses.GetByID(ctx, c.ID)
	if len(got.Enrollments) != 1 {
		t.Fatalf("expected 1 enrollment, got %d", len(got.Enrollments))
	}
}

func TestLikeRemoveAndStatus(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	c := newCourse(t, repos, true, 10)
	user := primitive.NewObjectID()

	removed, err := repos.Courses.RemoveLike(ctx, c.ID, user)
	if err != nil || removed {
		t.Fatalf("expected nothing to remove, got %v %v", removed, err)
	}
	if err := repos.Courses.AddLike(ctx, c.ID, domain.Like{UserID: user}); err != nil {
		t.Fatalf("add like: %v", err)
	}
	removed, err = repos.Courses.RemoveLike(ctx, c.ID, user)
	if err != nil || !removed {
		t.Fatalf("expected like removed, got %v %v", removed, err)
	}

	err = repos.Courses.SetEnrollmentStatus(ctx, c.ID, user, domain.StatusCompleted)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found for missing enrollment, got %v", err)
	}
	_ = repos.Courses.AddEnrollment(ctx, c.ID, domain.Enrollment{UserID: user, CompletionStatus: domain.StatusInProgress})
	if err := repos.Courses.SetEnrollmentStatus(ctx, c.ID, user, domain.StatusCompleted); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ := repos.Courses.GetByID(ctx, c.ID)
	if got.Enrollments[0].CompletionStatus != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Enrollments[0].CompletionStatus)
	}
}

func TestCourseListFilterSortPage(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	for _, price := range []float64{30, 10, 20, 50} {
		newCourse(t, repos, price != 50, price)
	}

	published := true
	minPrice := 15.0
	courses, total, err := repos.Courses.List(ctx, repository.CourseFilter{
		IsPublished: &published,
		MinPrice:    &minPrice,
		SortBy:      repository.SortByPrice,
		SortDesc:    true,
		Limit:       1,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 matches, got %d", total)
	}
	if len(courses) != 1 || courses[0].Price != 30 {
		t.Fatalf("expected first page with price 30, got %+v", courses)
	}

	courses, _, _ = repos.Courses.List(ctx, repository.CourseFilter{
		IsPublished: &published,
		MinPrice:    &minPrice,
		SortBy:      repository.SortByPrice,
		SortDesc:    true,
		Skip:        1,
		Limit:       1,
	})
	if len(courses) != 1 || courses[0].Price != 20 {
		t.Fatalf("expected second page with price 20, got %+v", courses)
	}

	_, total, _ = repos.Courses.List(ctx, repository.CourseFilter{RestrictTrainers: true})
	if total != 0 {
		t.Fatalf("expected no matches for an empty trainer set, got %d", total)
	}
}

func TestUserUniqueness(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	u := &domain.User{Username: "anna", Email: "Anna@Example.com", PasswordHash: "x", Role: domain.RoleUser}
	if _, err := repos.Users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := &domain.User{Username: "other", Email: "anna@example.com", PasswordHash: "x", Role: domain.RoleUser}
	if _, err := repos.Users.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
	got, err := repos.Users.GetByEmail(ctx, "ANNA@example.com")
	if err != nil || got.Username != "anna" {
		t.Fatalf("expected lookup by normalized email, got %v %v", got, err)
	}
}

func TestMealTotalsRecomputedOnWrite(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	user := primitive.NewObjectID()
	m := &domain.Meal{
		UserID: user,
		Type:   domain.MealLunch,
		Foods:  []domain.FoodItem{{Name: "rice", Calories: 200, Carbs: 45}},
	}
	if _, err := repos.Meals.Create(ctx, m); err != nil {
		t.Fatalf("create meal: %v", err)
	}

	m.Foods = append(m.Foods, domain.FoodItem{Name: "chicken", Calories: 150, Protein: 30})
	m.TotalCalories = 1
	if err := repos.Meals.Update(ctx, m); err != nil {
		t.Fatalf("update meal: %v", err)
	}
	got, _ := repos.Meals.GetByIDForUser(ctx, m.ID, user)
	if got.TotalCalories != 350 || got.TotalProtein != 30 || got.TotalCarbs != 45 {
		t.Fatalf("unexpected totals: %+v", got)
	}

	if _, err := repos.Meals.GetByIDForUser(ctx, m.ID, primitive.NewObjectID()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("other users must not see the meal, got %v", err)
	}
}

func TestMealListDateRange(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	user := primitive.NewObjectID()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, _ = repos.Meals.Create(ctx, &domain.Meal{UserID: user, Type: domain.MealSnack, Date: base.AddDate(0, 0, i)})
	}

	meals, err := repos.Meals.List(ctx, repository.MealFilter{UserID: user, From: base.AddDate(0, 0, 1)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("expected 2 meals from the lower bound, got %d", len(meals))
	}
	if !meals[0].Date.After(meals[1].Date) {
		t.Fatal("expected newest first")
	}
}
