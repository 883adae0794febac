package domain

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMealRecalculateTotals(t *testing.T) {
	m := Meal{
		Foods: []FoodItem{
			{Name: "oats", Calories: 150, Protein: 5, Carbs: 27, Fat: 3},
			{Name: "milk", Calories: 100, Protein: 8, Carbs: 12, Fat: 2.5},
		},
		TotalCalories: 9999,
	}
	m.RecalculateTotals()
	if m.TotalCalories != 250 || m.TotalProtein != 13 || m.TotalCarbs != 39 || m.TotalFat != 5.5 {
		t.Fatalf("unexpected totals: %+v", m)
	}

	m.Foods = nil
	m.RecalculateTotals()
	if m.TotalCalories != 0 || m.TotalProtein != 0 || m.TotalCarbs != 0 || m.TotalFat != 0 {
		t.Fatalf("expected zero totals for empty foods, got %+v", m)
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleUser, CapInteractWithCourses, true},
		{RoleUser, CapTrackFitness, true},
		{RoleUser, CapManageCourses, false},
		{RoleUser, CapViewTrainerStats, false},
		{RoleTrainer, CapManageCourses, true},
		{RoleTrainer, CapViewTrainerStats, true},
		{RoleTrainer, CapInteractWithCourses, false},
		{RoleTrainer, CapManageAccount, true},
		{Role("admin"), CapManageAccount, false},
	}
	for _, tc := range tests {
		if got := tc.role.Can(tc.cap); got != tc.want {
			t.Errorf("%s.Can(%s) = %v, want %v", tc.role, tc.cap, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(""); !ok || r != RoleUser {
		t.Fatalf("empty role should default to user, got %q %v", r, ok)
	}
	if r, ok := ParseRole("trainer"); !ok || r != RoleTrainer {
		t.Fatalf("expected trainer, got %q %v", r, ok)
	}
	if _, ok := ParseRole("admin"); ok {
		t.Fatal("admin must not parse")
	}
}

func TestCourseAverageRatingAndRevenue(t *testing.T) {
	c := Course{Price: 100}
	if got := c.AverageRating(); got != 0 {
		t.Fatalf("expected 0 rating without reviews, got %v", got)
	}
	c.Reviews = []Review{{Rating: 5}, {Rating: 3}, {Rating: 4}}
	if got := c.AverageRating(); got != 4 {
		t.Fatalf("expected average 4, got %v", got)
	}
	c.Enrollments = []Enrollment{
		{UserID: primitive.NewObjectID(), CompletionStatus: StatusInProgress},
		{UserID: primitive.NewObjectID(), CompletionStatus: StatusCompleted},
		{UserID: primitive.NewObjectID(), CompletionStatus: StatusDropped},
	}
	if got := c.Revenue(); got != 300 {
		t.Fatalf("expected revenue 300, got %v", got)
	}
}

func TestValidateOrdering(t *testing.T) {
	ok := []Lesson{
		{Title: "a", OrderInCourse: 1, Tasks: []Task{{Title: "t1", OrderInLesson: 1}, {Title: "t2", OrderInLesson: 2}}},
		{Title: "b", OrderInCourse: 2, Tasks: []Task{{Title: "t1", OrderInLesson: 1}}},
	}
	if err := ValidateOrdering(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dupLesson := []Lesson{{Title: "a", OrderInCourse: 1}, {Title: "b", OrderInCourse: 1}}
	if err := ValidateOrdering(dupLesson); err == nil {
		t.Fatal("expected duplicate lesson order error")
	}

	dupTask := []Lesson{{Title: "a", OrderInCourse: 1, Tasks: []Task{{Title: "x", OrderInLesson: 2}, {Title: "y", OrderInLesson: 2}}}}
	if err := ValidateOrdering(dupTask); err == nil {
		t.Fatal("expected duplicate task order error")
	}

	zero := []Lesson{{Title: "a", OrderInCourse: 0}}
	if err := ValidateOrdering(zero); err == nil {
		t.Fatal("expected error for order 0")
	}
}

func TestLessonTotalVideos(t *testing.T) {
	l := Lesson{Tasks: []Task{{Videos: make([]Video, 2)}, {Videos: nil}, {Videos: make([]Video, 3)}}}
	if got := l.TotalVideos(); got != 5 {
		t.Fatalf("expected 5 videos, got %d", got)
	}
}
