package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type courseRepository struct {
	s *Store
}

func (r *courseRepository) Create(_ context.Context, course *domain.Course) (primitive.ObjectID, error) {
	if course.Title == "" || course.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("course title and trainer ID are required")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	course.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	course.AssignLessonIDs()
	r.s.courses[course.ID] = clone(course)
	return course.ID, nil
}

func (r *courseRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(c), nil
}

func (r *courseRepository) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	courses := []domain.Course{}
	for _, c := range r.s.courses {
		if c.TrainerID == trainerID {
			courses = append(courses, *clone(c))
		}
	}
	slices.SortStableFunc(courses, func(a, b domain.Course) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.Hex(), b.ID.Hex())
	})
	return courses, nil
}

func matchesCourse(c *domain.Course, f repository.CourseFilter) bool {
	if f.RestrictTrainers && !slices.Contains(f.TrainerIDs, c.TrainerID) {
		return false
	}
	if f.IsPublished != nil && c.IsPublished != *f.IsPublished {
		return false
	}
	if f.MinPrice != nil && c.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && c.Price > *f.MaxPrice {
		return false
	}
	return true
}

func compareCourses(a, b domain.Course, sortBy string) int {
	var c int
	switch sortBy {
	case repository.SortByPrice:
		switch {
		case a.Price < b.Price:
			c = -1
		case a.Price > b.Price:
			c = 1
		}
	case repository.SortByTitle:
		c = strings.Compare(a.Title, b.Title)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if c == 0 {
		c = strings.Compare(a.ID.Hex(), b.ID.Hex())
	}
	return c
}

func (r *courseRepository) List(_ context.Context, f repository.CourseFilter) ([]domain.Course, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []domain.Course{}
	for _, c := range r.s.courses {
		if matchesCourse(c, f) {
			matched = append(matched, *clone(c))
		}
	}
	slices.SortFunc(matched, func(a, b domain.Course) int {
		c := compareCourses(a, b, f.SortBy)
		if f.SortDesc {
			return -c
		}
		return c
	})

	total := int64(len(matched))
	start := min(f.Skip, total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return matched[start:end], total, nil
}

func (r *courseRepository) Update(_ context.Context, course *domain.Course) error {
	if course.ID == primitive.NilObjectID {
		return errors.New("course ID is required for update")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.courses[course.ID]
	if !ok || stored.TrainerID != course.TrainerID {
		return repository.ErrNotFound
	}

	course.AssignLessonIDs()
	course.UpdatedAt = time.Now().UTC()
	next := clone(course)
	stored.Title = next.Title
	stored.Description = next.Description
	stored.Price = next.Price
	stored.CoverImageURL = next.CoverImageURL
	stored.IsPublished = next.IsPublished
	stored.Lessons = next.Lessons
	stored.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *courseRepository) Delete(_ context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok || c.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(r.s.courses, id)
	return nil
}

// mutate runs fn on the stored course under the write lock.
func (r *courseRepository) mutate(id primitive.ObjectID, fn func(c *domain.Course) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return repository.ErrConditionFailed
	}
	if err := fn(c); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *courseRepository) AddEnrollment(_ context.Context, courseID primitive.ObjectID, enrollment domain.Enrollment) error {
	return r.mutate(courseID, func(c *domain.Course) error {
		if !c.IsPublished || c.HasEnrollment(enrollment.UserID) {
			return repository.ErrConditionFailed
		}
		c.Enrollments = append(c.Enrollments, enrollment)
		return nil
	})
}

func (r *courseRepository) SetEnrollmentStatus(_ context.Context, courseID, userID primitive.ObjectID, status domain.CompletionStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[courseID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range c.Enrollments {
		if c.Enrollments[i].UserID == userID {
			c.Enrollments[i].CompletionStatus = status
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *courseRepository) AddReview(_ context.Context, courseID primitive.ObjectID, review domain.Review) error {
	return r.mutate(courseID, func(c *domain.Course) error {
		if c.HasReview(review.UserID) {
			return repository.ErrConditionFailed
		}
		c.Reviews = append(c.Reviews, review)
		return nil
	})
}

func (r *courseRepository) AddLike(_ context.Context, courseID primitive.ObjectID, like domain.Like) error {
	return r.mutate(courseID, func(c *domain.Course) error {
		if c.HasLike(like.UserID) {
			return repository.ErrConditionFailed
		}
		c.Likes = append(c.Likes, like)
		return nil
	})
}

func (r *courseRepository) RemoveLike(_ context.Context, courseID, userID primitive.ObjectID) (bool, error) {
	removed := false
	err := r.mutate(courseID, func(c *domain.Course) error {
		n := len(c.Likes)
		c.Likes = slices.DeleteFunc(c.Likes, func(l domain.Like) bool { return l.UserID == userID })
		removed = len(c.Likes) < n
		return nil
	})
	if errors.Is(err, repository.ErrConditionFailed) {
		return false, nil
	}
	return removed, err
}
