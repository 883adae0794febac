package memory

import (
	"context"
	"errors"
	"slices"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutRepository struct {
	s *Store
}

func (r *workoutRepository) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.Name == "" || workout.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout name and user ID are required")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.Date.IsZero() {
		workout.Date = now
	}
	r.s.workouts[workout.ID] = clone(workout)
	return workout.ID, nil
}

func (r *workoutRepository) GetByIDForUser(_ context.Context, id, userID primitive.ObjectID) (*domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.workouts[id]
	if !ok || w.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return clone(w), nil
}

func (r *workoutRepository) ListByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	workouts := []domain.Workout{}
	for _, w := range r.s.workouts {
		if w.UserID == userID {
			workouts = append(workouts, *clone(w))
		}
	}
	slices.SortFunc(workouts, func(a, b domain.Workout) int { return b.Date.Compare(a.Date) })
	if limit > 0 && int64(len(workouts)) > limit {
		workouts = workouts[:limit]
	}
	return workouts, nil
}

func (r *workoutRepository) Update(_ context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.workouts[workout.ID]
	if !ok || stored.UserID != workout.UserID {
		return repository.ErrNotFound
	}
	workout.CreatedAt = stored.CreatedAt
	workout.UpdatedAt = time.Now().UTC()
	r.s.workouts[workout.ID] = clone(workout)
	return nil
}

func (r *workoutRepository) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workouts[id]
	if !ok || w.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.workouts, id)
	return nil
}

type mealRepository struct {
	s *Store
}

func (r *mealRepository) Create(_ context.Context, meal *domain.Meal) (primitive.ObjectID, error) {
	if meal.UserID == primitive.NilObjectID || meal.Type == "" {
		return primitive.NilObjectID, errors.New("meal user ID and type are required")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	meal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	if meal.Date.IsZero() {
		meal.Date = now
	}
	meal.RecalculateTotals()
	r.s.meals[meal.ID] = clone(meal)
	return meal.ID, nil
}

func (r *mealRepository) GetByIDForUser(_ context.Context, id, userID primitive.ObjectID) (*domain.Meal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.meals[id]
	if !ok || m.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return clone(m), nil
}

func (r *mealRepository) List(_ context.Context, f repository.MealFilter) ([]domain.Meal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	meals := []domain.Meal{}
	for _, m := range r.s.meals {
		if m.UserID != f.UserID {
			continue
		}
		if !f.From.IsZero() && m.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && m.Date.After(f.To) {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		meals = append(meals, *clone(m))
	}
	slices.SortFunc(meals, func(a, b domain.Meal) int { return b.Date.Compare(a.Date) })
	return meals, nil
}

func (r *mealRepository) Update(_ context.Context, meal *domain.Meal) error {
	if meal.ID == primitive.NilObjectID {
		return errors.New("meal ID is required for update")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.meals[meal.ID]
	if !ok || stored.UserID != meal.UserID {
		return repository.ErrNotFound
	}
	meal.RecalculateTotals()
	meal.CreatedAt = stored.CreatedAt
	meal.UpdatedAt = time.Now().UTC()
	r.s.meals[meal.ID] = clone(meal)
	return nil
}

func (r *mealRepository) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meals[id]
	if !ok || m.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.meals, id)
	return nil
}

type uploadRepository struct {
	s *Store
}

func (r *uploadRepository) Create(_ context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error) {
	if upload.CourseID == primitive.NilObjectID || upload.TrainerID == primitive.NilObjectID || upload.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("upload requires courseId, trainerId, and s3ObjectKey")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.uploads {
		if u.S3ObjectKey == upload.S3ObjectKey {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	upload.ID = primitive.NewObjectID()
	upload.UploadedAt = time.Now().UTC()
	r.s.uploads[upload.ID] = clone(upload)
	return upload.ID, nil
}

func (r *uploadRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MediaUpload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.uploads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *uploadRepository) ListByCourseID(_ context.Context, courseID primitive.ObjectID) ([]domain.MediaUpload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	uploads := []domain.MediaUpload{}
	for _, u := range r.s.uploads {
		if u.CourseID == courseID {
			uploads = append(uploads, *clone(u))
		}
	}
	slices.SortFunc(uploads, func(a, b domain.MediaUpload) int { return b.UploadedAt.Compare(a.UploadedAt) })
	return uploads, nil
}

func (r *uploadRepository) DeleteByCourseID(_ context.Context, courseID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, u := range r.s.uploads {
		if u.CourseID == courseID {
			delete(r.s.uploads, id)
			n++
		}
	}
	return n, nil
}
