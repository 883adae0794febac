package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutInput carries workout fields. On update nil fields are kept.
type WorkoutInput struct {
	Name      *string
	Type      *domain.WorkoutType
	Exercises []domain.Exercise
	Duration  *int
	Date      *time.Time
	Notes     *string
	Completed *bool
	Rating    *int
}

func (in WorkoutInput) validate() error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return Validationf("workout name cannot be empty")
	}
	if in.Type != nil {
		switch *in.Type {
		case domain.WorkoutStrength, domain.WorkoutCardio, domain.WorkoutFlexibility, domain.WorkoutHIIT, domain.WorkoutOther:
		default:
			return Validationf("workout type must be one of strength, cardio, flexibility, hiit, other")
		}
	}
	if in.Duration != nil && *in.Duration < 1 {
		return Validationf("duration must be a positive number of minutes")
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return Validationf("rating must be between 1 and 5")
	}
	for _, e := range in.Exercises {
		if strings.TrimSpace(e.Name) == "" {
			return Validationf("exercise name cannot be empty")
		}
		if e.Sets < 1 || e.Reps < 1 {
			return Validationf("exercise %q needs at least one set and one rep", e.Name)
		}
		if e.Weight < 0 || e.Duration < 0 {
			return Validationf("exercise %q has negative values", e.Name)
		}
	}
	return nil
}

func (in WorkoutInput) applyTo(w *domain.Workout) {
	if in.Name != nil {
		w.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		w.Type = *in.Type
	}
	if in.Exercises != nil {
		w.Exercises = in.Exercises
	}
	if in.Duration != nil {
		w.Duration = *in.Duration
	}
	if in.Date != nil {
		w.Date = in.Date.UTC()
	}
	if in.Notes != nil {
		w.Notes = *in.Notes
	}
	// Completed is applied even when false so a session can be reopened.
	if in.Completed != nil {
		w.Completed = *in.Completed
	}
	if in.Rating != nil {
		w.Rating = in.Rating
	}
}

type WorkoutService interface {
	CreateWorkout(ctx context.Context, caller domain.Identity, input WorkoutInput) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, caller domain.Identity) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, caller domain.Identity, workoutID primitive.ObjectID) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, caller domain.Identity, workoutID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, caller domain.Identity, workoutID primitive.ObjectID) error
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	now         func() time.Time
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *workoutService) CreateWorkout(ctx context.Context, caller domain.Identity, input WorkoutInput) (*domain.Workout, error) {
	if !caller.Can(domain.CapTrackFitness) {
		return nil, ErrCapabilityDenied
	}
	if input.Name == nil || input.Type == nil || input.Duration == nil {
		return nil, Validationf("workout name, type and duration are required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		UserID:    caller.UserID,
		Exercises: []domain.Exercise{},
		Date:      s.now(),
	}
	input.applyTo(workout)

	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, internalError("failed to create workout", err)
	}
	return workout, nil
}

// ListWorkouts returns all of the caller's workouts, newest first.
func (s *workoutService) ListWorkouts(ctx context.Context, caller domain.Identity) ([]domain.Workout, error) {
	if !caller.Can(domain.CapTrackFitness) {
		return nil, ErrCapabilityDenied
	}
	workouts, err := s.workoutRepo.ListByUser(ctx, caller.UserID, 0)
	if err != nil {
		return nil, internalError("failed to list workouts", err)
	}
	return workouts, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, caller domain.Identity, workoutID primitive.ObjectID) (*domain.Workout, error) {
	if !caller.Can(domain.CapTrackFitness) {
		return nil, ErrCapabilityDenied
	}
	workout, err := s.workoutRepo.GetByIDForUser(ctx, workoutID, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, internalError("failed to load workout", err)
	}
	return workout, nil
}

func (s *workoutService) UpdateWorkout(ctx context.Context, caller domain.Identity, workoutID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	workout, err := s.GetWorkout(ctx, caller, workoutID)
	if err != nil {
		return nil, err
	}

	input.applyTo(workout)
	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, internalError("failed to update workout", err)
	}
	return workout, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, caller domain.Identity, workoutID primitive.ObjectID) error {
	if !caller.Can(domain.CapTrackFitness) {
		return ErrCapabilityDenied
	}
	if err := s.workoutRepo.Delete(ctx, workoutID, caller.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return internalError("failed to delete workout", err)
	}
	return nil
}
