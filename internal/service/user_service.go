package service

import (
	"context"
	"errors"
	"log/slog"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// RecentWorkoutsLimit caps the workouts reported by UserStats.
const RecentWorkoutsLimit = 10

// ProfileUpdate lists the profile fields a caller may change. Nil leaves a field as is.
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	Age            *int
	Gender         *string
	Height         *float64
	Weight         *float64
	Goal           *string
	ProfileImage   *string
	Bio            *string
	Specialization []string
	Experience     *int
	Certificates   []domain.Certificate
	SocialLinks    *domain.SocialLinks
}

func (u ProfileUpdate) touchesTrainerAttributes() bool {
	return u.Specialization != nil || u.Experience != nil || u.Certificates != nil || u.SocialLinks != nil
}

// ApplyTo copies the provided fields into p.
func (u ProfileUpdate) ApplyTo(p *domain.Profile) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&p.FirstName, u.FirstName)
	setString(&p.LastName, u.LastName)
	setString(&p.Gender, u.Gender)
	setString(&p.Goal, u.Goal)
	setString(&p.ProfileImage, u.ProfileImage)
	setString(&p.Bio, u.Bio)
	if u.Age != nil {
		p.Age = u.Age
	}
	if u.Height != nil {
		p.Height = u.Height
	}
	if u.Weight != nil {
		p.Weight = u.Weight
	}
	if u.Specialization != nil {
		p.Specialization = u.Specialization
	}
	if u.Experience != nil {
		p.Experience = u.Experience
	}
	if u.Certificates != nil {
		p.Certificates = u.Certificates
	}
	if u.SocialLinks != nil {
		p.SocialLinks = u.SocialLinks
	}
}

// UserStats summarises a user's recent training.
type UserStats struct {
	Profile                domain.Profile   `json:"profile"`
	RecentWorkouts         []domain.Workout `json:"recentWorkouts"`
	TotalWorkouts          int              `json:"totalWorkouts"`
	CompletedWorkouts      int              `json:"completedWorkouts"`
	AverageWorkoutDuration float64          `json:"averageWorkoutDuration"`
}

type UserService interface {
	UpdateProfile(ctx context.Context, caller domain.Identity, update ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, caller domain.Identity, currentPassword, newPassword string) error
	UserStats(ctx context.Context, caller domain.Identity) (*UserStats, error)
}

type userService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	log         *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, workoutRepo repository.WorkoutRepository, log *slog.Logger) UserService {
	if log == nil {
		log = slog.Default()
	}
	return &userService{userRepo: userRepo, workoutRepo: workoutRepo, log: log}
}

func (s *userService) load(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("failed to load user", err)
	}
	return user, nil
}

// UpdateProfile merges the provided fields into the caller's profile.
func (s *userService) UpdateProfile(ctx context.Context, caller domain.Identity, update ProfileUpdate) (*domain.User, error) {
	if !caller.Can(domain.CapManageAccount) {
		return nil, ErrCapabilityDenied
	}
	user, err := s.load(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsTrainer() && update.touchesTrainerAttributes() {
		return nil, ErrTrainerOnlyFields
	}

	update.ApplyTo(&user.Profile)
	if err := s.userRepo.UpdateProfile(ctx, user.ID, user.Profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("failed to update profile", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *userService) ChangePassword(ctx context.Context, caller domain.Identity, currentPassword, newPassword string) error {
	if !caller.Can(domain.CapManageAccount) {
		return ErrCapabilityDenied
	}
	if len(newPassword) < 6 {
		return Validationf("new password must be at least 6 characters")
	}
	user, err := s.load(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError("failed to hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return internalError("failed to update password", err)
	}
	s.log.Info("password changed", slog.String("user_id", user.ID.Hex()))
	return nil
}

// UserStats reports on the caller's most recent workouts. Totals and the
// average are computed over that recent set.
func (s *userService) UserStats(ctx context.Context, caller domain.Identity) (*UserStats, error) {
	user, err := s.load(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	workouts, err := s.workoutRepo.ListByUser(ctx, caller.UserID, RecentWorkoutsLimit)
	if err != nil {
		return nil, internalError("failed to load workouts", err)
	}

	stats := &UserStats{
		Profile:        user.Profile,
		RecentWorkouts: workouts,
		TotalWorkouts:  len(workouts),
	}
	totalDuration := 0
	for _, w := range workouts {
		if w.Completed {
			stats.CompletedWorkouts++
		}
		totalDuration += w.Duration
	}
	if len(workouts) > 0 {
		stats.AverageWorkoutDuration = float64(totalDuration) / float64(len(workouts))
	}
	return stats, nil
}
