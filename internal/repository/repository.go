package repository

import (
	"alcyxob/fit-platform/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
	// ErrConditionFailed is returned when a conditional single-document update
	// matched nothing. The caller re-reads the document to learn why.
	ErrConditionFailed = RepositoryError("condition failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetTrainerIDsBySpecialization returns the ids of trainers listing the specialization.
	GetTrainerIDsBySpecialization(ctx context.Context, specialization string) ([]primitive.ObjectID, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.Profile) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// Course sort keys accepted by CourseFilter.SortBy.
const (
	SortByCreatedAt = "createdAt"
	SortByPrice     = "price"
	SortByTitle     = "title"
)

// CourseFilter narrows a course listing. Nil pointers mean "no constraint".
type CourseFilter struct {
	// TrainerIDs restricts results to these trainers when RestrictTrainers is set.
	// An empty list with RestrictTrainers matches nothing.
	TrainerIDs       []primitive.ObjectID
	RestrictTrainers bool
	IsPublished      *bool
	MinPrice         *float64
	MaxPrice         *float64
	SortBy           string
	SortDesc         bool
	Skip             int64
	Limit            int64
}

// CourseRepository defines the interface for interacting with course data.
// The interaction methods are conditional single-document updates: they
// return ErrConditionFailed when the guard did not match.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]domain.Course, int64, error)
	// Update replaces the mutable fields of a course owned by course.TrainerID.
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error // Ensure trainer owns the course

	// AddEnrollment appends when the course is published and the user is not enrolled.
	AddEnrollment(ctx context.Context, courseID primitive.ObjectID, enrollment domain.Enrollment) error
	SetEnrollmentStatus(ctx context.Context, courseID, userID primitive.ObjectID, status domain.CompletionStatus) error
	// AddReview appends when the user has not reviewed the course yet.
	AddReview(ctx context.Context, courseID primitive.ObjectID, review domain.Review) error
	// AddLike appends when the user has not liked the course yet.
	AddLike(ctx context.Context, courseID primitive.ObjectID, like domain.Like) error
	// RemoveLike reports whether a like by the user was removed.
	RemoveLike(ctx context.Context, courseID, userID primitive.ObjectID) (bool, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
// Every lookup is scoped to the owning user.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error)
	// ListByUser returns the newest workouts first; limit 0 means no limit.
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// MealFilter selects a user's meals. Zero times leave that bound open.
type MealFilter struct {
	UserID primitive.ObjectID
	From   time.Time
	To     time.Time
	Type   domain.MealType
}

// MealRepository recomputes meal totals on every write.
type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error)
	GetByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Meal, error)
	// List returns the newest meals first.
	List(ctx context.Context, filter MealFilter) ([]domain.Meal, error)
	Update(ctx context.Context, meal *domain.Meal) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// UploadRepository defines the interface for interacting with course media metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MediaUpload, error)
	ListByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.MediaUpload, error)
	DeleteByCourseID(ctx context.Context, courseID primitive.ObjectID) (int64, error)
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Users    UserRepository
	Courses  CourseRepository
	Workouts WorkoutRepository
	Meals    MealRepository
	Uploads  UploadRepository
}
