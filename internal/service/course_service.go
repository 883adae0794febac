package service

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/metrics"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LikeResult is the outcome of a like toggle.
type LikeResult string

const (
	Liked   LikeResult = "liked"
	Unliked LikeResult = "unliked"
)

// Interaction writes can lose a race with another request on the same course;
// the guard is re-evaluated a bounded number of times.
const maxInteractionAttempts = 3

// Listing defaults.
const (
	DefaultCoursePage  = 1
	DefaultCourseLimit = 10
	MaxCourseLimit     = 100
)

// CourseInput carries the trainer-editable fields. Optional fields are
// pointers; on update a nil pointer keeps the stored value. A nil Lessons
// slice keeps the stored lessons, an empty one clears them.
type CourseInput struct {
	Title         string
	Description   *string
	Price         float64
	CoverImageURL *string
	IsPublished   *bool
	Lessons       []domain.Lesson
}

// CourseListQuery mirrors the public listing filters.
type CourseListQuery struct {
	TrainerID      *primitive.ObjectID
	IsPublished    *bool
	MinPrice       *float64
	MaxPrice       *float64
	Specialization string
	SortBy         string
	SortOrder      string
	Page           int
	Limit          int
}

// TrainerSummary is the public part of a trainer profile shown with courses.
type TrainerSummary struct {
	ID             primitive.ObjectID   `json:"id"`
	Username       string               `json:"username"`
	FirstName      string               `json:"firstName,omitempty"`
	LastName       string               `json:"lastName,omitempty"`
	ProfileImage   string               `json:"profileImage,omitempty"`
	Bio            string               `json:"bio,omitempty"`
	Specialization []string             `json:"specialization,omitempty"`
	Experience     *int                 `json:"experience,omitempty"`
	Certificates   []domain.Certificate `json:"certificates,omitempty"`
	SocialLinks    *domain.SocialLinks  `json:"socialLinks,omitempty"`
}

// CourseDetails is a course together with its trainer's summary.
// Trainer is nil when the trainer account no longer resolves.
type CourseDetails struct {
	Course  *domain.Course
	Trainer *TrainerSummary
}

type CourseList struct {
	Courses     []CourseDetails
	CurrentPage int
	TotalPages  int
	Total       int64
}

// MediaPurger removes stored media of a deleted course.
type MediaPurger interface {
	PurgeCourse(ctx context.Context, courseID primitive.ObjectID) error
}

type CourseService interface {
	CreateCourse(ctx context.Context, caller domain.Identity, input CourseInput) (*domain.Course, error)
	ListCourses(ctx context.Context, query CourseListQuery) (*CourseList, error)
	GetCourse(ctx context.Context, courseID primitive.ObjectID) (*CourseDetails, error)
	UpdateCourse(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, input CourseInput) (*domain.Course, error)
	DeleteCourse(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) error

	Enroll(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) error
	UpdateEnrollmentStatus(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, status domain.CompletionStatus) error
	AddReview(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, rating int, comment string) error
	ToggleLike(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) (LikeResult, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
	media      MediaPurger // nil when media storage is disabled
	log        *slog.Logger
	now        func() time.Time
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	media MediaPurger,
	log *slog.Logger,
) CourseService {
	if log == nil {
		log = slog.Default()
	}
	return &courseService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		media:      media,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// === Trainer authoring ===

func validateCourseInput(input CourseInput) error {
	if n := utf8.RuneCountInString(input.Title); n < 3 || n > 100 {
		return Validationf("course title must be between 3 and 100 characters")
	}
	if input.Description != nil && utf8.RuneCountInString(*input.Description) > 2000 {
		return Validationf("course description must not exceed 2000 characters")
	}
	if input.Price < 0 {
		return Validationf("course price cannot be negative")
	}
	if err := domain.ValidateOrdering(input.Lessons); err != nil {
		return Validationf("%s", err.Error())
	}
	return nil
}

func (input CourseInput) applyTo(course *domain.Course) {
	course.Title = input.Title
	course.Price = input.Price
	if input.Lessons != nil {
		course.Lessons = input.Lessons
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.CoverImageURL != nil {
		course.CoverImageURL = *input.CoverImageURL
	}
	if input.IsPublished != nil {
		course.IsPublished = *input.IsPublished
	}
}

// CreateCourse stores a new course owned by the calling trainer.
func (s *courseService) CreateCourse(ctx context.Context, caller domain.Identity, input CourseInput) (*domain.Course, error) {
	if !caller.Can(domain.CapManageCourses) {
		return nil, ErrCapabilityDenied
	}
	if err := validateCourseInput(input); err != nil {
		return nil, err
	}

	course := &domain.Course{
		TrainerID:   caller.UserID, // the owner is always the caller
		Enrollments: []domain.Enrollment{},
		Reviews:     []domain.Review{},
		Likes:       []domain.Like{},
	}
	input.applyTo(course)
	if course.Lessons == nil {
		course.Lessons = []domain.Lesson{}
	}

	if _, err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, internalError("failed to create course", err)
	}
	s.log.Info("course created", slog.String("course_id", course.ID.Hex()), slog.String("trainer_id", caller.UserID.Hex()))
	return course, nil
}

// loadOwned fetches a course and checks that the caller is its trainer.
func (s *courseService) loadOwned(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) (*domain.Course, error) {
	if !caller.Can(domain.CapManageCourses) {
		return nil, ErrCapabilityDenied
	}
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, internalError("failed to load course", err)
	}
	if !course.IsOwnedBy(caller.UserID) {
		return nil, ErrCourseAccessDenied
	}
	return course, nil
}

// UpdateCourse replaces the editable fields of a course the caller owns.
// Enrollments, reviews and likes are left untouched.
func (s *courseService) UpdateCourse(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, input CourseInput) (*domain.Course, error) {
	course, err := s.loadOwned(ctx, caller, courseID)
	if err != nil {
		return nil, err
	}
	if err := validateCourseInput(input); err != nil {
		return nil, err
	}

	input.applyTo(course)
	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// deleted between the read and the write
			return nil, ErrCourseNotFound
		}
		return nil, internalError("failed to update course", err)
	}
	return course, nil
}

// DeleteCourse removes a course the caller owns, then its stored media.
func (s *courseService) DeleteCourse(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) error {
	if _, err := s.loadOwned(ctx, caller, courseID); err != nil {
		return err
	}
	if err := s.courseRepo.Delete(ctx, courseID, caller.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return internalError("failed to delete course", err)
	}

	if s.media != nil {
		// Best effort: the course is already gone.
		if err := s.media.PurgeCourse(ctx, courseID); err != nil {
			s.log.Warn("failed to purge course media", slog.String("course_id", courseID.Hex()), slog.Any("error", err))
		}
	}
	s.log.Info("course deleted", slog.String("course_id", courseID.Hex()))
	return nil
}

// === Public reads ===

func (s *courseService) ListCourses(ctx context.Context, query CourseListQuery) (*CourseList, error) {
	page, limit := query.Page, query.Limit
	if page == 0 {
		page = DefaultCoursePage
	}
	if limit == 0 {
		limit = DefaultCourseLimit
	}
	if page < 1 {
		return nil, Validationf("page must be at least 1")
	}
	if limit < 1 || limit > MaxCourseLimit {
		return nil, Validationf("limit must be between 1 and %d", MaxCourseLimit)
	}

	filter := repository.CourseFilter{
		IsPublished: query.IsPublished,
		MinPrice:    query.MinPrice,
		MaxPrice:    query.MaxPrice,
		Skip:        int64((page - 1) * limit),
		Limit:       int64(limit),
	}

	switch query.SortBy {
	case "", repository.SortByCreatedAt:
		filter.SortBy = repository.SortByCreatedAt
	case repository.SortByPrice, repository.SortByTitle:
		filter.SortBy = query.SortBy
	default:
		return nil, Validationf("sortBy must be one of createdAt, price, title")
	}
	switch query.SortOrder {
	case "", "desc":
		filter.SortDesc = true
	case "asc":
	default:
		return nil, Validationf("sortOrder must be asc or desc")
	}

	if query.TrainerID != nil {
		filter.RestrictTrainers = true
		filter.TrainerIDs = []primitive.ObjectID{*query.TrainerID}
	}
	if query.Specialization != "" {
		ids, err := s.userRepo.GetTrainerIDsBySpecialization(ctx, query.Specialization)
		if err != nil {
			return nil, internalError("failed to resolve specialization", err)
		}
		if filter.RestrictTrainers {
			ids = intersectIDs(filter.TrainerIDs, ids)
		}
		filter.RestrictTrainers = true
		filter.TrainerIDs = ids
	}

	courses, total, err := s.courseRepo.List(ctx, filter)
	if err != nil {
		return nil, internalError("failed to list courses", err)
	}

	details, err := s.withTrainers(ctx, courses)
	if err != nil {
		return nil, err
	}

	return &CourseList{
		Courses:     details,
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		Total:       total,
	}, nil
}

func intersectIDs(a, b []primitive.ObjectID) []primitive.ObjectID {
	out := []primitive.ObjectID{}
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}

// withTrainers attaches trainer summaries, loading each trainer once.
func (s *courseService) withTrainers(ctx context.Context, courses []domain.Course) ([]CourseDetails, error) {
	cache := make(map[primitive.ObjectID]*TrainerSummary)
	details := make([]CourseDetails, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		summary, seen := cache[c.TrainerID]
		if !seen {
			var err error
			summary, err = s.trainerSummary(ctx, c.TrainerID)
			if err != nil {
				return nil, err
			}
			cache[c.TrainerID] = summary
		}
		details = append(details, CourseDetails{Course: c, Trainer: summary})
	}
	return details, nil
}

func (s *courseService) trainerSummary(ctx context.Context, trainerID primitive.ObjectID) (*TrainerSummary, error) {
	u, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, internalError("failed to load trainer", err)
	}
	return &TrainerSummary{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfileImage:   u.ProfileImage,
		Bio:            u.Bio,
		Specialization: u.Specialization,
		Experience:     u.Experience,
		Certificates:   u.Certificates,
		SocialLinks:    u.SocialLinks,
	}, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID primitive.ObjectID) (*CourseDetails, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, internalError("failed to load course", err)
	}
	summary, err := s.trainerSummary(ctx, course.TrainerID)
	if err != nil {
		return nil, err
	}
	return &CourseDetails{Course: course, Trainer: summary}, nil
}

// === User interactions ===

// explainConditionFailure re-reads the course after a guarded write matched
// nothing and reports the first violated precondition. A nil result means
// the state changed in between and the write may be retried.
func (s *courseService) explainConditionFailure(ctx context.Context, courseID primitive.ObjectID, violated func(*domain.Course) error) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return internalError("failed to load course", err)
	}
	return violated(course)
}

func observeInteraction(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	metrics.CourseInteractions.WithLabelValues(action, outcome).Inc()
}

// Enroll appends an in-progress enrollment for the caller. The publication
// and uniqueness checks run inside the store's conditional update.
func (s *courseService) Enroll(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) (err error) {
	ctx, span := tracer.Start(ctx, "course.Enroll", trace.WithAttributes(attribute.String("course.id", courseID.Hex())))
	defer span.End()
	defer func() { observeInteraction("enroll", err) }()

	if !caller.Can(domain.CapInteractWithCourses) {
		return ErrCapabilityDenied
	}

	for attempt := 0; attempt < maxInteractionAttempts; attempt++ {
		enrollment := domain.Enrollment{
			UserID:           caller.UserID,
			EnrollmentDate:   s.now(),
			CompletionStatus: domain.StatusInProgress,
		}
		err = s.courseRepo.AddEnrollment(ctx, courseID, enrollment)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrConditionFailed) {
			return internalError("failed to enroll", err)
		}

		err = s.explainConditionFailure(ctx, courseID, func(c *domain.Course) error {
			if !c.IsPublished {
				return ErrCourseNotPublished
			}
			if c.HasEnrollment(caller.UserID) {
				return ErrAlreadyEnrolled
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return internalError("failed to enroll", errors.New("course kept changing during enrollment"))
}

// UpdateEnrollmentStatus lets an enrolled user record progress.
func (s *courseService) UpdateEnrollmentStatus(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, status domain.CompletionStatus) error {
	if !caller.Can(domain.CapInteractWithCourses) {
		return ErrCapabilityDenied
	}
	if !status.Valid() {
		return Validationf("completionStatus must be one of in_progress, completed, dropped")
	}

	err := s.courseRepo.SetEnrollmentStatus(ctx, courseID, caller.UserID, status)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return internalError("failed to update enrollment", err)
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return internalError("failed to load course", err)
	}
	return ErrEnrollmentNotFound
}

// AddReview appends the caller's single review of a course.
func (s *courseService) AddReview(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, rating int, comment string) (err error) {
	ctx, span := tracer.Start(ctx, "course.AddReview", trace.WithAttributes(attribute.String("course.id", courseID.Hex())))
	defer span.End()
	defer func() { observeInteraction("review", err) }()

	if !caller.Can(domain.CapInteractWithCourses) {
		return ErrCapabilityDenied
	}
	if rating < 1 || rating > 5 {
		return Validationf("rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(comment) > 1000 {
		return Validationf("comment must not exceed 1000 characters")
	}

	for attempt := 0; attempt < maxInteractionAttempts; attempt++ {
		review := domain.Review{
			UserID:     caller.UserID,
			Rating:     rating,
			Comment:    comment,
			ReviewDate: s.now(),
		}
		err = s.courseRepo.AddReview(ctx, courseID, review)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrConditionFailed) {
			return internalError("failed to add review", err)
		}

		err = s.explainConditionFailure(ctx, courseID, func(c *domain.Course) error {
			if c.HasReview(caller.UserID) {
				return ErrAlreadyReviewed
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return internalError("failed to add review", errors.New("course kept changing during review"))
}

// ToggleLike removes the caller's like if present, otherwise adds one.
func (s *courseService) ToggleLike(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) (result LikeResult, err error) {
	ctx, span := tracer.Start(ctx, "course.ToggleLike", trace.WithAttributes(attribute.String("course.id", courseID.Hex())))
	defer span.End()
	defer func() { observeInteraction("like", err) }()

	if !caller.Can(domain.CapInteractWithCourses) {
		return "", ErrCapabilityDenied
	}

	for attempt := 0; attempt < maxInteractionAttempts; attempt++ {
		removed, err := s.courseRepo.RemoveLike(ctx, courseID, caller.UserID)
		if err != nil {
			return "", internalError("failed to update like", err)
		}
		if removed {
			return Unliked, nil
		}

		err = s.courseRepo.AddLike(ctx, courseID, domain.Like{UserID: caller.UserID, LikedAt: s.now()})
		if err == nil {
			return Liked, nil
		}
		if !errors.Is(err, repository.ErrConditionFailed) {
			return "", internalError("failed to update like", err)
		}

		// Either the course is gone or a concurrent request liked it first.
		if err := s.explainConditionFailure(ctx, courseID, func(*domain.Course) error { return nil }); err != nil {
			return "", err
		}
	}
	return "", internalError("failed to update like", errors.New("course kept changing during like toggle"))
}
