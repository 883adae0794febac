package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type StatsService interface {
	TrainerStats(ctx context.Context, caller domain.Identity) (*TrainerStats, error)
	CourseStats(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) (*CourseStats, error)
}

type statsService struct {
	courseRepo repository.CourseRepository
	now        func() time.Time
}

func NewStatsService(courseRepo repository.CourseRepository, now func() time.Time) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{courseRepo: courseRepo, now: now}
}

// TrainerStats aggregates every course the calling trainer owns.
func (s *statsService) TrainerStats(ctx context.Context, caller domain.Identity) (*TrainerStats, error) {
	ctx, span := tracer.Start(ctx, "stats.TrainerStats",
		trace.WithAttributes(attribute.String("trainer.id", caller.UserID.Hex())))
	defer span.End()

	if !caller.Can(domain.CapViewTrainerStats) {
		return nil, ErrCapabilityDenied
	}

	courses, err := s.courseRepo.GetByTrainerID(ctx, caller.UserID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, internalError("failed to load courses", err)
	}
	span.SetAttributes(attribute.Int("courses.count", len(courses)))

	stats := ComputeTrainerStats(courses, s.now())
	return &stats, nil
}

// CourseStats reports on one course; only its trainer may see it.
func (s *statsService) CourseStats(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) (*CourseStats, error) {
	ctx, span := tracer.Start(ctx, "stats.CourseStats",
		trace.WithAttributes(attribute.String("course.id", courseID.Hex())))
	defer span.End()

	if !caller.Can(domain.CapViewTrainerStats) {
		return nil, ErrCapabilityDenied
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, internalError("failed to load course", err)
	}
	if !course.IsOwnedBy(caller.UserID) {
		return nil, ErrStatsAccessDenied
	}

	stats := ComputeCourseStats(course, s.now())
	return &stats, nil
}
