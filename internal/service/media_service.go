package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"
	"alcyxob/fit-platform/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadTicket is what a trainer needs to PUT a file straight into object storage.
type UploadTicket struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadConfirmation describes an object the client finished uploading.
type UploadConfirmation struct {
	ObjectKey string
	FileName  string
}

type MediaService interface {
	RequestUploadURL(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, fileName, contentType string) (*UploadTicket, error)
	ConfirmUpload(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, input UploadConfirmation) (*domain.MediaUpload, error)
	DownloadURL(ctx context.Context, caller domain.Identity, courseID, uploadID primitive.ObjectID) (string, error)
	PurgeCourse(ctx context.Context, courseID primitive.ObjectID) error
}

type mediaService struct {
	courseRepo repository.CourseRepository
	uploadRepo repository.UploadRepository
	files      storage.FileStorage // nil when no bucket is configured
	expiry     time.Duration
	log        *slog.Logger
}

// NewMediaService wires course media. A nil FileStorage disables uploads and
// makes PurgeCourse a no-op.
func NewMediaService(
	courseRepo repository.CourseRepository,
	uploadRepo repository.UploadRepository,
	files storage.FileStorage,
	expiry time.Duration,
	log *slog.Logger,
) MediaService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	if log == nil {
		log = slog.Default()
	}
	return &mediaService{
		courseRepo: courseRepo,
		uploadRepo: uploadRepo,
		files:      files,
		expiry:     expiry,
		log:        log,
	}
}

func coursePrefix(courseID primitive.ObjectID) string {
	return fmt.Sprintf("courses/%s/", courseID.Hex())
}

func allowedMediaType(contentType string) bool {
	return strings.HasPrefix(contentType, "video/") || strings.HasPrefix(contentType, "image/")
}

func (s *mediaService) loadCourse(ctx context.Context, courseID primitive.ObjectID) (*domain.Course, error) {
	if s.files == nil {
		return nil, ErrMediaDisabled
	}
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, internalError("failed to load course", err)
	}
	return course, nil
}

func (s *mediaService) loadOwnedCourse(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID) (*domain.Course, error) {
	if !caller.Can(domain.CapManageCourses) {
		return nil, ErrCapabilityDenied
	}
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsOwnedBy(caller.UserID) {
		return nil, ErrCourseAccessDenied
	}
	return course, nil
}

// RequestUploadURL reserves a fresh object key under the course prefix and
// presigns a PUT for it.
func (s *mediaService) RequestUploadURL(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, fileName, contentType string) (*UploadTicket, error) {
	if _, err := s.loadOwnedCourse(ctx, caller, courseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, Validationf("fileName is required")
	}
	if !allowedMediaType(contentType) {
		return nil, Validationf("only video/* and image/* content types are accepted")
	}

	key := coursePrefix(courseID) + uuid.NewString() + strings.ToLower(path.Ext(fileName))
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		return nil, internalError("failed to generate upload url", err)
	}
	return &UploadTicket{
		UploadURL: url,
		ObjectKey: key,
		ExpiresAt: time.Now().UTC().Add(s.expiry),
	}, nil
}

// ConfirmUpload records metadata for an object that now exists in storage.
func (s *mediaService) ConfirmUpload(ctx context.Context, caller domain.Identity, courseID primitive.ObjectID, input UploadConfirmation) (*domain.MediaUpload, error) {
	if _, err := s.loadOwnedCourse(ctx, caller, courseID); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(input.ObjectKey, coursePrefix(courseID)) || strings.Contains(input.ObjectKey, "..") {
		return nil, Validationf("objectKey does not belong to this course")
	}

	info, err := s.files.StatObject(ctx, input.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrObjectNotUploaded
		}
		return nil, internalError("failed to inspect uploaded object", err)
	}
	if !allowedMediaType(info.ContentType) {
		return nil, Validationf("only video/* and image/* content types are accepted")
	}

	fileName := input.FileName
	if fileName == "" {
		fileName = path.Base(input.ObjectKey)
	}
	upload := &domain.MediaUpload{
		CourseID:    courseID,
		TrainerID:   caller.UserID,
		S3ObjectKey: input.ObjectKey,
		FileName:    fileName,
		ContentType: info.ContentType,
		Size:        info.Size,
	}
	if _, err := s.uploadRepo.Create(ctx, upload); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUploadExists
		}
		return nil, internalError("failed to save upload", err)
	}
	s.log.Info("course media uploaded",
		slog.String("course_id", courseID.Hex()),
		slog.String("upload_id", upload.ID.Hex()),
		slog.Int64("size", upload.Size))
	return upload, nil
}

// DownloadURL presigns a GET for the course trainer or an enrolled user.
func (s *mediaService) DownloadURL(ctx context.Context, caller domain.Identity, courseID, uploadID primitive.ObjectID) (string, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return "", err
	}
	upload, err := s.uploadRepo.GetByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUploadNotFound
		}
		return "", internalError("failed to load upload", err)
	}
	if upload.CourseID != course.ID {
		return "", ErrUploadNotFound
	}
	if !course.IsOwnedBy(caller.UserID) && !course.HasEnrollment(caller.UserID) {
		return "", ErrUploadAccessDenied
	}

	url, err := s.files.GeneratePresignedDownloadURL(ctx, upload.S3ObjectKey, s.expiry)
	if err != nil {
		return "", internalError("failed to generate download url", err)
	}
	return url, nil
}

// PurgeCourse deletes every stored object and upload record of a course.
func (s *mediaService) PurgeCourse(ctx context.Context, courseID primitive.ObjectID) error {
	if s.files == nil {
		return nil
	}
	objects, err := s.files.DeleteObjects(ctx, coursePrefix(courseID))
	if err != nil {
		return fmt.Errorf("delete course objects: %w", err)
	}
	records, err := s.uploadRepo.DeleteByCourseID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("delete upload records: %w", err)
	}
	s.log.Info("course media purged",
		slog.String("course_id", courseID.Hex()),
		slog.Int("objects", objects),
		slog.Int64("records", records))
	return nil
}
