package api

import (
	"net/http"
	"strings"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseHandler struct {
	courseService service.CourseService
}

func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// --- DTOs ---

type VideoRequest struct {
	Title           string `json:"title" binding:"required,min=3,max=100"`
	ContentURL      string `json:"contentUrl" binding:"required,url"`
	DurationSeconds *int   `json:"durationSeconds" binding:"omitempty,gte=1"`
}

type TaskRequest struct {
	Title         string         `json:"title" binding:"required,min=3,max=100"`
	Description   string         `json:"description" binding:"max=500"`
	OrderInLesson int            `json:"orderInLesson" binding:"required,gte=1"`
	Videos        []VideoRequest `json:"videos" binding:"required,dive"`
}

type LessonRequest struct {
	ID            string        `json:"id" binding:"omitempty,objectid"` // keeps the id of an existing lesson
	Title         string        `json:"title" binding:"required,min=3,max=100"`
	Description   string        `json:"description" binding:"max=1000"`
	OrderInCourse int           `json:"orderInCourse" binding:"required,gte=1"`
	Tasks         []TaskRequest `json:"tasks" binding:"required,dive"`
}

// CourseRequest is used for both create and update. The lessons array
// must always be sent and update replaces the stored lessons with it;
// description, cover image and publication keep their stored
// value when omitted.
type CourseRequest struct {
	Title         string          `json:"title" binding:"required,min=3,max=100"`
	Description   *string         `json:"description" binding:"omitempty,max=2000"`
	Price         *float64        `json:"price" binding:"required,gte=0"`
	CoverImageURL *string         `json:"coverImageUrl" binding:"omitempty,url"`
	IsPublished   *bool           `json:"isPublished"`
	Lessons       []LessonRequest `json:"lessons" binding:"required,dive"`
}

func (r CourseRequest) toInput() service.CourseInput {
	lessons := make([]domain.Lesson, 0, len(r.Lessons))
	for _, l := range r.Lessons {
		lesson := domain.Lesson{
			Title:         strings.TrimSpace(l.Title),
			Description:   strings.TrimSpace(l.Description),
			OrderInCourse: l.OrderInCourse,
			Tasks:         make([]domain.Task, 0, len(l.Tasks)),
		}
		if id, err := primitive.ObjectIDFromHex(l.ID); err == nil {
			lesson.ID = id
		}
		for _, t := range l.Tasks {
			task := domain.Task{
				Title:         strings.TrimSpace(t.Title),
				Description:   strings.TrimSpace(t.Description),
				OrderInLesson: t.OrderInLesson,
				Videos:        make([]domain.Video, 0, len(t.Videos)),
			}
			for _, v := range t.Videos {
				task.Videos = append(task.Videos, domain.Video{
					Title:           strings.TrimSpace(v.Title),
					ContentURL:      v.ContentURL,
					DurationSeconds: v.DurationSeconds,
				})
			}
			lesson.Tasks = append(lesson.Tasks, task)
		}
		lessons = append(lessons, lesson)
	}

	return service.CourseInput{
		Title:         strings.TrimSpace(r.Title),
		Description:   trimmed(r.Description),
		Price:         *r.Price,
		CoverImageURL: r.CoverImageURL,
		IsPublished:   r.IsPublished,
		Lessons:       lessons,
	}
}

type CourseListRequest struct {
	Trainer        string   `form:"trainer" binding:"omitempty,objectid"`
	IsPublished    *bool    `form:"isPublished"`
	MinPrice       *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice       *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	Specialization string   `form:"specialization"`
	SortBy         string   `form:"sortBy" binding:"omitempty,oneof=createdAt price title"`
	SortOrder      string   `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Page           int      `form:"page" binding:"omitempty,gte=1"`
	Limit          int      `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

type EnrollmentStatusRequest struct {
	CompletionStatus domain.CompletionStatus `json:"completionStatus" binding:"required,oneof=in_progress completed dropped"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

type CourseResponse struct {
	ID              string                  `json:"id"`
	TrainerID       string                  `json:"trainerId"`
	Trainer         *service.TrainerSummary `json:"trainer,omitempty"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description,omitempty"`
	Price           float64                 `json:"price"`
	CoverImageURL   string                  `json:"coverImageUrl,omitempty"`
	IsPublished     bool                    `json:"isPublished"`
	Lessons         []domain.Lesson         `json:"lessons"`
	Enrollments     []domain.Enrollment     `json:"enrollments"`
	Reviews         []domain.Review         `json:"reviews"`
	Likes           []domain.Like           `json:"likes"`
	AverageRating   float64                 `json:"averageRating"`
	EnrollmentCount int                     `json:"enrollmentCount"`
	LikeCount       int                     `json:"likeCount"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

type CourseListResponse struct {
	Courses     []CourseResponse `json:"courses"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
	Total       int64            `json:"total"`
}

type LikeResponse struct {
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// MapCourseToResponse converts a domain Course (and optional trainer summary) to its DTO.
func MapCourseToResponse(course *domain.Course, trainer *service.TrainerSummary) CourseResponse {
	return CourseResponse{
		ID:              course.ID.Hex(),
		TrainerID:       course.TrainerID.Hex(),
		Trainer:         trainer,
		Title:           course.Title,
		Description:     course.Description,
		Price:           course.Price,
		CoverImageURL:   course.CoverImageURL,
		IsPublished:     course.IsPublished,
		Lessons:         emptyIfNil(course.Lessons),
		Enrollments:     emptyIfNil(course.Enrollments),
		Reviews:         emptyIfNil(course.Reviews),
		Likes:           emptyIfNil(course.Likes),
		AverageRating:   course.AverageRating(),
		EnrollmentCount: len(course.Enrollments),
		LikeCount:       len(course.Likes),
		CreatedAt:       course.CreatedAt,
		UpdatedAt:       course.UpdatedAt,
	}
}

// --- Handler Methods ---

// ListCourses godoc
// @Summary List courses
// @Description Public listing with filters, sorting and pagination.
// @Tags Courses
// @Produce json
// @Param trainer query string false "Trainer ID"
// @Param isPublished query bool false "Publication state"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param specialization query string false "Trainer specialization"
// @Param sortBy query string false "createdAt, price or title"
// @Param sortOrder query string false "asc or desc (default desc)"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, 1..100 (default 10)"
// @Success 200 {object} CourseListResponse
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var req CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	query := service.CourseListQuery{
		IsPublished:    req.IsPublished,
		MinPrice:       req.MinPrice,
		MaxPrice:       req.MaxPrice,
		Specialization: strings.TrimSpace(req.Specialization),
		SortBy:         req.SortBy,
		SortOrder:      req.SortOrder,
		Page:           req.Page,
		Limit:          req.Limit,
	}
	if req.Trainer != "" {
		trainerID, _ := primitive.ObjectIDFromHex(req.Trainer) // validated by binding
		query.TrainerID = &trainerID
	}

	list, err := h.courseService.ListCourses(c.Request.Context(), query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := CourseListResponse{
		Courses:     make([]CourseResponse, 0, len(list.Courses)),
		CurrentPage: list.CurrentPage,
		TotalPages:  list.TotalPages,
		Total:       list.Total,
	}
	for _, d := range list.Courses {
		resp.Courses = append(resp.Courses, MapCourseToResponse(d.Course, d.Trainer))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCourse godoc
// @Summary Get a course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} CourseResponse
// @Failure 400 {object} ErrorResponse "Invalid course ID"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	details, err := h.courseService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCourseToResponse(details.Course, details.Trainer))
}

// CreateCourse godoc
// @Summary Create a course
// @Description The authenticated trainer becomes the course owner.
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body CourseRequest true "Course"
// @Success 201 {object} CourseResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 403 {object} ErrorResponse "Not a trainer"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), caller, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapCourseToResponse(course, nil))
}

// UpdateCourse godoc
// @Summary Update a course
// @Description Only the course owner may update it. Enrollments, reviews and likes are kept.
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param course body CourseRequest true "Course"
// @Success 200 {object} CourseResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	course, err := h.courseService.UpdateCourse(c.Request.Context(), caller, courseID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCourseToResponse(course, nil))
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	if err := h.courseService.DeleteCourse(c.Request.Context(), caller, courseID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Course deleted"})
}

// Enroll godoc
// @Summary Enroll in a published course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Already enrolled or course not published"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	if err := h.courseService.Enroll(c.Request.Context(), caller, courseID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Successfully enrolled in the course"})
}

// UpdateEnrollment godoc
// @Summary Update the caller's completion status
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param status body EnrollmentStatusRequest true "New status"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Course not found or not enrolled"
// @Router /courses/{id}/enrollment [put]
func (h *CourseHandler) UpdateEnrollment(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req EnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	if err := h.courseService.UpdateEnrollmentStatus(c.Request.Context(), caller, courseID, req.CompletionStatus); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Enrollment updated"})
}

// AddReview godoc
// @Summary Review a course
// @Description One review per user and course.
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param review body ReviewRequest true "Review"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Validation error or already reviewed"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/reviews [post]
func (h *CourseHandler) AddReview(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	err := h.courseService.AddReview(c.Request.Context(), caller, courseID, req.Rating, strings.TrimSpace(req.Comment))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Review added"})
}

// ToggleLike godoc
// @Summary Like or unlike a course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} LikeResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/like [post]
func (h *CourseHandler) ToggleLike(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	result, err := h.courseService.ToggleLike(c.Request.Context(), caller, courseID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, LikeResponse{Message: "Course " + string(result), Liked: result == service.Liked})
}
