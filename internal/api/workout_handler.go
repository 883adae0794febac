package api

import (
	"net/http"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type ExerciseRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Sets     int     `json:"sets" binding:"required,gte=1"`
	Reps     int     `json:"reps" binding:"required,gte=1"`
	Weight   float64 `json:"weight" binding:"gte=0"`
	Duration int     `json:"duration" binding:"gte=0"`
	Notes    string  `json:"notes" binding:"max=500"`
}

// WorkoutRequest is shared by create and update. Name, type and duration
// are required on create only; the service enforces that.
type WorkoutRequest struct {
	Name      *string             `json:"name" binding:"omitempty,min=1,max=100"`
	Type      *domain.WorkoutType `json:"type" binding:"omitempty,oneof=strength cardio flexibility hiit other"`
	Exercises []ExerciseRequest   `json:"exercises" binding:"omitempty,dive"`
	Duration  *int                `json:"duration" binding:"omitempty,gte=1"`
	Date      *time.Time          `json:"date"`
	Notes     *string             `json:"notes" binding:"omitempty,max=1000"`
	Completed *bool               `json:"completed"`
	Rating    *int                `json:"rating" binding:"omitempty,gte=1,lte=5"`
}

func (r WorkoutRequest) toInput() service.WorkoutInput {
	in := service.WorkoutInput{
		Name:      trimmed(r.Name),
		Type:      r.Type,
		Duration:  r.Duration,
		Date:      r.Date,
		Notes:     r.Notes,
		Completed: r.Completed,
		Rating:    r.Rating,
	}
	if r.Exercises != nil {
		in.Exercises = make([]domain.Exercise, 0, len(r.Exercises))
		for _, e := range r.Exercises {
			in.Exercises = append(in.Exercises, domain.Exercise(e))
		}
	}
	return in
}

// CreateWorkout godoc
// @Summary Log a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} ErrorResponse "Validation error"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), caller, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// ListWorkouts godoc
// @Summary List the caller's workouts, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Workout
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), caller)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(workouts))
}

// GetWorkout godoc
// @Summary Get one of the caller's workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} ErrorResponse "Workout not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), caller, workoutID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// UpdateWorkout godoc
// @Summary Update one of the caller's workouts
// @Description Only the fields present in the body change.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param workout body WorkoutRequest true "Changed fields"
// @Success 200 {object} domain.Workout
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 404 {object} ErrorResponse "Workout not found"
// @Router /workouts/{id} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), caller, workoutID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout godoc
// @Summary Delete one of the caller's workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Workout not found"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), caller, workoutID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Workout deleted"})
}
