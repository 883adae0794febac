package api

import (
	"net/http"

	"alcyxob/fit-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetTrainerStats godoc
// @Summary Aggregated statistics over the trainer's courses
// @Description General totals, the last six calendar months and the top five courses by enrollments.
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TrainerStats
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a trainer"
// @Router /stats/trainer [get]
func (h *StatsHandler) GetTrainerStats(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	stats, err := h.statsService.TrainerStats(c.Request.Context(), caller)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetCourseStats godoc
// @Summary Statistics for one of the trainer's courses
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} service.CourseStats
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /stats/courses/{courseId} [get]
func (h *StatsHandler) GetCourseStats(c *gin.Context) {
	courseID, ok := pathObjectID(c, "courseId")
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	stats, err := h.statsService.CourseStats(c.Request.Context(), caller, courseID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
