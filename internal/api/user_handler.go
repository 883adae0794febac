package api

import (
	"net/http"
	"strings"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ProfileRequest holds the optional profile fields accepted at registration
// and on profile updates. Only the fields present in the body change.
type ProfileRequest struct {
	FirstName      *string              `json:"firstName" binding:"omitempty,min=2,max=50"`
	LastName       *string              `json:"lastName" binding:"omitempty,min=2,max=50"`
	Age            *int                 `json:"age" binding:"omitempty,gte=16,lte=100"`
	Gender         *string              `json:"gender" binding:"omitempty,oneof=male female other"`
	Height         *float64             `json:"height" binding:"omitempty,gte=100,lte=250"`
	Weight         *float64             `json:"weight" binding:"omitempty,gte=30,lte=300"`
	Goal           *string              `json:"goal" binding:"omitempty,oneof=weight_loss muscle_gain maintenance general_fitness"`
	ProfileImage   *string              `json:"profileImage" binding:"omitempty,url"`
	Bio            *string              `json:"bio" binding:"omitempty,max=500"`
	Specialization []string             `json:"specialization" binding:"omitempty,max=10,dive,required,max=50"`
	Experience     *int                 `json:"experience" binding:"omitempty,gte=0,lte=70"`
	Certificates   []domain.Certificate `json:"certificates"`
	SocialLinks    *domain.SocialLinks  `json:"socialLinks"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (r ProfileRequest) toUpdate() service.ProfileUpdate {
	return service.ProfileUpdate{
		FirstName:      trimmed(r.FirstName),
		LastName:       trimmed(r.LastName),
		Age:            r.Age,
		Gender:         r.Gender,
		Height:         r.Height,
		Weight:         r.Weight,
		Goal:           r.Goal,
		ProfileImage:   r.ProfileImage,
		Bio:            trimmed(r.Bio),
		Specialization: r.Specialization,
		Experience:     r.Experience,
		Certificates:   r.Certificates,
		SocialLinks:    r.SocialLinks,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Description Only the fields present in the body are changed. Trainer-only fields are rejected for users.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Profile fields"
// @Success 200 {object} UserResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), caller, req.toUpdate())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// ChangePassword godoc
// @Summary Change the authenticated user's password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param passwords body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Current password is incorrect"
// @Router /users/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Password updated"})
}

// GetStats godoc
// @Summary Summary of the authenticated user's recent workouts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserStats
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /users/stats [get]
func (h *UserHandler) GetStats(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	stats, err := h.userService.UserStats(c.Request.Context(), caller)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
