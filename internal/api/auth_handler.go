package api

import (
	"net/http"
	"time"

	"alcyxob/fit-platform/internal/domain"  // For domain.Role
	"alcyxob/fit-platform/internal/service" // Import service package

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=50"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     domain.Role `json:"role" binding:"omitempty,oneof=user trainer"` // defaults to user
	ProfileRequest
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	domain.Profile
	IsVerified       bool      `json:"isVerified"`
	RegistrationDate time.Time `json:"registrationDate"`
	CreatedAt        time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user or trainer
// @Description Creates a new account and returns a token for it.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse "User created successfully"
// @Failure 400 {object} ErrorResponse "Invalid input, or email/username already taken"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	// Bind JSON request body and perform validation based on `binding` tags
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	var profile domain.Profile
	req.ProfileRequest.toUpdate().ApplyTo(&profile)

	token, user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Profile:  profile,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: MapUserToResponse(user)})
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse "Login successful"
// @Failure 400 {object} ErrorResponse "Invalid input (validation error)"
// @Failure 401 {object} ErrorResponse "Unauthorized (invalid credentials)"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	// Call the AuthService to log in
	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Return the JWT token and user details
	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// Profile godoc
// @Summary Get the authenticated user's account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "User no longer exists"
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	user, err := h.authService.Profile(c.Request.Context(), caller.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
// Crucially excludes PasswordHash and converts ObjectIDs to strings.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:               user.ID.Hex(),
		Username:         user.Username,
		Email:            user.Email,
		Role:             user.Role,
		Profile:          user.Profile,
		IsVerified:       user.IsVerified,
		RegistrationDate: user.RegistrationDate,
		CreatedAt:        user.CreatedAt,
	}
}
