package service

import (
	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository" // Import repository package
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4" // Import JWT library
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt" // Import bcrypt
)

const tokenIssuer = "fit-platform"

// RegisterInput is everything accepted at sign-up.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role // empty means domain.RoleUser
	Profile  domain.Profile
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (token string, user *domain.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	Profile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	IssueToken(user *domain.User) (string, error)
	ParseToken(tokenString string) (domain.Identity, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	log           *slog.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, log *slog.Logger) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 30 * 24 * time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		log:           log,
	}
}

// Register handles new account registration and signs the caller in.
func (s *authService) Register(ctx context.Context, input RegisterInput) (string, *domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = domain.NormalizeEmail(input.Email)

	// 1. Basic input validation; field formats are checked at the boundary
	if len(input.Username) < 3 {
		return "", nil, Validationf("username must be at least 3 characters")
	}
	if input.Email == "" {
		return "", nil, Validationf("email is required")
	}
	if len(input.Password) < 6 {
		return "", nil, Validationf("password must be at least 6 characters")
	}
	role, ok := domain.ParseRole(string(input.Role))
	if !ok {
		return "", nil, Validationf("role must be user or trainer")
	}
	if role != domain.RoleTrainer && input.Profile.HasTrainerAttributes() {
		return "", nil, ErrTrainerOnlyFields
	}

	// 2. Check if user already exists
	for _, lookup := range []func() (*domain.User, error){
		func() (*domain.User, error) { return s.userRepo.GetByEmail(ctx, input.Email) },
		func() (*domain.User, error) { return s.userRepo.GetByUsername(ctx, input.Username) },
	} {
		_, err := lookup()
		if err == nil {
			return "", nil, ErrUserAlreadyExists
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return "", nil, internalError("failed to check existing users", err)
		}
	}

	// 3. Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, internalError("failed to hash password", err)
	}

	// 4. Create the user domain object
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Profile:      input.Profile,
	}

	// 5. Save the user; unique indexes close the race with a concurrent sign-up
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, ErrUserAlreadyExists
		}
		return "", nil, internalError("failed to create user", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("user registered", slog.String("user_id", user.ID.Hex()), slog.String("role", string(user.Role)))
	user.PasswordHash = ""
	return token, user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		return "", nil, Validationf("email and password are required")
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed // User not found maps to auth failure
		}
		return "", nil, internalError("failed to load user", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}

	// Clear password hash before returning user object
	user.PasswordHash = ""
	return token, user, nil
}

// Profile returns the caller's account without the password hash.
func (s *authService) Profile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("failed to load user", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`  // User ID
	Role   domain.Role `json:"role"` // User Role
	jwt.RegisteredClaims
}

// IssueToken creates a new JWT token for the given user.
func (s *authService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: user.ID.Hex(), // Convert ObjectID to hex string
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", internalError("failed to generate authentication token", err)
	}
	return signedToken, nil
}

// ParseToken validates a bearer token and resolves the caller's identity.
func (s *authService) ParseToken(tokenString string) (domain.Identity, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, &Error{Kind: KindUnauthenticated, Message: "token has expired", Err: err}
		}
		return domain.Identity{}, &Error{Kind: KindUnauthenticated, Message: ErrInvalidToken.Message, Err: err}
	}
	if !token.Valid || claims.ExpiresAt == nil {
		return domain.Identity{}, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil || !claims.Role.Valid() {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.Identity{UserID: userID, Role: claims.Role}, nil
}
