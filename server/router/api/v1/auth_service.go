package v1

import (
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/habitloop/habitloop/server/auth"
	"github.com/habitloop/habitloop/server/internal/errors"
	"github.com/habitloop/habitloop/store"
)

var usernameMatcher = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,30}[a-z0-9]$`)

// SignUpRequest is the payload for account creation.
type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token and basic account info.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      int32  `json:"userId"`
	Username    string `json:"username"`
}

// SignUp creates an account and seeds its profile and achievement set.
// POST /api/v1/auth/signup
func (s *APIV1Service) SignUp(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, errors.InvalidArgument("malformed request body"))
	}
	if !usernameMatcher.MatchString(req.Username) {
		return errorResponse(c, errors.InvalidArgument("username must be 3-32 lowercase letters, digits, - or _"))
	}
	if len(req.Password) < 8 {
		return errorResponse(c, errors.InvalidArgument("password must be at least 8 characters"))
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return errorResponse(c, err)
	}
	if existing != nil {
		return errorResponse(c, errors.InvalidArgument("username already taken"))
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errorResponse(c, err)
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Username:     req.Username,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		return errorResponse(c, err)
	}

	if err := s.ProgressionService.SeedDefaults(ctx, user.ID); err != nil {
		return errorResponse(c, err)
	}

	token, err := auth.GenerateAccessToken(user, s.Secret, time.Now())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
	})
}

// SignInRequest is the payload for authentication.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignIn verifies credentials and issues an access token.
// POST /api/v1/auth/signin
func (s *APIV1Service) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, errors.InvalidArgument("malformed request body"))
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return errorResponse(c, err)
	}
	if user == nil || user.RowStatus == store.Archived {
		return errorResponse(c, errors.Unauthorized("invalid credentials"))
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return errorResponse(c, errors.Unauthorized("invalid credentials"))
	}

	token, err := auth.GenerateAccessToken(user, s.Secret, time.Now())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
	})
}
