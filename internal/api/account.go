package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salem/coop-finder/internal/auth"
)

// handleAccount is the combined signup/login endpoint. The form_type field
// picks which half of the payload is read.
func (s *Server) handleAccount(c echo.Context) error {
	var req auth.AccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	switch req.FormType {
	case auth.FormTypeSignup:
		return s.handleSignup(c, req.SignupRequest)
	case auth.FormTypeLogin:
		return s.handleLogin(c, req.LoginRequest)
	default:
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"errors": map[string]string{"form_type": `Must be "signup" or "login".`},
		})
	}
}

func (s *Server) handleSignup(c echo.Context, req auth.SignupRequest) error {
	resp, err := s.Auth.Signup(c.Request().Context(), req)
	if err != nil {
		var ve *auth.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":  "Validation failed",
				"errors": ve.Fields,
			})
		}
		if errors.Is(err, auth.ErrUserExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		c.Logger().Errorf("Signup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context, req auth.LoginRequest) error {
	resp, err := s.Auth.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCreds) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		c.Logger().Errorf("Login failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, resp)
}

// handleLogout acknowledges the client discarding its token. Tokens are
// stateless, so there is nothing to revoke server-side.
func (s *Server) handleLogout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleMe(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	user, err := s.Auth.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrNoProfile) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Account not found"})
		}
		c.Logger().Errorf("Failed to load account: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	// Admin accounts have no student profile; the field is simply omitted.
	student, err := s.Auth.StudentByUserID(ctx, userID)
	if err != nil && !errors.Is(err, auth.ErrNoProfile) {
		c.Logger().Errorf("Failed to load profile: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	resp := map[string]interface{}{"user": user}
	if student != nil {
		resp["student"] = student
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleUpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req auth.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	student, err := s.Auth.UpdateProfile(ctx, userID, req)
	if err != nil {
		var ve *auth.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":  "Validation failed",
				"errors": ve.Fields,
			})
		}
		if errors.Is(err, auth.ErrNoProfile) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "No student profile"})
		}
		c.Logger().Errorf("Failed to update profile: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"student": student})
}
