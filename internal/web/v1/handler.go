package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/saipabi/server/internal/core/domain"
	"github.com/saipabi/server/internal/logging"
	logicv1 "github.com/saipabi/server/internal/logic/v1"
	"github.com/saipabi/server/middleware"
)

// SessionTokenHeader optionally carries the opaque cache token on logout,
// for clients that track their session record.
const SessionTokenHeader = "X-Session-Token"

// Handler groups HTTP handlers for the auth API.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth *logicv1.AuthService
}

// NewHandler creates a new Handler with the given AuthService.
func NewHandler(auth *logicv1.AuthService) *Handler {
	return &Handler{auth: auth}
}

// Signup handles HTTP request for user registration.
// POST /api/auth/signup
func (h *Handler) Signup(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid signup request")
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  fieldErrors(err),
		})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  []FieldError{{Field: "name", Message: "Name is required"}},
		})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	user, err := h.auth.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Registration failed")

		switch {
		case errors.Is(err, logicv1.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Registration failed"})
		}
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("Registration successful")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// Login handles HTTP request for user login.
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid login request")
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  fieldErrors(err),
		})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	result, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Login failed")

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound), errors.Is(err, logicv1.ErrInvalidCredentials):
			// One generic message for both unknown email and wrong
			// password, so responses don't reveal account existence.
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		case errors.Is(err, logicv1.ErrMissingSecret):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server configuration error"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
		}
		return
	}

	logger.Info().Str("user_id", result.User.ID).Msg("Login successful")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// GetProfile returns the authenticated caller's profile.
// GET /api/profile
func (h *Handler) GetProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	user, err := h.auth.GetProfile(ctx, middleware.UserID(c))
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Get profile failed")

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateProfile applies a partial update to the caller's profile.
// PUT /api/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid profile update request")
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  fieldErrors(err),
		})
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  []FieldError{{Field: "name", Message: "Name cannot be empty"}},
		})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	user, err := h.auth.UpdateProfile(ctx, middleware.UserID(c), req)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Update profile failed")

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		}
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("Profile updated")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// Logout acknowledges logout. The bearer token stays valid until natural
// expiry (the client discards it); when the request carries the opaque
// session-token header, the matching cache record is deleted best-effort.
// POST /api/logout
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	h.auth.Logout(ctx, c.GetHeader(SessionTokenHeader))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Health is the liveness probe.
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Server is running",
	})
}
