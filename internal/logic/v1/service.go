package v1

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/saipabi/server/internal/core/domain"
	"github.com/saipabi/server/internal/logging"
	"github.com/saipabi/server/middleware"
)

// AuthService implements authentication and profile business rules.
// It depends on the repository and cache interfaces (injected via
// constructor) and MUST NOT access the database or Redis directly.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionCache
	tokens   *TokenIssuer
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, sessions domain.SessionCache, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// Register handles user registration business logic.
func (s *AuthService) Register(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	name := strings.TrimSpace(req.Name)
	email := NormalizeEmail(req.Email)

	// Check if email already exists
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, fmt.Errorf("register %q: %w", email, ErrEmailTaken)
	}

	// Hash password with a fresh random salt per call
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Insert new user
	userID, err := s.users.Create(ctx, name, email, string(passwordHash))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	user := &domain.User{
		ID:    strconv.Itoa(userID),
		Name:  name,
		Email: email,
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	return user, nil
}

// Login handles user login business logic. The bearer token alone gates
// access to protected routes; the session record written to the cache is a
// best-effort tracking entry and never blocks a login.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	email := NormalizeEmail(req.Email)

	// Lookup user by email via repository
	row, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", email, err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", email, ErrUserNotFound)
	}

	// Verify password via the hash algorithm's own compare
	err = bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password))
	if err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
	}

	userID := strconv.Itoa(row.ID)

	// Issue signed bearer token
	token, err := s.tokens.Issue(userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	// Write session record to the cache (best-effort, don't fail login)
	sessionToken := ""
	if st, genErr := s.sessions.GenerateToken(); genErr != nil {
		logging.FromContext(ctx).Error().Err(genErr).Msg("Session token generation failed")
	} else if s.sessions.Store(ctx, st, userID) {
		sessionToken = st
	}

	result := &domain.LoginResult{
		Token:        token,
		SessionToken: sessionToken,
		User:         *toUser(row),
	}

	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return result, nil
}

// GetProfile returns the profile of an already-authenticated user.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.get_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	id, err := strconv.Atoi(userID)
	if err != nil {
		return nil, fmt.Errorf("parse user id %q: %w", userID, ErrUserNotFound)
	}

	row, err := s.users.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	if row == nil {
		// Identity resolved from a valid token but the record is gone
		return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}

	return toUser(row), nil
}

// UpdateProfile applies a partial profile change: only provided, non-null
// fields are touched.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.update_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	id, err := strconv.Atoi(userID)
	if err != nil {
		return nil, fmt.Errorf("parse user id %q: %w", userID, ErrUserNotFound)
	}

	upd := domain.ProfileUpdate{
		Age: req.Age,
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		upd.Name = &trimmed
	}
	if req.Contact != nil {
		trimmed := strings.TrimSpace(*req.Contact)
		upd.Contact = &trimmed
	}
	if req.DOB != nil && *req.DOB != "" {
		dob, parseErr := time.Parse("2006-01-02", *req.DOB)
		if parseErr != nil {
			// Binding validates the format; re-parse failures are a bug
			return nil, fmt.Errorf("parse dob %q: %w", *req.DOB, parseErr)
		}
		upd.DOB = &dob
	}

	row, err := s.users.Update(ctx, id, upd)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	if row == nil {
		return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}

	span.AddEvent("profile.updated")

	return toUser(row), nil
}

// Logout deletes the session record for the given opaque token, when one
// was tracked. The bearer token itself stays valid until natural expiry;
// revocation burden is on the client.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) {
	ctx, span := middleware.StartSpan(ctx, "auth.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if sessionToken == "" {
		return
	}
	s.sessions.Delete(ctx, sessionToken)
}

// NormalizeEmail lower-cases and trims an email address. Uniqueness is
// case-insensitive at this boundary.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUser(row *domain.UserRow) *domain.User {
	createdAt := row.CreatedAt
	u := &domain.User{
		ID:        strconv.Itoa(row.ID),
		Name:      row.Name,
		Email:     row.Email,
		Age:       row.Age,
		Contact:   row.Contact,
		CreatedAt: &createdAt,
	}
	if row.DOB != nil {
		dob := row.DOB.Format("2006-01-02")
		u.DOB = &dob
	}
	return u
}
