package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saipabi/server/internal/core/domain"
	"github.com/saipabi/server/internal/core/repository"
	logicv1 "github.com/saipabi/server/internal/logic/v1"
	"github.com/saipabi/server/middleware"
)

// fakeUsers is an in-memory domain.UserRepository for handler tests.
type fakeUsers struct {
	nextID int
	rows   map[int]*domain.UserRow
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{nextID: 1, rows: map[int]*domain.UserRow{}}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.UserRow, error) {
	for _, u := range f.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*domain.UserRow, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := f.GetByEmail(ctx, email)
	return u != nil, err
}

func (f *fakeUsers) Create(_ context.Context, name, email, passwordHash string) (int, error) {
	id := f.nextID
	f.nextID++
	now := time.Now()
	f.rows[id] = &domain.UserRow{
		ID: id, Name: name, Email: email, PasswordHash: passwordHash,
		CreatedAt: now, UpdatedAt: now,
	}
	return id, nil
}

func (f *fakeUsers) Update(_ context.Context, id int, upd domain.ProfileUpdate) (*domain.UserRow, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Age != nil {
		u.Age = upd.Age
	}
	if upd.DOB != nil {
		u.DOB = upd.DOB
	}
	if upd.Contact != nil {
		u.Contact = upd.Contact
	}
	cp := *u
	return &cp, nil
}

type testServer struct {
	router *gin.Engine
	users  *fakeUsers
	mr     *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	users := newFakeUsers()
	sessions := repository.NewSessionCache(client, time.Hour)
	tokens, err := logicv1.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	handler := NewHandler(logicv1.NewAuthService(users, sessions, tokens))

	r := gin.New()
	api := r.Group("/api")
	api.GET("/health", handler.Health)
	api.POST("/auth/signup", handler.Signup)
	api.POST("/auth/login", handler.Login)
	api.POST("/logout", handler.Logout)
	profile := api.Group("/profile", middleware.RequireAuth(tokens))
	profile.GET("", handler.GetProfile)
	profile.PUT("", handler.UpdateProfile)

	return &testServer{router: r, users: users, mr: mr}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (s *testServer) signup(t *testing.T, name, email, password string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": name, "email": email, "password": password,
	})
}

func (s *testServer) login(t *testing.T, email, password string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": password,
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
}

func TestSignupLoginProfileScenario(t *testing.T) {
	s := newTestServer(t)

	// Signup
	w, body := s.signup(t, "A", "a@x.com", "secret1")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "1", user["id"])
	assert.Equal(t, "A", user["name"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password")

	// Login
	w, body = s.login(t, "a@x.com", "secret1")
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.NotContains(t, w.Body.String(), "password")

	// Profile with the issued token
	w, body = s.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user = body["user"].(map[string]any)
	assert.Equal(t, "A", user["name"])
	assert.Equal(t, "a@x.com", user["email"])

	// Wrong password gets the generic message
	w, body = s.login(t, "a@x.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestSignup_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.signup(t, "A", "a@x.com", "secret1")
	require.Equal(t, http.StatusCreated, w.Code)

	// Case-insensitive duplicate
	w, body := s.signup(t, "B", "A@X.COM", "secret2")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already registered", body["message"])
}

func TestSignup_Validation(t *testing.T) {
	s := newTestServer(t)

	w, body := s.signup(t, "A", "not-an-email", "short")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", body["message"])

	fields := map[string]string{}
	for _, e := range body["errors"].([]any) {
		fe := e.(map[string]any)
		fields[fe["field"].(string)] = fe["message"].(string)
	}
	assert.Equal(t, "Please enter a valid email", fields["email"])
	assert.Equal(t, "Password must be at least 6 characters", fields["password"])
}

func TestSignup_BlankName(t *testing.T) {
	s := newTestServer(t)

	w, body := s.signup(t, "   ", "a@x.com", "secret1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", body["message"])
}

func TestLogin_UnknownEmailGenericMessage(t *testing.T) {
	s := newTestServer(t)

	w, body := s.login(t, "nobody@x.com", "whatever")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestProfile_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", body["message"])

	w, body = s.do(t, http.MethodGet, "/api/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", body["message"])
}

func TestProfile_UserDeleted(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.signup(t, "A", "a@x.com", "secret1")
	require.Equal(t, http.StatusCreated, w.Code)
	w, body := s.login(t, "a@x.com", "secret1")
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)

	delete(s.users.rows, 1)

	w, body = s.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["message"])
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.signup(t, "A", "a@x.com", "secret1")
	require.Equal(t, http.StatusCreated, w.Code)
	w, body := s.login(t, "a@x.com", "secret1")
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)

	w, body = s.do(t, http.MethodPut, "/api/profile", token, gin.H{
		"dob": "1995-06-15", "contact": "12345",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Only age changes; name/email/dob/contact stay as they were
	w, body = s.do(t, http.MethodPut, "/api/profile", token, gin.H{"age": 30})
	require.Equal(t, http.StatusOK, w.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "A", user["name"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, float64(30), user["age"])
	assert.Equal(t, "1995-06-15", user["dob"])
	assert.Equal(t, "12345", user["contact"])
}

func TestUpdateProfile_Validation(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.signup(t, "A", "a@x.com", "secret1")
	require.Equal(t, http.StatusCreated, w.Code)
	w, body := s.login(t, "a@x.com", "secret1")
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)

	w, body = s.do(t, http.MethodPut, "/api/profile", token, gin.H{"age": 200})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", body["message"])

	w, body = s.do(t, http.MethodPut, "/api/profile", token, gin.H{"dob": "15/06/1995"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodPut, "/api/profile", token, gin.H{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)

	// Plain logout is a success acknowledgment
	w, body := s.do(t, http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", body["message"])

	// With a tracked session token the cache record is removed
	require.NoError(t, s.mr.Set("session:tok", `{"userId":"1","createdAt":1}`))
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set(SessionTokenHeader, "tok")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, s.mr.Exists("session:tok"))
}
