package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/models"
)

type stubAuthenticator struct {
	tokens map[string]models.User
	err    error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token, _, _ string) (models.User, models.Session, error) {
	if s.err != nil {
		return models.User{}, models.Session{}, s.err
	}
	user, ok := s.tokens[token]
	if !ok {
		return models.User{}, models.Session{}, apperrors.Unauthenticated("Authentication required")
	}
	return user, models.Session{ID: "sess-" + token, UserID: user.ID}, nil
}

func newRouter(auth Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery(zerolog.Nop()), Logger(zerolog.Nop()))
	handlers := append([]gin.HandlerFunc{Auth("alumni.sid", auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := CurrentUser(c)
		session, _ := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"user": user.ID, "session": session.ID})
	})
	r.GET("/me", handlers...)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestAuthAcceptsCookieOrBearer(t *testing.T) {
	auth := stubAuthenticator{tokens: map[string]models.User{"good": {ID: "u1", Role: models.UserRoleStudent}}}
	r := newRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "alumni.sid", Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u1","session":"sess-good"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejects(t *testing.T) {
	r := newRouter(stubAuthenticator{tokens: map[string]models.User{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Authentication required"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "alumni.sid", Value: "stale"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	broken := newRouter(stubAuthenticator{err: errors.New("db down")})
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "alumni.sid", Value: "x"})
	w = httptest.NewRecorder()
	broken.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireRoles(t *testing.T) {
	auth := stubAuthenticator{tokens: map[string]models.User{
		"staff":   {ID: "s1", Role: models.UserRoleStaff},
		"student": {ID: "u1", Role: models.UserRoleStudent},
	}}
	r := newRouter(auth, RequireRoles(models.UserRoleStaff, models.UserRoleAlumni))

	for token, want := range map[string]int{"staff": http.StatusOK, "student": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "alumni.sid", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
	}
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := newRouter(stubAuthenticator{})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), requestIDHeader)
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSSimpleRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, requestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Empty(t, w.Header().Get("Vary"))
}

func TestAllowOrigin(t *testing.T) {
	allowAll := AllowOrigin(nil)
	assert.True(t, allowAll("https://anything.example"))

	listed := AllowOrigin([]string{" https://a.example ", "https://b.example/"})
	assert.True(t, listed("https://a.example"))
	assert.True(t, listed("https://b.example"))
	assert.False(t, listed("https://c.example"))
}

func TestWriteErrorMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{apperrors.Validation("bad input"), http.StatusBadRequest, `{"message":"bad input"}`},
		{apperrors.Conflict("taken"), http.StatusBadRequest, `{"message":"taken"}`},
		{apperrors.Unauthenticated("who"), http.StatusUnauthorized, `{"message":"who"}`},
		{apperrors.Forbidden("no"), http.StatusForbidden, `{"message":"no"}`},
		{apperrors.NotFound("gone"), http.StatusNotFound, `{"message":"gone"}`},
		{errors.New("pool closed"), http.StatusInternalServerError, `{"message":"Internal server error"}`},
		{apperrors.Wrap(apperrors.KindInternal, errors.New("x"), "leaky detail"), http.StatusInternalServerError, `{"message":"Internal server error"}`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		WriteError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.JSONEq(t, tc.body, w.Body.String())
		assert.True(t, c.IsAborted())
		assert.Equal(t, tc.status == http.StatusInternalServerError, len(c.Errors) == 1)
	}
}

func TestRecoveryLogsPanicWithRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), Recovery(zerolog.New(&buf)))
	r.GET("/boom/:id", func(c *gin.Context) { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/boom/7", nil)
	req.Header.Set(requestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kaboom", entry["panic"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "/boom/:id", entry["route"])
}
