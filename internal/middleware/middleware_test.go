package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/ratelimit"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// =====================
// レスポンス確認用
// =====================

type mwErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type mwOKResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// =====================
// UserRepository モック
// =====================

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

// =====================
// helper
// =====================

func mustIssue(t *testing.T, id auth.Identity) string {
	t.Helper()
	tok, _, err := auth.NewIssuer(testSecret, time.Hour).Issue(id, time.Now())
	require.NoError(t, err)
	return tok
}

func identityEcho(mws ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, ok := middleware.IdentityFrom(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, mwOKResponse{
			UserID: id.UserID,
			Role:   string(id.Role),
			Name:   id.Name,
			Email:  id.Email,
		})
	}, mws...)
	return e
}

func doGet(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var body mwErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_ValidToken(t *testing.T) {
	e := identityEcho(middleware.AuthJWT(testSecret))
	tok := mustIssue(t, auth.Identity{UserID: 7, Role: model.RoleUser, Name: "Jane", Email: "jane@example.com"})

	rec := doGet(e, "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, mwOKResponse{UserID: 7, Role: "USER", Name: "Jane", Email: "jane@example.com"}, body)
}

func TestAuthJWT_Rejects(t *testing.T) {
	e := identityEcho(middleware.AuthJWT(testSecret))

	other, _, err := auth.NewIssuer("other-secret", time.Hour).Issue(auth.Identity{UserID: 7, Role: model.RoleUser}, time.Now())
	require.NoError(t, err)
	expired, _, err := auth.NewIssuer(testSecret, time.Minute).Issue(auth.Identity{UserID: 7, Role: model.RoleUser}, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7", "tv": 0, "exp": time.Now().Add(time.Hour).Unix()})
	noRoleTok, err := noRole.SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "7", "role": "USER", "tv": 0})
	hs512Tok, err := hs512.SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"empty token":    "Bearer ",
		"garbage":        "Bearer not-a-jwt",
		"wrong secret":   "Bearer " + other,
		"expired":        "Bearer " + expired,
		"no role":        "Bearer " + noRoleTok,
		"wrong alg":      "Bearer " + hs512Tok,
	}

	for name, authz := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doGet(e, authz)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, mwErrorResponse{Success: false, Error: "unauthorized"}, decodeError(t, rec))
		})
	}
}

// =====================
// TokenVersionGuard
// =====================

func TestTokenVersionGuard(t *testing.T) {
	tok := mustIssue(t, auth.Identity{UserID: 7, Role: model.RoleUser, TokenVersion: 2})

	t.Run("matching version", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, TokenVersion: 2, IsActive: true}, nil)

		rec := doGet(identityEcho(middleware.AuthJWT(testSecret), middleware.TokenVersionGuard(users)), "Bearer "+tok)
		assert.Equal(t, http.StatusOK, rec.Code)
		users.AssertExpectations(t)
	})

	t.Run("bumped version", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, TokenVersion: 3, IsActive: true}, nil)

		rec := doGet(identityEcho(middleware.AuthJWT(testSecret), middleware.TokenVersionGuard(users)), "Bearer "+tok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, TokenVersion: 2, IsActive: false}, nil)

		rec := doGet(identityEcho(middleware.AuthJWT(testSecret), middleware.TokenVersionGuard(users)), "Bearer "+tok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, int64(7)).Return(nil, nil)

		rec := doGet(identityEcho(middleware.AuthJWT(testSecret), middleware.TokenVersionGuard(users)), "Bearer "+tok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// =====================
// AdminRoleGuard
// =====================

func TestAdminRoleGuard(t *testing.T) {
	e := identityEcho(middleware.AuthJWT(testSecret), middleware.AdminRoleGuard())

	userTok := mustIssue(t, auth.Identity{UserID: 7, Role: model.RoleUser})
	rec := doGet(e, "Bearer "+userTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin only", decodeError(t, rec).Error)

	adminTok := mustIssue(t, auth.Identity{UserID: 1, Role: model.RoleAdmin})
	rec = doGet(e, "Bearer "+adminTok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoleGuard_WithoutIdentity(t *testing.T) {
	//AuthJWTを通っていなければroleだけ入っていても401
	e := identityEcho(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserRoleKey, string(model.RoleAdmin))
			return next(c)
		}
	}, middleware.AdminRoleGuard())

	rec := doGet(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Error)
}

// =====================
// OrderCreateRateLimit
// =====================

func TestOrderCreateRateLimit(t *testing.T) {
	limiter, err := ratelimit.New(ratelimit.NewMemoryStore(), 3, time.Minute)
	require.NoError(t, err)

	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, middleware.AuthJWT(testSecret), middleware.OrderCreateRateLimit(limiter))

	tok := mustIssue(t, auth.Identity{UserID: 7, Role: model.RoleUser})
	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, post("10.0.0.1").Code)
	}

	rec := post("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too many requests", decodeError(t, rec).Error)
	assert.Equal(t, "0", rec.Header().Get(middleware.HeaderRateLimitRemaining))

	reset, err := strconv.ParseInt(rec.Header().Get(middleware.HeaderRateLimitReset), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, reset, time.Now().Unix())
	assert.LessOrEqual(t, reset, time.Now().Add(time.Minute).Unix()+1)

	//同じユーザーでも別IPなら別枠
	assert.Equal(t, http.StatusCreated, post("10.0.0.2").Code)
}

type downStore struct{}

func (downStore) Hit(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, assert.AnError
}

func TestOrderCreateRateLimit_FailsOpen(t *testing.T) {
	limiter, err := ratelimit.New(downStore{}, 1, time.Minute)
	require.NoError(t, err)

	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, middleware.AuthJWT(testSecret), middleware.OrderCreateRateLimit(limiter))

	tok := mustIssue(t, auth.Identity{UserID: 7, Role: model.RoleUser})
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
}

// =====================
// GlobalRateLimit
// =====================

func TestGlobalRateLimit(t *testing.T) {
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, middleware.GlobalRateLimit(1))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	//burst=2 なので3回目以降は429
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}
