package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "kapital/internal/errors"
	"kapital/internal/models"
	"kapital/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn     func(username, email, password string) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id uint) (*models.User, error)
	verifyPasswordFn func(user *models.User, password string) bool
	attemptLoginFn   func(email, password string) (*models.User, error)
}

func (m *mockUserService) CreateUser(username, email, password string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(username, email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/profile", injectUserID(1), handler.GetProfile)
	return r
}

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(username, email, _ string) (*models.User, error) {
				return &models.User{
					Base:     models.Base{ID: 1},
					Username: username,
					Email:    email,
				}, nil
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"investor","email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == nil || result["token"] == "" {
			t.Error("expected non-empty token")
		}
		user := result["user"].(map[string]interface{})
		if user["email"] != "test@example.com" {
			t.Errorf("expected email test@example.com, got %v", user["email"])
		}
		if user["username"] != "investor" {
			t.Errorf("expected username investor, got %v", user["username"])
		}
	})

	t.Run("returns 400 on missing email", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"username":"investor","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"investor","email":"test@example.com","password":"short"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on short username", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"ab","email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"investor","email":"dup@example.com","password":"password123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(email, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: 1}, Username: "investor", Email: email}, nil
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == nil || result["token"] == "" {
			t.Error("expected non-empty token")
		}
	})

	t.Run("returns 401 on invalid credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on missing fields", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	t.Run("returns 200 with user profile", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id uint) (*models.User, error) {
				return &models.User{
					Base:     models.Base{ID: id},
					Username: "investor",
					Email:    "test@example.com",
				}, nil
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		user := result["user"].(map[string]interface{})
		if user["email"] != "test@example.com" {
			t.Errorf("expected test@example.com, got %v", user["email"])
		}
		if user["username"] != "investor" {
			t.Errorf("expected investor, got %v", user["username"])
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{})
		r := gin.New()
		r.GET("/profile", handler.GetProfile)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when user not found", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(_ uint) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
