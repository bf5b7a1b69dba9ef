package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/versity-app/volunteer-api/internal/constants"
	"github.com/versity-app/volunteer-api/internal/dto"
	"github.com/versity-app/volunteer-api/internal/mailer"
	"github.com/versity-app/volunteer-api/internal/middleware"
	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
	"github.com/versity-app/volunteer-api/internal/services"
	"github.com/versity-app/volunteer-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	jwtService  *utils.JWTService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.VolunteerProfile{},
		&models.AdminProfile{},
		&models.Organization{},
		&models.SystemLog{},
	)
	require.NoError(t, err)

	logger := zap.NewNop()
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewVolunteerProfileRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	hourRepo := repository.NewHourRepository(db)
	logRepo := repository.NewSystemLogRepository(db)

	jwtService := utils.NewJWTService("test-secret", time.Hour)
	notifier := services.NewNotificationService(mailer.NewLogMailer(logger), "http://localhost:3000", logger)
	audit := services.NewSystemLogService(logRepo, logger)

	authService := services.NewAuthService(userRepo, jwtService, notifier, audit, "test-admin-key", 3, 30*time.Minute)
	volunteerService := services.NewVolunteerService(userRepo, profileRepo, matchRepo, hourRepo)
	handler := NewAuthHandler(authService, volunteerService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		jwtService:  jwtService,
	}
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	payload := map[string]string{
		"username": "newvolunteer",
		"email":    "newvolunteer@example.com",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, payload["username"], response.Username)
	require.Equal(t, models.RoleVolunteer, response.Role)

	// The profile row starts out with the username as display name.
	var profile models.VolunteerProfile
	require.NoError(t, env.db.Where("user_id = ?", response.ID).First(&profile).Error)
	require.Equal(t, "newvolunteer", profile.Name)
}

func TestAuthHandler_Register_OrganizationAccount(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	payload := map[string]string{
		"username":          "shelter",
		"email":             "contact@shelter.org",
		"password":          "supersecret",
		"role":              "organization",
		"organization_name": "City Shelter",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.RoleOrganization, response.Role)
	require.NotNil(t, response.OrganizationID)

	var org models.Organization
	require.NoError(t, env.db.First(&org, *response.OrganizationID).Error)
	require.Equal(t, "City Shelter", org.Name)
	require.Equal(t, "contact@shelter.org", org.ContactEmail)
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "taken",
		Email:    "taken@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	payload := map[string]string{
		"username": "taken",
		"email":    "other@example.com",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_Admin(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	payload := map[string]string{
		"username":  "rootadmin",
		"email":     "rootadmin@example.com",
		"password":  "supersecret",
		"role":      "admin",
		"admin_key": "wrong-key",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	payload["admin_key"] = "test-admin-key"
	body, err = json.Marshal(payload)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.RoleAdmin, response.Role)

	var profile models.AdminProfile
	require.NoError(t, env.db.Where("user_id = ?", response.ID).First(&profile).Error)
	require.True(t, profile.CanVerifyHours)
}

func TestAuthHandler_Register_AdminLimit(t *testing.T) {
	env := setupAuthTestEnv(t)

	for i := 0; i < 3; i++ {
		_, err := env.authService.Register(services.RegisterInput{
			Username: fmt.Sprintf("admin%d", i),
			Email:    fmt.Sprintf("admin%d@example.com", i),
			Password: "supersecret",
			Role:     models.RoleAdmin,
			AdminKey: "test-admin-key",
		})
		require.NoError(t, err)
	}

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	payload := map[string]string{
		"username":  "admin4",
		"email":     "admin4@example.com",
		"password":  "supersecret",
		"role":      "admin",
		"admin_key": "test-admin-key",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)
	r.GET("/api/auth/me", middleware.RequireAuth(env.jwtService), env.handler.GetCurrentUser)

	payload := map[string]string{
		"username": "existing",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "bearer", response.TokenType)
	require.NotEmpty(t, response.AccessToken)
	require.Equal(t, "existing", response.User.Username)

	// The issued token must pass the auth middleware.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+response.AccessToken)
	w = httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var me dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, "existing", me.Username)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	payload := map[string]string{
		"username": "existing",
		"password": "not-the-password",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_RejectsBadCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.GET("/api/auth/me", middleware.RequireAuth(env.jwtService), env.handler.GetCurrentUser)

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a bearer scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage token", header: "Bearer not-a-real-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Username: "current-user",
		Email:    "current@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.Username, response.Username)
	require.NotNil(t, response.Profile)
}

func TestAuthHandler_UpdateCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Username: "profiled",
		Email:    "profiled@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	payload := map[string]string{
		"email":    "renamed@example.com",
		"bio":      "Helping out on weekends",
		"location": "Springfield",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPut, "/api/auth/me", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUserRole, user.Role)

	env.handler.UpdateCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "renamed@example.com", response.Email)
	require.NotNil(t, response.Profile)
	require.Equal(t, "Helping out on weekends", response.Profile.Bio)
	require.Equal(t, "Springfield", response.Profile.Location)
}

func TestAuthHandler_ForgotPassword_UnknownEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/forgot-password", env.handler.ForgotPassword)

	payload := map[string]string{"email": "nobody@example.com"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	// The response must not reveal whether the address exists.
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "forgetful",
		Email:    "forgetful@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	token, err := env.jwtService.GeneratePasswordResetToken("forgetful@example.com", 30*time.Minute)
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/reset-password", env.handler.ResetPassword)

	payload := map[string]string{
		"token":        token,
		"new_password": "betterpassword",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	_, err = env.authService.Login(services.LoginInput{
		Username: "forgetful",
		Password: "betterpassword",
	})
	require.NoError(t, err)

	_, err = env.authService.Login(services.LoginInput{
		Username: "forgetful",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, services.ErrInvalidCredentials)
}
