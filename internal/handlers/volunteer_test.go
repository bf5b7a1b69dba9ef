package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/versity-app/volunteer-api/internal/constants"
	"github.com/versity-app/volunteer-api/internal/dto"
	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
	"github.com/versity-app/volunteer-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type volunteerTestEnv struct {
	db      *gorm.DB
	handler *VolunteerHandler
}

func setupVolunteerTestEnv(t *testing.T) volunteerTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.VolunteerProfile{},
		&models.Organization{},
		&models.Opportunity{},
		&models.Match{},
		&models.VolunteerHour{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewVolunteerProfileRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	hourRepo := repository.NewHourRepository(db)

	volunteerService := services.NewVolunteerService(userRepo, profileRepo, matchRepo, hourRepo)
	handler := NewVolunteerHandler(volunteerService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return volunteerTestEnv{
		db:      db,
		handler: handler,
	}
}

func volTestContext(method, url string, body []byte, userID uint64, role models.Role, orgID *uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(constants.ContextKeyUserRole, role)
	if orgID != nil {
		c.Set(constants.ContextKeyOrganizationID, *orgID)
	}

	return c, w
}

func createTestVolunteerUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		Role:         models.RoleVolunteer,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.VolunteerProfile{UserID: user.ID, Name: username}).Error)
	return user
}

func TestVolunteerHandler_GetProfile(t *testing.T) {
	env := setupVolunteerTestEnv(t)

	vol := createTestVolunteerUser(t, env.db, "helper")

	c, w := volTestContext(http.MethodGet, "/api/volunteers/1", nil, vol.ID, models.RoleVolunteer, nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(vol.ID, 10)}}

	env.handler.GetProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.VolunteerProfileDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "helper", response.Name)
	require.Equal(t, vol.ID, response.UserID)
}

func TestVolunteerHandler_GetProfile_OtherVolunteerForbidden(t *testing.T) {
	env := setupVolunteerTestEnv(t)

	vol := createTestVolunteerUser(t, env.db, "helper")
	peer := createTestVolunteerUser(t, env.db, "peer")

	c, w := volTestContext(http.MethodGet, "/api/volunteers/1", nil, peer.ID, models.RoleVolunteer, nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(vol.ID, 10)}}

	env.handler.GetProfile(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestVolunteerHandler_GetProfile_AdminAccess(t *testing.T) {
	env := setupVolunteerTestEnv(t)

	vol := createTestVolunteerUser(t, env.db, "helper")

	c, w := volTestContext(http.MethodGet, "/api/volunteers/1", nil, 99, models.RoleAdmin, nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(vol.ID, 10)}}

	env.handler.GetProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.VolunteerProfileDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "helper", response.Name)
}

func TestVolunteerHandler_GetProfile_NotFound(t *testing.T) {
	env := setupVolunteerTestEnv(t)

	c, w := volTestContext(http.MethodGet, "/api/volunteers/999", nil, 99, models.RoleAdmin, nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	env.handler.GetProfile(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestVolunteerHandler_UpdateProfile(t *testing.T) {
	env := setupVolunteerTestEnv(t)

	vol := createTestVolunteerUser(t, env.db, "helper")

	payload := map[string]string{
		"skills":       "first aid, driving",
		"availability": "weekends",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := volTestContext(http.MethodPut, "/api/volunteers/1", body, vol.ID, models.RoleVolunteer, nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(vol.ID, 10)}}

	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.VolunteerProfileDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "first aid, driving", response.Skills)
	require.Equal(t, "weekends", response.Availability)

	var stored models.VolunteerProfile
	require.NoError(t, env.db.Where("user_id = ?", vol.ID).First(&stored).Error)
	require.Equal(t, "first aid, driving", stored.Skills)
	require.Equal(t, "helper", stored.Name)
}

func TestVolunteerHandler_GetHours_RoleScoping(t *testing.T) {
	env := setupVolunteerTestEnv(t)

	vol := createTestVolunteerUser(t, env.db, "helper")

	orgA := &models.Organization{Name: "Org A", ContactEmail: "a@example.org"}
	require.NoError(t, env.db.Create(orgA).Error)
	orgB := &models.Organization{Name: "Org B", ContactEmail: "b@example.org"}
	require.NoError(t, env.db.Create(orgB).Error)

	oppA := &models.Opportunity{Title: "Shelter Shift", OrganizationID: orgA.ID}
	require.NoError(t, env.db.Create(oppA).Error)
	oppB := &models.Opportunity{Title: "Pantry Shift", OrganizationID: orgB.ID}
	require.NoError(t, env.db.Create(oppB).Error)

	require.NoError(t, env.db.Create(&models.VolunteerHour{
		VolunteerID:   vol.ID,
		OpportunityID: oppA.ID,
		MatchID:       1,
		Hours:         3,
		Date:          time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Status:        models.HourStatusApproved,
	}).Error)
	require.NoError(t, env.db.Create(&models.VolunteerHour{
		VolunteerID:   vol.ID,
		OpportunityID: oppB.ID,
		MatchID:       2,
		Hours:         2,
		Date:          time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		Status:        models.HourStatusSubmitted,
	}).Error)

	idParam := gin.Params{{Key: "id", Value: strconv.FormatUint(vol.ID, 10)}}

	// The volunteer sees every entry, newest date first.
	c, w := volTestContext(http.MethodGet, "/api/volunteers/1/hours", nil, vol.ID, models.RoleVolunteer, nil)
	c.Params = idParam

	env.handler.GetHours(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.HourListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Hours, 2)
	require.Equal(t, oppB.ID, response.Hours[0].OpportunityID)

	// An organization only sees the hours logged against its opportunities.
	c, w = volTestContext(http.MethodGet, "/api/volunteers/1/hours", nil, 50, models.RoleOrganization, &orgA.ID)
	c.Params = idParam

	env.handler.GetHours(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Hours, 1)
	require.Equal(t, oppA.ID, response.Hours[0].OpportunityID)

	// Another volunteer gets nothing at all.
	c, w = volTestContext(http.MethodGet, "/api/volunteers/1/hours", nil, vol.ID+1, models.RoleVolunteer, nil)
	c.Params = idParam

	env.handler.GetHours(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestVolunteerHandler_GetStats(t *testing.T) {
	env := setupVolunteerTestEnv(t)

	vol := createTestVolunteerUser(t, env.db, "helper")

	org := &models.Organization{Name: "Org A", ContactEmail: "a@example.org"}
	require.NoError(t, env.db.Create(org).Error)
	oppA := &models.Opportunity{Title: "Shelter Shift", OrganizationID: org.ID}
	require.NoError(t, env.db.Create(oppA).Error)
	oppB := &models.Opportunity{Title: "Pantry Shift", OrganizationID: org.ID}
	require.NoError(t, env.db.Create(oppB).Error)

	require.NoError(t, env.db.Create(&models.Match{
		VolunteerID:   vol.ID,
		OpportunityID: oppA.ID,
		Status:        models.MatchStatusAccepted,
	}).Error)
	require.NoError(t, env.db.Create(&models.Match{
		VolunteerID:   vol.ID,
		OpportunityID: oppB.ID,
		Status:        models.MatchStatusPending,
	}).Error)

	require.NoError(t, env.db.Create(&models.VolunteerHour{
		VolunteerID:   vol.ID,
		OpportunityID: oppA.ID,
		MatchID:       1,
		Hours:         4,
		Date:          time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Status:        models.HourStatusApproved,
	}).Error)
	require.NoError(t, env.db.Create(&models.VolunteerHour{
		VolunteerID:   vol.ID,
		OpportunityID: oppA.ID,
		MatchID:       1,
		Hours:         2,
		Date:          time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		Status:        models.HourStatusSubmitted,
	}).Error)

	c, w := volTestContext(http.MethodGet, "/api/volunteers/1/stats", nil, vol.ID, models.RoleVolunteer, nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(vol.ID, 10)}}

	env.handler.GetStats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stats services.VolunteerStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))

	// Only approved hours count toward the total.
	require.Equal(t, 4.0, stats.TotalHours)
	require.Equal(t, int64(2), stats.TotalApplications)
	require.Equal(t, int64(1), stats.AcceptedApplications)
	require.Equal(t, 50.0, stats.CompletionRate)
	require.Len(t, stats.RecentActivity, 2)
}
