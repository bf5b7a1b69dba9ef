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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/versity-app/volunteer-api/internal/constants"
	"github.com/versity-app/volunteer-api/internal/dto"
	apierrors "github.com/versity-app/volunteer-api/internal/errors"
	"github.com/versity-app/volunteer-api/internal/mailer"
	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
	"github.com/versity-app/volunteer-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// chanMailer hands every message to a channel so tests can wait for the
// delivery goroutine.
type chanMailer struct {
	sent chan mailer.Message
}

func (m *chanMailer) Send(msg mailer.Message) error {
	m.sent <- msg
	return nil
}

// MatchHandlerTestSuite defines the test suite for MatchHandler
type MatchHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *MatchHandler
	sent    chan mailer.Message
}

// SetupTest runs before each test
func (suite *MatchHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.VolunteerProfile{},
		&models.Organization{},
		&models.Opportunity{},
		&models.Match{},
		&models.SystemLog{},
	)
	suite.Require().NoError(err)

	suite.sent = make(chan mailer.Message, 10)

	logger := zap.NewNop()
	matchRepo := repository.NewMatchRepository(suite.db)
	oppRepo := repository.NewOpportunityRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	logRepo := repository.NewSystemLogRepository(suite.db)

	notifier := services.NewNotificationService(&chanMailer{sent: suite.sent}, "http://localhost:3000", logger)
	audit := services.NewSystemLogService(logRepo, logger)

	matchService := services.NewMatchService(matchRepo, oppRepo, userRepo, notifier, audit)
	suite.handler = NewMatchHandler(matchService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *MatchHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *MatchHandlerTestSuite) createTestVolunteer(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleVolunteer,
	}
	suite.db.Create(user)
	return user
}

func (suite *MatchHandlerTestSuite) createTestAdmin(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleAdmin,
	}
	suite.db.Create(user)
	return user
}

func (suite *MatchHandlerTestSuite) createTestOrgAccount(name string) (*models.User, *models.Organization) {
	org := &models.Organization{
		Name:         name,
		ContactEmail: name + "@example.org",
	}
	suite.db.Create(org)

	user := &models.User{
		Username:       name,
		Email:          name + "@example.org",
		PasswordHash:   "hashedpassword",
		Role:           models.RoleOrganization,
		OrganizationID: &org.ID,
	}
	suite.db.Create(user)
	return user, org
}

func (suite *MatchHandlerTestSuite) createTestOpportunity(title string, orgID uint64) *models.Opportunity {
	opp := &models.Opportunity{
		Title:          title,
		OrganizationID: orgID,
	}
	suite.db.Create(opp)
	return opp
}

func (suite *MatchHandlerTestSuite) createTestMatch(volunteerID, oppID uint64, status models.MatchStatus) *models.Match {
	match := &models.Match{
		VolunteerID:   volunteerID,
		OpportunityID: oppID,
		Status:        status,
		MatchedOn:     time.Now(),
	}
	suite.db.Create(match)
	return match
}

// Helper function to create authenticated context
func (suite *MatchHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
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
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUserRole, user.Role)
	if user.OrganizationID != nil {
		c.Set(constants.ContextKeyOrganizationID, *user.OrganizationID)
	}

	return c, w
}

// waitForEmail blocks until the delivery goroutine hands over a message.
func (suite *MatchHandlerTestSuite) waitForEmail() mailer.Message {
	select {
	case msg := <-suite.sent:
		return msg
	case <-time.After(2 * time.Second):
		suite.T().Fatal("expected an email to be sent")
		return mailer.Message{}
	}
}

// TestCreateMatch_Success tests a volunteer applying for an opportunity
func (suite *MatchHandlerTestSuite) TestCreateMatch_Success() {
	volunteer := suite.createTestVolunteer("helper")
	_, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)

	requestBody := map[string]interface{}{
		"opportunity_id": opp.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/matches", body, volunteer)

	suite.handler.CreateMatch(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.MatchDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MatchStatusPending, response.Status)
	assert.Equal(suite.T(), volunteer.ID, response.VolunteerID)
	assert.NotNil(suite.T(), response.Opportunity)

	msg := suite.waitForEmail()
	assert.Equal(suite.T(), volunteer.Email, msg.To)
	assert.Contains(suite.T(), msg.Subject, "Community Garden")
}

// TestCreateMatch_Duplicate tests applying twice for the same opportunity
func (suite *MatchHandlerTestSuite) TestCreateMatch_Duplicate() {
	volunteer := suite.createTestVolunteer("helper")
	_, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)
	suite.createTestMatch(volunteer.ID, opp.ID, models.MatchStatusPending)

	requestBody := map[string]interface{}{
		"opportunity_id": opp.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/matches", body, volunteer)

	suite.handler.CreateMatch(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestCreateMatch_OpportunityNotFound tests applying for a missing opportunity
func (suite *MatchHandlerTestSuite) TestCreateMatch_OpportunityNotFound() {
	volunteer := suite.createTestVolunteer("helper")

	requestBody := map[string]interface{}{
		"opportunity_id": 999,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/matches", body, volunteer)

	suite.handler.CreateMatch(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCreateMatch_OrganizationForbidden tests that only volunteers can apply
func (suite *MatchHandlerTestSuite) TestCreateMatch_OrganizationForbidden() {
	orgUser, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)

	requestBody := map[string]interface{}{
		"opportunity_id": opp.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/matches", body, orgUser)

	suite.handler.CreateMatch(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListMatches_VolunteerScope tests that volunteers only see their own matches
func (suite *MatchHandlerTestSuite) TestListMatches_VolunteerScope() {
	volunteer := suite.createTestVolunteer("helper")
	peer := suite.createTestVolunteer("peer")
	_, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)

	mine := suite.createTestMatch(volunteer.ID, opp.ID, models.MatchStatusPending)
	suite.createTestMatch(peer.ID, opp.ID, models.MatchStatusPending)

	c, w := suite.createAuthContext("GET", "/api/matches", nil, volunteer)

	suite.handler.ListMatches(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.MatchListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Matches, 1)
	assert.Equal(suite.T(), mine.ID, response.Matches[0].ID)
}

// TestListMatches_OrganizationScope tests that organizations only see matches
// for their own opportunities
func (suite *MatchHandlerTestSuite) TestListMatches_OrganizationScope() {
	volunteer := suite.createTestVolunteer("helper")
	orgUserA, orgA := suite.createTestOrgAccount("shelter")
	_, orgB := suite.createTestOrgAccount("foodbank")

	oppA := suite.createTestOpportunity("Shelter Shift", orgA.ID)
	oppB := suite.createTestOpportunity("Pantry Shift", orgB.ID)

	ours := suite.createTestMatch(volunteer.ID, oppA.ID, models.MatchStatusPending)
	suite.createTestMatch(volunteer.ID, oppB.ID, models.MatchStatusPending)

	c, w := suite.createAuthContext("GET", "/api/matches", nil, orgUserA)

	suite.handler.ListMatches(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.MatchListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Matches, 1)
	assert.Equal(suite.T(), ours.ID, response.Matches[0].ID)
}

// TestListMatches_StatusFilter tests the status query parameter
func (suite *MatchHandlerTestSuite) TestListMatches_StatusFilter() {
	volunteer := suite.createTestVolunteer("helper")
	_, org := suite.createTestOrgAccount("shelter")
	oppA := suite.createTestOpportunity("Shelter Shift", org.ID)
	oppB := suite.createTestOpportunity("Pantry Shift", org.ID)

	suite.createTestMatch(volunteer.ID, oppA.ID, models.MatchStatusPending)
	accepted := suite.createTestMatch(volunteer.ID, oppB.ID, models.MatchStatusAccepted)

	c, w := suite.createAuthContext("GET", "/api/matches?status=accepted", nil, volunteer)

	suite.handler.ListMatches(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.MatchListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Matches, 1)
	assert.Equal(suite.T(), accepted.ID, response.Matches[0].ID)

	c, w = suite.createAuthContext("GET", "/api/matches?status=maybe", nil, volunteer)

	suite.handler.ListMatches(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetMatch_OutsideScope tests that foreign matches read as not found
func (suite *MatchHandlerTestSuite) TestGetMatch_OutsideScope() {
	volunteer := suite.createTestVolunteer("helper")
	peer := suite.createTestVolunteer("peer")
	_, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)
	match := suite.createTestMatch(volunteer.ID, opp.ID, models.MatchStatusPending)

	c, w := suite.createAuthContext("GET", "/api/matches/1", nil, peer)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(match.ID, 10)}}

	suite.handler.GetMatch(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUpdateMatchStatus_Accept tests the owning organization accepting an application
func (suite *MatchHandlerTestSuite) TestUpdateMatchStatus_Accept() {
	volunteer := suite.createTestVolunteer("helper")
	orgUser, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)
	match := suite.createTestMatch(volunteer.ID, opp.ID, models.MatchStatusPending)

	requestBody := map[string]interface{}{
		"status": "accepted",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/matches/1", body, orgUser)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(match.ID, 10)}}

	suite.handler.UpdateMatchStatus(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.MatchDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MatchStatusAccepted, response.Status)

	var stored models.Match
	suite.db.First(&stored, match.ID)
	assert.Equal(suite.T(), models.MatchStatusAccepted, stored.Status)

	// The volunteer is told about the decision.
	msg := suite.waitForEmail()
	assert.Equal(suite.T(), volunteer.Email, msg.To)
	assert.Contains(suite.T(), msg.Subject, "Application Update")

	// The decision leaves an audit trail.
	var count int64
	suite.db.Model(&models.SystemLog{}).Where("source = ?", "matches").Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestUpdateMatchStatus_AlreadyDecided tests that a decided match stays decided
func (suite *MatchHandlerTestSuite) TestUpdateMatchStatus_AlreadyDecided() {
	volunteer := suite.createTestVolunteer("helper")
	orgUser, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)
	match := suite.createTestMatch(volunteer.ID, opp.ID, models.MatchStatusAccepted)

	requestBody := map[string]interface{}{
		"status": "rejected",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/matches/1", body, orgUser)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(match.ID, 10)}}

	suite.handler.UpdateMatchStatus(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	err := json.Unmarshal(w.Body.Bytes(), &apiErr)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidTransition, apiErr.Code)

	// The first decision stands.
	var stored models.Match
	suite.db.First(&stored, match.ID)
	assert.Equal(suite.T(), models.MatchStatusAccepted, stored.Status)
}

// TestUpdateMatchStatus_WrongOrganization tests that another organization cannot decide
func (suite *MatchHandlerTestSuite) TestUpdateMatchStatus_WrongOrganization() {
	volunteer := suite.createTestVolunteer("helper")
	_, org := suite.createTestOrgAccount("shelter")
	otherUser, _ := suite.createTestOrgAccount("foodbank")
	opp := suite.createTestOpportunity("Community Garden", org.ID)
	match := suite.createTestMatch(volunteer.ID, opp.ID, models.MatchStatusPending)

	requestBody := map[string]interface{}{
		"status": "accepted",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/matches/1", body, otherUser)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(match.ID, 10)}}

	suite.handler.UpdateMatchStatus(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestUpdateMatchStatus_VolunteerForbidden tests that volunteers cannot decide
// their own applications
func (suite *MatchHandlerTestSuite) TestUpdateMatchStatus_VolunteerForbidden() {
	volunteer := suite.createTestVolunteer("helper")
	_, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)
	match := suite.createTestMatch(volunteer.ID, opp.ID, models.MatchStatusPending)

	requestBody := map[string]interface{}{
		"status": "accepted",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/matches/1", body, volunteer)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(match.ID, 10)}}

	suite.handler.UpdateMatchStatus(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestUpdateMatchStatus_InvalidDecision tests rejecting statuses outside the lifecycle
func (suite *MatchHandlerTestSuite) TestUpdateMatchStatus_InvalidDecision() {
	volunteer := suite.createTestVolunteer("helper")
	orgUser, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)
	match := suite.createTestMatch(volunteer.ID, opp.ID, models.MatchStatusPending)

	requestBody := map[string]interface{}{
		"status": "maybe",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/matches/1", body, orgUser)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(match.ID, 10)}}

	suite.handler.UpdateMatchStatus(c)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

// TestGetRecommendations_ExcludesApplied tests that applied opportunities drop out
func (suite *MatchHandlerTestSuite) TestGetRecommendations_ExcludesApplied() {
	volunteer := suite.createTestVolunteer("helper")
	_, org := suite.createTestOrgAccount("shelter")
	applied := suite.createTestOpportunity("Shelter Shift", org.ID)
	open := suite.createTestOpportunity("Pantry Shift", org.ID)

	suite.createTestMatch(volunteer.ID, applied.ID, models.MatchStatusPending)

	c, w := suite.createAuthContext("GET", "/api/matches/recommendations", nil, volunteer)

	suite.handler.GetRecommendations(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Opportunities []dto.OpportunityDTO `json:"opportunities"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Opportunities, 1)
	assert.Equal(suite.T(), open.ID, response.Opportunities[0].ID)
}

// TestGetCandidates tests listing volunteers who have not applied yet
func (suite *MatchHandlerTestSuite) TestGetCandidates() {
	applicant := suite.createTestVolunteer("applicant")
	candidate := suite.createTestVolunteer("candidate")
	orgUser, org := suite.createTestOrgAccount("shelter")
	opp := suite.createTestOpportunity("Community Garden", org.ID)

	suite.createTestMatch(applicant.ID, opp.ID, models.MatchStatusPending)

	c, w := suite.createAuthContext("GET", "/api/opportunities/1/candidates", nil, orgUser)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(opp.ID, 10)}}

	suite.handler.GetCandidates(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Candidates []dto.UserDTO `json:"candidates"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Candidates, 1)
	assert.Equal(suite.T(), candidate.ID, response.Candidates[0].ID)
}

// TestGetStatistics tests organization-scoped match statistics
func (suite *MatchHandlerTestSuite) TestGetStatistics() {
	v1 := suite.createTestVolunteer("v1")
	v2 := suite.createTestVolunteer("v2")
	v3 := suite.createTestVolunteer("v3")
	v4 := suite.createTestVolunteer("v4")
	orgUser, org := suite.createTestOrgAccount("shelter")
	_, otherOrg := suite.createTestOrgAccount("foodbank")

	opp := suite.createTestOpportunity("Shelter Shift", org.ID)
	otherOpp := suite.createTestOpportunity("Pantry Shift", otherOrg.ID)

	suite.createTestMatch(v1.ID, opp.ID, models.MatchStatusPending)
	suite.createTestMatch(v2.ID, opp.ID, models.MatchStatusAccepted)
	suite.createTestMatch(v3.ID, opp.ID, models.MatchStatusAccepted)
	suite.createTestMatch(v4.ID, opp.ID, models.MatchStatusRejected)
	suite.createTestMatch(v1.ID, otherOpp.ID, models.MatchStatusPending)

	c, w := suite.createAuthContext("GET", "/api/matches/stats", nil, orgUser)

	suite.handler.GetStatistics(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stats services.MatchStatistics
	err := json.Unmarshal(w.Body.Bytes(), &stats)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(4), stats.Total)
	assert.Equal(suite.T(), int64(1), stats.Pending)
	assert.Equal(suite.T(), int64(2), stats.Accepted)
	assert.Equal(suite.T(), int64(1), stats.Rejected)
	assert.Equal(suite.T(), 50.0, stats.AcceptanceRate)

	// An admin can narrow the statistics to a single organization.
	admin := suite.createTestAdmin("overseer")
	c, w = suite.createAuthContext("GET", "/api/matches/stats?organization_id="+strconv.FormatUint(otherOrg.ID, 10), nil, admin)

	suite.handler.GetStatistics(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	stats = services.MatchStatistics{}
	err = json.Unmarshal(w.Body.Bytes(), &stats)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), stats.Total)
	assert.Equal(suite.T(), int64(1), stats.Pending)
	assert.Equal(suite.T(), 0.0, stats.AcceptanceRate)
}

// TestGetStatistics_VolunteerForbidden tests that volunteers have no statistics view
func (suite *MatchHandlerTestSuite) TestGetStatistics_VolunteerForbidden() {
	volunteer := suite.createTestVolunteer("helper")

	c, w := suite.createAuthContext("GET", "/api/matches/stats", nil, volunteer)

	suite.handler.GetStatistics(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestSuite runs the test suite
func TestMatchHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MatchHandlerTestSuite))
}
