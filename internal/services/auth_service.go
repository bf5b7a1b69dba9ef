package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/constants"
	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
	"github.com/versity-app/volunteer-api/internal/utils"
)

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRole          = errors.New("invalid role")
	ErrAdminKeyInvalid      = errors.New("invalid admin registration key")
	ErrAdminLimitReached    = errors.New("admin limit reached")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles registration, login and account maintenance.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *utils.JWTService
	notifier   *NotificationService
	audit      *SystemLogService

	adminKey      string
	maxAdmins     int
	resetTokenTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *utils.JWTService,
	notifier *NotificationService,
	audit *SystemLogService,
	adminKey string,
	maxAdmins int,
	resetTokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtService:    jwtService,
		notifier:      notifier,
		audit:         audit,
		adminKey:      adminKey,
		maxAdmins:     maxAdmins,
		resetTokenTTL: resetTokenTTL,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     models.Role
	AdminKey string

	// Organization accounts only
	OrganizationName        string
	OrganizationDescription string
	OrganizationLocation    string
}

// Register creates a new account. The user row and its role-specific rows
// are written in one transaction so a half-registered account can never be
// observed.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}

	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RoleVolunteer
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if role == models.RoleAdmin {
		if s.adminKey == "" || input.AdminKey != s.adminKey {
			return nil, ErrAdminKeyInvalid
		}
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	switch role {
	case models.RoleVolunteer:
		// The profile starts out with the username as display name; the
		// volunteer fills in the rest later.
		err = s.userRepo.CreateVolunteer(user, &models.VolunteerProfile{Name: username})

	case models.RoleOrganization:
		orgName := strings.TrimSpace(input.OrganizationName)
		if orgName == "" {
			orgName = username
		}

		org := &models.Organization{
			Name:         orgName,
			Description:  input.OrganizationDescription,
			ContactEmail: email,
			Location:     input.OrganizationLocation,
		}
		err = s.userRepo.CreateOrganizationAccount(user, org)

	case models.RoleAdmin:
		err = s.userRepo.CreateAdmin(user, &models.AdminProfile{
			CanManageUsers:         true,
			CanManageOrganizations: true,
			CanManageOpportunities: true,
			CanVerifyHours:         true,
		}, s.maxAdmins)
	}

	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAdminLimitReached):
			return nil, ErrAdminLimitReached
		case errors.Is(err, repository.ErrCreateUser),
			errors.Is(err, repository.ErrCreateProfile),
			errors.Is(err, repository.ErrCreateOrganization):
			return nil, ErrFailedToCreateUser
		default:
			return nil, fmt.Errorf("failed to complete registration: %w", err)
		}
	}

	s.audit.Info("auth", fmt.Sprintf("registered %s account %q", role, username), user.ID)
	s.notifier.SendWelcome(user)

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the issued token alongside the authenticated user.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt int64
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// RefreshToken issues a fresh token for an already authenticated user.
func (s *AuthService) RefreshToken(userID uint64) (*LoginResult, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GetUser retrieves a user with their profile relations.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "VolunteerProfile", "AdminProfile", "Organization")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateAccountInput represents the fields a user may change on their own
// account.
type UpdateAccountInput struct {
	Username *string
	Email    *string
	Password *string
}

// UpdateAccount applies the given changes to the user's own account.
func (s *AuthService) UpdateAccount(userID uint64, input UpdateAccountInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, ErrUsernameRequired
		}
		if username != user.Username {
			if _, err := s.userRepo.FindByUsername(username); err == nil {
				return nil, ErrUsernameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			user.Username = username
		}
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, ErrEmailRequired
		}
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}

	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.GetUser(user.ID)
}

// ForgotPassword issues a reset token for the account behind email. To avoid
// leaking which addresses exist, an unknown email is not an error.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit.Warning("auth", fmt.Sprintf("password reset requested for unknown email %q", email))
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := s.jwtService.GeneratePasswordResetToken(user.Email, s.resetTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	s.notifier.SendPasswordReset(user.Email, token)
	return nil
}

// ResetPassword sets a new password for the account a reset token was
// issued to.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	email, err := s.jwtService.ValidatePasswordResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}

	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.audit.Info("auth", fmt.Sprintf("password reset for %q", user.Username), user.ID)
	return nil
}
