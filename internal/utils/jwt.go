package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/versity-app/volunteer-api/internal/models"
)

const (
	TokenTypeAccess = "access"
	TokenTypeReset  = "reset"
)

// TokenClaims is the claims payload of every token the API issues.
type TokenClaims struct {
	UserID         uint64      `json:"user_id"`
	Role           models.Role `json:"role"`
	OrganizationID *uint64     `json:"organization_id,omitempty"`
	Type           string      `json:"type"`
	jwt.RegisteredClaims
}

// JWTService signs and validates tokens with a shared HMAC secret.
type JWTService struct {
	secretKey []byte
	expiry    time.Duration
}

func NewJWTService(secretKey string, expiry time.Duration) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		expiry:    expiry,
	}
}

// GenerateAccessToken issues a signed bearer token for the user. The second
// return value is the unix timestamp at which the token expires.
func (j *JWTService) GenerateAccessToken(user *models.User) (string, int64, error) {
	now := time.Now()
	expiry := now.Add(j.expiry)

	claims := &TokenClaims{
		UserID:         user.ID,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		Type:           TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	return tokenString, expiry.Unix(), nil
}

// GeneratePasswordResetToken issues a short-lived token whose subject is the
// account email. Reset tokens are rejected by the auth middleware because
// their type is not "access".
func (j *JWTService) GeneratePasswordResetToken(email string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &TokenClaims{
		Type: TokenTypeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses a token and verifies its signature and expiry.
func (j *JWTService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// ValidateAccessToken validates a token and checks that it is an access
// token rather than a reset token.
func (j *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != TokenTypeAccess {
		return nil, fmt.Errorf("invalid token type: expected access, got %s", claims.Type)
	}

	return claims, nil
}

// ValidatePasswordResetToken validates a reset token and returns the email
// it was issued for.
func (j *JWTService) ValidatePasswordResetToken(tokenString string) (string, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	if claims.Type != TokenTypeReset {
		return "", fmt.Errorf("invalid token type: expected reset, got %s", claims.Type)
	}

	return claims.Subject, nil
}
