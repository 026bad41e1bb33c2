package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the credential payload carried in issued tokens.
// Role may be empty until the user picks one; onboarding flags let the
// frontend route the user without an extra round-trip.
type TokenClaims struct {
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	Role             string `json:"role,omitempty"`
	RoleAdded        bool   `json:"role_added"`
	ProfileCompleted bool   `json:"profile_completed"`
	IsVerified       bool   `json:"is_verified"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    7 * 24 * time.Hour,
	}
}

func (s *TokenService) Issue(claims TokenClaims) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("auth: JWT secret not configured")
	}

	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		Subject:   claims.UserID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a bearer token, returning its claims.
func (s *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
