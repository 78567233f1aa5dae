package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL is the lifetime of a session token when none is configured.
const DefaultTokenTTL = time.Hour

// Claims represents JWT claims.
type Claims struct {
	UserID   uint   `json:"id"`
	Email    string `json:"email"`
	Provider string `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and validates session tokens with a shared HMAC secret.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret and default ttl.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime applied by Issue.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the user with the service's default ttl.
// provider is empty for local logins.
func (s *JWTService) Issue(userID uint, email, provider string) (string, error) {
	return s.IssueWithTTL(userID, email, provider, s.ttl)
}

// IssueWithTTL signs a token that expires after ttl.
func (s *JWTService) IssueWithTTL(userID uint, email, provider string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   userID,
		Email:    email,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == 0 {
		return nil, errors.New("token missing user id")
	}

	return claims, nil
}
