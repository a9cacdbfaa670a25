package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is used when no session lifetime is configured.
const DefaultSessionTTL = 24 * time.Hour

// Claims carried by a session token. The token ID (jti) is the session id.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service with the given HMAC secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Issue signs a token bound to the session id and user that expires after ttl.
func (s *TokenService) Issue(sessionID string, userID uint, username string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies the signature and expiry of a token and returns its claims.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" {
		return nil, errors.New("token ID not found")
	}
	return claims, nil
}
