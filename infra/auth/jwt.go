package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are the claims of a user token.
type UserClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTTokenProvider mints HS256 user tokens from the API secret and reuses
// each one until shortly before it expires.
type JWTTokenProvider struct {
	secret []byte
	userID string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewJWTTokenProvider creates a TokenProvider signing tokens for userID.
// A non-positive ttl defaults to one hour.
func NewJWTTokenProvider(secret, userID string, ttl time.Duration) *JWTTokenProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTTokenProvider{secret: []byte(secret), userID: userID, ttl: ttl, now: time.Now}
}

func (p *JWTTokenProvider) AccessToken() (string, error) {
	if len(p.secret) == 0 {
		return "", fmt.Errorf("jwt: api secret is empty")
	}
	if p.userID == "" {
		return "", fmt.Errorf("jwt: user id is empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.token != "" && now.Before(p.expires.Add(-time.Minute)) {
		return p.token, nil
	}

	expires := now.Add(p.ttl)
	claims := UserClaims{
		UserID: p.userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: signing token: %w", err)
	}
	p.token = signed
	p.expires = expires
	return signed, nil
}
