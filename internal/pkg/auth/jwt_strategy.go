package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid auth token")

// JWTStrategy implements token creation/verification with HS256 signatures.
// The username travels in the standard subject claim, the numeric user
// identifier in a private "user_id" claim.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type tokenClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueToken generates a signed token for the user.
func (s *JWTStrategy) IssueToken(claims Claims) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserID: claims.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

// ParseToken validates the token and returns the encoded identity. Any
// malformed, expired, or wrongly signed input yields ErrInvalidToken.
func (s *JWTStrategy) ParseToken(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if parsed.UserID == 0 || parsed.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: parsed.UserID, Username: parsed.Subject}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt-hs256"
}
