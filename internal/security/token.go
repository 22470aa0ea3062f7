package security

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates HS256 bearer tokens whose subject is
// the numeric user id.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

// NewTokenService returns nil when secret is empty; callers treat a nil
// service as "bearer tokens disabled".
func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	if secret == "" {
		return nil
	}
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
	}
}

func (t *TokenService) CreateForUser(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expiresIn)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// UserID validates tokenStr and returns the user id in its subject.
func (t *TokenService) UserID(tokenStr string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, jwt.ErrSignatureInvalid
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", jwt.ErrTokenMalformed, claims.Subject)
	}
	return id, nil
}
