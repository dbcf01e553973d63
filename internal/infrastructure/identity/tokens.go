package identity

import (
	"errors"
	"time"

	"vidboard/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// SessionClaims are the claims minted into a bridge session token after a
// completed sign-in. The UI presents the token when attaching to the signal
// channel.
type SessionClaims struct {
	UserID      domain.UserID `json:"user_id"`
	DisplayName string        `json:"display_name"`
	jwt.RegisteredClaims
}

type SessionTokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionTokenManager(secret string, ttl time.Duration) *SessionTokenManager {
	return &SessionTokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *SessionTokenManager) Issue(session *domain.Session) (string, error) {
	claims := &SessionClaims{
		UserID:      session.UID,
		DisplayName: session.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *SessionTokenManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
