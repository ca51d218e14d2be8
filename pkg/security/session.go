package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session lifetimes. The remember flag on login picks the long one, there is
// no further policy behind it.
const (
	SessionTTL         = 24 * time.Hour
	RememberSessionTTL = 30 * 24 * time.Hour
)

var ErrSessionInvalid = errors.New("session invalid or expired")

// SessionGate mints and checks the signed auth tokens that represent a
// logged-in session.
type SessionGate struct {
	secret []byte
}

func NewSessionGate(secret string) *SessionGate {
	return &SessionGate{secret: []byte(secret)}
}

func (s *SessionGate) Issue(userID uint, ttl time.Duration) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    "auth",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	})

	return tok.SignedString(s.secret)
}

// Parse returns the user ID a session token was issued for. Expiry is
// checked by the JWT layer through the exp claim.
func (s *SessionGate) Parse(token string) (uint, error) {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", tok.Method.Alg())
		}

		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return 0, ErrSessionInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrSessionInvalid
	}

	if t, _ := claims["type"].(string); t != "auth" {
		return 0, ErrSessionInvalid
	}

	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, ErrSessionInvalid
	}

	return uint(id), nil
}
