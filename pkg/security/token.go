package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purposes a signed token can be issued for. A token is only valid for the
// purpose it was issued with.
const (
	PurposeEmailValidation = "email_validation"
	PurposePasswordSetup   = "password_setup"
)

// ErrTokenInvalid is the only error Verify returns for a bad token. Callers
// never learn whether the signature, the purpose or the age check failed.
var ErrTokenInvalid = errors.New("token invalid or expired")

// TokenCodec issues and verifies signed, timestamped opaque tokens. The
// signing secret is handed in at construction and never read from the
// environment here.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue produces a URL-safe token binding subject to purpose with an embedded
// issuance timestamp, signed with the codec secret.
func (t *TokenCodec) Issue(subject, purpose string) (string, error) {
	return t.issueAt(subject, purpose, time.Now())
}

func (t *TokenCodec) issueAt(subject, purpose string, issued time.Time) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     subject,
		"purpose": purpose,
		"iat":     issued.Unix(),
	})

	return tok.SignedString(t.secret)
}

// Verify decodes the token and returns its subject. It fails with
// ErrTokenInvalid if the signature doesn't match, the purpose differs from
// the expected one, or more than maxAge has passed since issuance.
func (t *TokenCodec) Verify(token, purpose string, maxAge time.Duration) (string, error) {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", tok.Method.Alg())
		}

		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	if p, _ := claims["purpose"].(string); p != purpose {
		return "", ErrTokenInvalid
	}

	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return "", ErrTokenInvalid
	}

	if time.Since(issuedAt.Time) > maxAge {
		return "", ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenInvalid
	}

	return sub, nil
}
