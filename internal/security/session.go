package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrInvalidIssuer  = errors.New("invalid issuer")
	ErrTokenExpired   = errors.New("token expired or not valid yet")
	ErrInvalidSubject = errors.New("invalid subject")
	ErrEmptySecret    = errors.New("empty session secret")
)

// SessionSigner issues the login cookie value: an HS256 JWT whose subject is
// the display name. It only proves the name was set by this server.
type SessionSigner struct {
	secret    []byte
	issuer    string
	ttl       time.Duration
	clockSkew time.Duration
}

func NewSessionSigner(secret []byte, issuer string, ttl time.Duration) (*SessionSigner, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionSigner{
		secret:    secret,
		issuer:    issuer,
		ttl:       ttl,
		clockSkew: 30 * time.Second,
	}, nil
}

func (s *SessionSigner) TTL() time.Duration {
	return s.ttl
}

type SessionClaims struct {
	jwt.StandardClaims
}

// Sign issues a token for displayName, valid from now until now+ttl.
func (s *SessionSigner) Sign(displayName string, now time.Time) (string, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "", ErrInvalidSubject
	}
	claims := SessionClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   displayName,
			Issuer:    s.issuer,
			IssuedAt:  now.Unix(),
			NotBefore: now.Add(-s.clockSkew).Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates the token and returns the display name it carries.
func (s *SessionSigner) Parse(tokenStr string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return "", ErrInvalidIssuer
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidSubject
	}

	return claims.Subject, nil
}
