package token

import (
	"errors"
	"fmt"
	"time"

	"todo-web/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// minSecretLength is the shortest HS256 key accepted.
const minSecretLength = 32

// ErrSecretTooShort is returned by NewJWTCodec for weak keys.
var ErrSecretTooShort = errors.New("session secret must be at least 32 bytes")

// JWTConfig holds session cookie signing configuration.
type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// sessionClaims is the payload carried by the session cookie.
type sessionClaims struct {
	Sid string `json:"sid"`
	jwt.RegisteredClaims
}

// JWTCodec signs session ids into cookie values and verifies them on the way back.
// Implements domain.SessionTokenCodec.
type JWTCodec struct {
	cfg    JWTConfig
	parser *jwt.Parser
	now    func() time.Time
}

// NewJWTCodec creates a codec. The secret must be at least 32 bytes.
func NewJWTCodec(cfg JWTConfig) (*JWTCodec, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	return &JWTCodec{cfg: cfg, parser: parser, now: time.Now}, nil
}

// TTL reports how long an issued token stays valid.
func (j *JWTCodec) TTL() time.Duration {
	return j.cfg.TTL
}

// Encode signs sessionID.
func (j *JWTCodec) Encode(sessionID string) (string, error) {
	now := j.now()
	claims := sessionClaims{
		Sid: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.Secret))
}

// Decode verifies token and returns the session id inside it.
func (j *JWTCodec) Decode(token string) (string, error) {
	if token == "" {
		return "", domain.ErrSessionTokenBad
	}

	claims := &sessionClaims{}
	_, err := j.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(j.cfg.Secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSessionTokenBad, err)
	}
	if claims.Sid == "" {
		return "", domain.ErrSessionTokenBad
	}
	return claims.Sid, nil
}
