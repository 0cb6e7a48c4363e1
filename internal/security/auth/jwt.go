package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an issued token.
const TokenTTL = 6 * time.Hour

// Verification failures are distinguishable so middleware can tell the
// caller exactly why a token was rejected.
var (
	ErrMissingToken     = errors.New("missing authorization token")
	ErrMalformedToken   = errors.New("jwt malformed")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrExpiredToken     = errors.New("jwt expired")
	ErrInvalidToken     = errors.New("invalid token")
)

// Claims is the identity payload embedded in a signed token. It becomes
// the authenticated identity for the rest of the request.
type Claims struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256-signed identity tokens.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager creates a token manager. An empty secret falls back to
// an insecure development default.
func NewTokenManager(secret, issuer string) *TokenManager {
	if secret == "" {
		secret = "d3f4ults3cr3t"
	}
	if issuer == "" {
		issuer = "chatter"
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer}
}

// Issue signs a token carrying the given identity, valid for TokenTTL.
func (tm *TokenManager) Issue(id, name, email string) (string, error) {
	if id == "" {
		return "", errors.New("id required")
	}
	now := time.Now()
	claims := Claims{
		ID:    id,
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			Issuer:    tm.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify parses and validates a token, returning its claims. Failures map
// onto the package sentinels so callers can surface a precise message.
func (tm *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return tm.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractToken pulls the bearer token out of an Authorization header value.
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrMalformedToken
	}
	return parts[1], nil
}
