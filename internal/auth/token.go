package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "blogapp-api"

// ErrInvalidToken is returned by Verify for any token that fails
// signature, structure, or claim checks. Verification fails closed:
// a bad token never yields partial identity data.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the authenticated identity carried by a session token.
type Claims struct {
	UserID   string
	Username string
}

// TokenCodec issues and verifies signed session tokens. The signing
// secret is fixed for the process lifetime.
//
// Tokens carry no expiry claim: a session is a long-lived capability
// bound to the signing secret, revoked only by overwriting the cookie
// at logout.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec from the process-wide signing secret.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	return &TokenCodec{secret: []byte(secret)}, nil
}

// Issue signs a session token for the given identity.
func (tc *TokenCodec) Issue(userID, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"iss":      issuer,
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Verify checks the token signature and claims and returns the identity.
func (tc *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tc.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if iss, ok := claims["iss"].(string); !ok || iss != issuer {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}

	username, _ := claims["username"].(string)

	return &Claims{UserID: sub, Username: username}, nil
}
