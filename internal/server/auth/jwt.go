// Package auth implements the token-signing and credential-hashing
// primitives used by the authentication service.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ksolovey/modacart/internal/common"
)

// Claims is the access-token claim set: registered claims plus the account
// id and its role labels.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"uid"`
	Roles  []string `json:"roles,omitempty"`
}

// GenerateToken mints an HS256-signed access token for userID. Issued-at is
// now and expiry is now+validityDuration.
func GenerateToken(userID string, roles []string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Roles:  roles,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns
// its claims. Expired tokens map to common.ErrInvalidToken like any other
// verification failure.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

