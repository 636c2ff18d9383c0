// Package auth implements access-token generation and validation for the
// glucolog server. Access tokens are HS256 JWTs carrying the user id;
// refresh tokens are opaque and handled by the users service.
package auth

import (
	"errors"
	"time"

	"github.com/avolkova/glucolog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims включает стандартные утверждения и одно пользовательское UserID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken validates the token signature and expiry and returns
// the embedded user id. Expired tokens map to common.ErrTokenExpired so
// the HTTP layer can tell the client to refresh.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
