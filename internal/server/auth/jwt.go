// Package auth issues and verifies the signed session tokens the server
// hands out on signin and anonymous group join, and wraps password hashing
// for accounts and group passwords.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
)

// Claims extends the registered JWT claims with the user identity and its
// verification level (0 = anonymous member, 1 = registered account).
type Claims struct {
	jwt.RegisteredClaims
	UserID   string
	Verified int
}

// GenerateToken signs a session token for (userID, verified) valid for
// validityDuration.
func GenerateToken(userID string, verified int, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:   userID,
		Verified: verified,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates tokenString and returns the embedded user id and
// verification level.
func ParseToken(tokenString string, secretKey []byte) (string, int, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", 0, err
	}

	if !token.Valid {
		return "", 0, common.ErrInvalidToken
	}

	return claims.UserID, claims.Verified, nil
}
