package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"slotline/config"
	"slotline/models"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "slotline-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT for the given principal. The booking
// service itself never issues tokens to callers; this exists for tests and
// local tooling.
func GenerateToken(p models.Principal, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  p.ID,
		"role": string(p.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// PrincipalFromToken resolves the (principal_id, role) pair carried in a
// valid token's claims.
func PrincipalFromToken(tokenString string) (models.Principal, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Principal{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, errors.New("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Principal{}, errors.New("token does not contain a valid 'sub' claim")
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return models.Principal{}, errors.New("token does not contain a valid 'role' claim")
	}
	role := models.Role(roleStr)
	if !role.Valid() {
		return models.Principal{}, errors.New("token carries an unknown role")
	}
	return models.Principal{ID: sub, Role: role}, nil
}
