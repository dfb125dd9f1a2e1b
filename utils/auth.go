package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"internship-registry-server/config"
	"internship-registry-server/types"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken generates a JWT token for a user
func GenerateToken(userID uint) (string, error) {
	claims := types.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(config.AppConfig.JWT.ExpiryHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWT.Secret))
}

// VerifyToken verifies a JWT token and returns the claims
func VerifyToken(tokenString string) (*types.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*types.Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ValidateToken is an alias kept for the middleware call sites
func ValidateToken(tokenString string) (*types.Claims, error) {
	return VerifyToken(tokenString)
}

var mobilePattern = regexp.MustCompile(`^09\d{9}$`)

// ValidateMobile checks an Iranian mobile number (09xxxxxxxxx)
func ValidateMobile(mobile string) bool {
	return mobilePattern.MatchString(FormatMobile(mobile))
}

// FormatMobile normalizes a mobile number to the 09xxxxxxxxx form
func FormatMobile(mobile string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(mobile), " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	if strings.HasPrefix(cleaned, "+98") {
		cleaned = "0" + cleaned[3:]
	} else if strings.HasPrefix(cleaned, "98") && len(cleaned) == 12 {
		cleaned = "0" + cleaned[2:]
	} else if strings.HasPrefix(cleaned, "9") && len(cleaned) == 10 {
		cleaned = "0" + cleaned
	}
	return cleaned
}
