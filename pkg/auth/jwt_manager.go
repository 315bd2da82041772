package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type JWTManager struct {
	secretKey       string
	tokenDuration   time.Duration
	registrationTTL time.Duration
}

// registrationClaims carries the pending email through the get-started flow,
// so no server-side session is needed between the invite mail and the
// registration call.
type registrationClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

const purposeRegistration = "registration"

func NewJWTManager(secret string, duration, registrationTTL time.Duration) *JWTManager {
	return &JWTManager{secretKey: secret, tokenDuration: duration, registrationTTL: registrationTTL}
}

// Generate creates an access JWT for userID.
func (m *JWTManager) Generate(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDuration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// Verify parses and validates an access JWT.
func (m *JWTManager) Verify(accessToken string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &jwt.RegisteredClaims{}, m.keyFunc)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Expiry returns the expiration time of an access token.
func (m *JWTManager) Expiry(accessToken string) (time.Time, error) {
	claims, err := m.Verify(accessToken)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt.Time, nil
}

// GenerateRegistration creates a short-lived token binding the pending email.
// It is only accepted by VerifyRegistration, never as an access token.
func (m *JWTManager) GenerateRegistration(email string) (string, error) {
	claims := registrationClaims{
		Email:   email,
		Purpose: purposeRegistration,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.registrationTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// VerifyRegistration validates a registration token and returns the email it
// was issued for.
func (m *JWTManager) VerifyRegistration(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &registrationClaims{}, m.keyFunc)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*registrationClaims)
	if !ok || !token.Valid || claims.Purpose != purposeRegistration {
		return "", errors.New("invalid registration token")
	}
	return claims.Email, nil
}

func (m *JWTManager) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return []byte(m.secretKey), nil
}

// ExtractTokenFromHeader pulls the bearer token out of the Authorization header.
func ExtractTokenFromHeader(r *http.Request) (string, error) {
	hdr := r.Header.Get("Authorization")
	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid Authorization header")
	}
	return parts[1], nil
}
