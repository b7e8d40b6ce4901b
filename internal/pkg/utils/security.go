package utils

import (
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

func HashPin(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPinHash(pin, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	return err == nil
}

// GenerateDoctorLegToken signs a short-lived token carrying the call queue entry
// id. The token rides in the doctor accept/reject callback URLs so a forged
// request id cannot flip somebody else's queue entry.
func GenerateDoctorLegToken(queueEntryID, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		constvars.DoctorLegTokenClaim: queueEntryID,
		"exp":                         time.Now().Add(ttl).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", exceptions.ErrDoctorLegTokenGenerate(err)
	}
	return tokenString, nil
}

// ParseDoctorLegToken verifies the token and returns the queue entry id it names.
func ParseDoctorLegToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, exceptions.ErrDoctorLegTokenInvalid(nil)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", exceptions.ErrDoctorLegTokenInvalid(err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if queueEntryID, ok := claims[constvars.DoctorLegTokenClaim].(string); ok {
			return queueEntryID, nil
		}
	}
	return "", exceptions.ErrDoctorLegTokenInvalid(nil)
}
