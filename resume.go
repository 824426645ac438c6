package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SeatResume issues signed tokens binding a participant to their seat
// in a session, so a reloaded client can pick up where it left off
// without re-joining.
type SeatResume struct {
	jwtSecret string
	validity  time.Duration
}

func NewSeatResume(jwtSecret string, validity time.Duration) *SeatResume {
	return &SeatResume{jwtSecret, validity}
}

func (s SeatResume) GenerateResumeToken(sessionCode, participantID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sessionCode":   sessionCode,
		"participantId": participantID,
		"exp":           jwt.NewNumericDate(time.Now().Add(s.validity)),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// GetSeatFromResumeToken returns the session code and participant id
// from a valid token, or empty strings for anything invalid, expired
// or tampered with.
func (s SeatResume) GetSeatFromResumeToken(tokenString string) (string, string) {
	token, _ := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if token == nil || !token.Valid {
		return "", ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ""
	}
	sessionCode, _ := claims["sessionCode"].(string)
	participantID, _ := claims["participantId"].(string)
	return sessionCode, participantID
}
