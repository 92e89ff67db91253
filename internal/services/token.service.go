package services

import (
	"time"

	"mealweek/config"
	"mealweek/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the claims carried by a session token. SessionID
// identifies the issuing client session so change notifications can suppress
// echoes back to it.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	log    logger.Logger
}

func NewTokenService(config config.Config) *TokenService {
	return &TokenService{
		secret: []byte(config.SessionSecret),
		ttl:    time.Duration(config.SessionTTLHours) * time.Hour,
		log:    logger.New("tokenService"),
	}
}

// IssueToken creates a signed session token for the user. A fresh session id
// is generated per token.
func (ts *TokenService) IssueToken(userID uuid.UUID) (token string, sessionID string, err error) {
	log := ts.log.Function("IssueToken")

	now := time.Now()
	sessionID = uuid.New().String()

	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", "", log.Err("failed to sign session token", err, "userID", userID)
	}

	return signed, sessionID, nil
}

// ValidateToken parses a session token and returns the user id and session id
// it carries.
func (ts *TokenService) ValidateToken(tokenString string) (uuid.UUID, string, error) {
	log := ts.log.Function("ValidateToken")

	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return ts.secret, nil
		},
	)
	if err != nil {
		return uuid.Nil, "", log.Err("failed to parse session token", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", log.ErrMsg("invalid session token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", log.Err("invalid subject in session token", err)
	}

	return userID, claims.SessionID, nil
}
