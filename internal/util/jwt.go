package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenPurpose string

const (
	PurposeChallenge TokenPurpose = "challenge"
	PurposeAccess    TokenPurpose = "access"
)

type Claims struct {
	Wallet  string       `json:"wallet"`
	Purpose TokenPurpose `json:"purpose"`
	Nonce   string       `json:"nonce,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret []byte
	now    func() time.Time
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret), now: time.Now}
}

func (m *JWTManager) Generate(wallet string, purpose TokenPurpose, nonce string, ttl time.Duration) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(ttl)
	claims := Claims{
		Wallet:  wallet,
		Purpose: purpose,
		Nonce:   nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   wallet,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse validates signature, expiry and that the token was issued for purpose.
func (m *JWTManager) Parse(tokenString string, purpose TokenPurpose) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Purpose != purpose {
		return nil, errors.New("token issued for a different purpose")
	}
	return claims, nil
}
