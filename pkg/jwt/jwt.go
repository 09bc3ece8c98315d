// Package jwt emite y valida los tokens de la API de administración.
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret     = errors.New("jwt: secret vacío")
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// Claims del token. Role es el rol efectivo (admin u owner) en el momento del login.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	TelegramID int64  `json:"telegram_id"`
	Role       string `json:"role"`
}

// Subject datos del actor que se firman en el token.
type Subject struct {
	UserID     string
	TelegramID int64
	Role       string
}

// Issuer firma con HS256 y verifica emisor, algoritmo y expiración.
type Issuer struct {
	secret []byte
	name   string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer construye el emisor. ttl <= 0 equivale a una hora.
func NewIssuer(secret, name string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), name: name, ttl: ttl, now: time.Now}
}

// WithClock fija el reloj usado al emitir (tests).
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

// TTL duración de los tokens emitidos.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue firma un token para s.
func (i *Issuer) Issue(s Subject) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNoSecret
	}
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.name,
			Subject:   strconv.FormatInt(s.TelegramID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID:     s.UserID,
		TelegramID: s.TelegramID,
		Role:       s.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify valida firma, algoritmo, emisor y expiración. Cualquier fallo envuelve ErrInvalidToken.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, ErrNoSecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if i.name != "" {
		opts = append(opts, jwt.WithIssuer(i.name))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.TelegramID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
