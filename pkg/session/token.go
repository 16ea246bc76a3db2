// Package session emite y valida la credencial de sesión (cookie auth-token).
//
// La credencial es un JWT HS256: la firma se verifica antes de confiar en cualquier
// claim. La expiración dura (exp) corresponde a la vida del cookie; la ventana de
// sesión más corta se evalúa aparte con IsExpired y un TTL configurable.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed token con estructura, algoritmo o firma inválidos.
	ErrMalformed = errors.New("session: credencial malformada")
	// ErrExpired token más allá de su exp firmado.
	ErrExpired = errors.New("session: credencial expirada")
)

// Claims identidad transportada por la credencial.
type Claims struct {
	UserID       string
	Email        string
	Role         string
	IsSuperAdmin bool
	ClientID     string
	IssuedAt     time.Time
}

// tokenClaims forma serializada: claims estándar JWT más los campos propios.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	ClientID     string `json:"clientId,omitempty"`
	Timestamp    int64  `json:"timestamp"` // milisegundos Unix de emisión
}

// Codec codifica y decodifica credenciales con un secreto compartido.
type Codec struct {
	secret []byte
	issuer string
	maxAge time.Duration
	now    func() time.Time
}

// NewCodec construye el codec. maxAge es la vida máxima firmada en el token (exp).
func NewCodec(secret, issuer string, maxAge time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("session: secret vacío")
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("session: maxAge debe ser positivo")
	}
	return &Codec{secret: []byte(secret), issuer: issuer, maxAge: maxAge, now: time.Now}, nil
}

// WithClock reemplaza el reloj del codec (tests).
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// MaxAge vida máxima de la credencial.
func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}

// Encode firma los claims. Si IssuedAt es cero se usa el reloj del codec.
func (c *Codec) Encode(claims Claims) (string, error) {
	if claims.UserID == "" {
		return "", fmt.Errorf("session: userId vacío")
	}
	issued := claims.IssuedAt
	if issued.IsZero() {
		issued = c.now()
	}
	issued = issued.Truncate(time.Millisecond)
	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.maxAge)),
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		IsSuperAdmin: claims.IsSuperAdmin,
		ClientID:     claims.ClientID,
		Timestamp:    issued.UnixMilli(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tc)
	return token.SignedString(c.secret)
}

// Decode verifica firma, algoritmo, emisor y exp; devuelve ErrMalformed o ErrExpired.
func (c *Codec) Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	token, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || tc.UserID == "" || tc.UserID != tc.Subject || tc.Timestamp <= 0 {
		return nil, ErrMalformed
	}
	return &Claims{
		UserID:       tc.UserID,
		Email:        tc.Email,
		Role:         tc.Role,
		IsSuperAdmin: tc.IsSuperAdmin,
		ClientID:     tc.ClientID,
		IssuedAt:     time.UnixMilli(tc.Timestamp),
	}, nil
}

// IsExpired informa si now - IssuedAt >= ttl. Cada punto de uso pasa su propio TTL configurado.
func IsExpired(claims *Claims, ttl time.Duration, now time.Time) bool {
	if claims == nil {
		return true
	}
	return now.Sub(claims.IssuedAt) >= ttl
}
