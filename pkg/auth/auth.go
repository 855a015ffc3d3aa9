package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Config struct {
	SigningKey string        `envconfig:"JWT_KEY" json:"-"`
	TokenTTL   time.Duration `envconfig:"JWT_TTL" default:"45m"`
}

// User roles, mirrored in users.user_type.
const (
	RoleStudent = 1
	RoleStaff   = 2
	RoleAdmin   = 3
)

type Identity struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	Role   int    `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type Claims struct {
	Profile Identity `json:"profile"`
	jwt.RegisteredClaims
}

type ctxKey int

const identityKey ctxKey = iota + 1

func SetAuthContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok {
		return Identity{}, errors.New("no identity in context")
	}
	return id, nil
}

// NewToken signs an HS256 access token for the given identity.
func NewToken(key []byte, id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Profile: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(key []byte, tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
