package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken is returned for malformed, forged or expired JWTs.
var ErrInvalidToken = errors.New("invalid token")

type JWTUtil struct {
	secretKey  string
	expiration time.Duration
	now        func() time.Time
}

func NewJWTUtil(secretKey string, expiration time.Duration) *JWTUtil {
	return &JWTUtil{
		secretKey:  secretKey,
		expiration: expiration,
		now:        time.Now,
	}
}

// Claims identify the logged-in user.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

// IsAdmin reports whether the token carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}

func (j *JWTUtil) GenerateToken(id int64, username, role string) (string, error) {
	now := j.now()
	claims := &Claims{
		ID:       id,
		Username: username,
		Role:     role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(j.expiration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "sayabantu",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *JWTUtil) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
