package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AdminTokenService issues and validates the HS256 tokens that gate
// destructive endpoints (assessment deletion). Tokens are minted out-of-band
// by operators; there is no refresh flow.
type AdminTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("admin token invalid")
	ErrTokenExpired = errors.New("admin token expired")
)

const adminRole = "admin"

func NewAdminTokenService(secret string, ttl time.Duration) *AdminTokenService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "workload-tlx",
	}
}

// Generate signs a token for the given operator subject.
func (s *AdminTokenService) Generate(subject string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := AdminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates signature, expiry, issuer and role.
func (s *AdminTokenService) Parse(tokenString string) (AdminClaims, error) {
	if len(s.secret) == 0 {
		return AdminClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return AdminClaims{}, ErrTokenInvalid
	}
	var claims AdminClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AdminClaims{}, ErrTokenExpired
		}
		return AdminClaims{}, ErrTokenInvalid
	}
	if claims.Role != adminRole {
		return AdminClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return AdminClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Issuer) != s.issuer {
		return AdminClaims{}, ErrTokenInvalid
	}
	return claims, nil
}
