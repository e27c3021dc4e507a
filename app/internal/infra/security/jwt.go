package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/auth"
)

var ErrInvalidToken = errors.New("invalid session token")

type JWTService struct {
	secret     []byte
	expiration time.Duration
}

func NewJWTService(secret string, expiration time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

type jwtClaims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken signs c with HS256. The session id travels as the token id.
func (s *JWTService) GenerateToken(c authuc.Claims) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        c.SessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseToken(token string) (*authuc.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return &authuc.Claims{
		SessionID: claims.ID,
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
	}, nil
}
