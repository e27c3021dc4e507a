package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
)

type PasswordComparer interface {
	Compare(hash string, password string) error
}

// Claims is what a session token carries.
type Claims struct {
	SessionID string
	UserID    int64
	Email     string
	Name      string
}

type TokenService interface {
	GenerateToken(c Claims) (string, error)
	ParseToken(token string) (*Claims, error)
}

// Limiter counts failed sign-ins per key.
type Limiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type Service struct {
	userRepo domuser.Repository
	checker  PasswordComparer
	tokens   TokenService
	limiter  Limiter
	validate *validator.Validate
}

func NewService(
	userRepo domuser.Repository,
	checker PasswordComparer,
	tokens TokenService,
	limiter Limiter,
) *Service {
	return &Service{
		userRepo: userRepo,
		checker:  checker,
		tokens:   tokens,
		limiter:  limiter,
		validate: validator.New(),
	}
}

type SignInResult struct {
	Token string
	User  *domuser.User
}

// SignIn checks the credentials and, on success, flips session to
// authenticated and notifies its observers.
func (s *Service) SignIn(ctx context.Context, session *Session, email, password string) (*SignInResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, domuser.ErrMissingFields
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, domuser.ErrInvalidEmail
	}

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, email)
		if err != nil {
			logx.Warn().Err(err).Msg("sign-in limiter unavailable")
		} else if blocked {
			return nil, domuser.ErrTooManyRequests
		}
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domuser.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, domuser.ErrInvalidCredential
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := s.checker.Compare(u.PasswordHash, password); err != nil {
		s.recordFailure(ctx, email)
		return nil, domuser.ErrInvalidCredential
	}

	token, err := s.tokens.GenerateToken(Claims{
		SessionID: session.ID(),
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
	})
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			logx.Warn().Err(err).Msg("reset sign-in limiter")
		}
	}

	session.set(u)
	logx.Info().Str("session", session.ID()).Int64("user_id", u.ID).Msg("admin signed in")

	return &SignInResult{Token: token, User: u}, nil
}

func (s *Service) SignOut(session *Session) {
	session.set(nil)
}

// Resume rebuilds an authenticated session from a token issued by SignIn.
// The account must still exist.
func (s *Service) Resume(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil || claims == nil || claims.SessionID == "" {
		return nil, domuser.ErrUnauthorized
	}

	u, err := s.userRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, domuser.ErrUserNotFound) {
			return nil, domuser.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	session := NewSession(claims.SessionID)
	session.set(u)
	return session, nil
}

// ParseToken exposes the session id a token belongs to.
func (s *Service) ParseToken(token string) (*Claims, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil || claims == nil {
		return nil, domuser.ErrUnauthorized
	}
	return claims, nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		logx.Warn().Err(err).Msg("record failed sign-in")
	}
}
