package user

import (
	"context"
	"errors"
	"strings"

	dom "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
)

var ErrInvalidPasswordHash = errors.New("admin password must be given as a bcrypt hash")

type Service struct {
	repo   dom.Repository
	isHash func(string) bool
}

// NewService builds the account service. isHash tells a stored password
// hash apart from a plain password.
func NewService(repo dom.Repository, isHash func(string) bool) *Service {
	return &Service{repo: repo, isHash: isHash}
}

type AdminAccount struct {
	Name         string
	Email        string
	PasswordHash string
}

// EnsureAdmin creates the admin account unless one with the same email
// already exists. It reports whether an account was created. An empty
// email is a no-op.
func (s *Service) EnsureAdmin(ctx context.Context, in AdminAccount) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		logx.Warn().Msg("no admin account configured")
		return false, nil
	}
	if !s.isHash(in.PasswordHash) {
		return false, ErrInvalidPasswordHash
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, dom.ErrUserNotFound) {
		return false, err
	}

	_, err = s.repo.Create(ctx, &dom.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: in.PasswordHash,
	})
	if errors.Is(err, dom.ErrEmailAlreadyUsed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	logx.Info().Str("email", email).Msg("admin account created")
	return true, nil
}
