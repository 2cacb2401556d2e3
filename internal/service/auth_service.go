package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ngo-case-service/internal/auth"
	"github.com/spec-kit/ngo-case-service/internal/domain"
	"github.com/spec-kit/ngo-case-service/internal/repository"
	apperrors "github.com/spec-kit/ngo-case-service/pkg/util/errorutil"
)

// ErrInvalidCredentials is the only login failure surfaced to callers.
var ErrInvalidCredentials = errors.New("invalid email or password")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LoginResult carries a signed token for an authenticated worker.
type LoginResult struct {
	Worker    *domain.Worker
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates login and worker lookups.
type AuthService struct {
	workers   repository.WorkerRepository
	tokenMgr  *auth.TokenManager
	passwords *auth.PasswordChecker
	logger    *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	WorkerRepo repository.WorkerRepository
	Tokens     *auth.TokenManager
	Passwords  *auth.PasswordChecker
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		workers:   deps.WorkerRepo,
		tokenMgr:  deps.Tokens,
		passwords: deps.Passwords,
		logger:    logger,
	}
}

// Login authenticates a worker by email and password. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	worker, err := s.workers.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Info("login rejected", zap.String("reason", "unknown email"))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := s.passwords.Compare(worker.Password, password); err != nil {
		s.logger.Info("login rejected", zap.Int64("worker_id", worker.ID), zap.String("reason", "password mismatch"))
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.Issue(worker)
	if err != nil {
		return nil, err
	}
	s.logger.Info("login succeeded", zap.Int64("worker_id", worker.ID))
	return &LoginResult{Worker: worker, Token: token, ExpiresAt: exp}, nil
}

// VerifyEmail reports whether a worker is registered under email.
func (s *AuthService) VerifyEmail(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, apperrors.NewValidationError("email is required", nil)
	}
	if !emailPattern.MatchString(email) {
		return false, apperrors.NewValidationError("email is malformed", map[string]any{"email": email})
	}

	_, err := s.workers.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Me returns the worker a verified token was issued to.
func (s *AuthService) Me(ctx context.Context, workerID int64) (*domain.Worker, error) {
	return s.workers.FindWorker(ctx, workerID)
}

// ListWorkers returns every worker account.
func (s *AuthService) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	return s.workers.List(ctx)
}
