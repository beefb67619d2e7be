package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/audit"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/logger"

	"github.com/google/uuid"
)

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	resumes  resumeUploader
	audit    *audit.Logger
	guard    LoginGuard
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens *auth.TokenManager, resumes domain.ResumeStore, resumeMaxBytes int, auditLog *audit.Logger, opts ...Option) domain.AuthUsecase {
	if auditLog == nil {
		auditLog = audit.Default()
	}
	o := buildOptions(opts)
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		resumes:  resumeUploader{store: resumes, maxBytes: resumeMaxBytes, scanner: o.scanner},
		audit:    auditLog,
		guard:    o.loginGuard,
	}
}

func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperror.BadRequest("Name, email and password are required")
	}
	if !domain.IsValidRole(input.Role) {
		return nil, apperror.BadRequest("Role must be applicant or recruiter")
	}

	if _, err := u.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Conflict("User with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Skills:       domain.NormalizeSkills(input.Skills),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if user.Resume, err = u.resumes.upload(ctx, user.ID, input.Resume); err != nil {
		return nil, err
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, translate(err, "User not found")
	}

	return u.issue(user)
}

func (u *authUsecase) Login(ctx context.Context, email, password, role string) (*domain.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if u.guard != nil {
		blocked, err := u.guard.IsBlocked(ctx, email)
		if err != nil {
			logger.Log.Warn("login block check degraded", "error", err)
		}
		if blocked {
			u.audit.LoginFailed(ctx, email, "", "blocked")
			return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
		}
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.recordFailure(ctx, email, "unknown_email")
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, apperror.Internal(err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		u.recordFailure(ctx, email, "bad_password")
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	if u.guard != nil {
		if err := u.guard.Clear(ctx, email); err != nil {
			logger.Log.Warn("failed to clear login failures", "error", err)
		}
	}

	if role != "" && role != user.Role {
		u.audit.LoginFailed(ctx, email, "", "role_mismatch")
		return nil, apperror.Forbidden("Account is not registered as " + role)
	}

	u.audit.Log(ctx, audit.Event{Type: audit.EventLoginSuccess, ActorID: user.ID})
	return u.issue(user)
}

func (u *authUsecase) recordFailure(ctx context.Context, email, reason string) {
	u.audit.LoginFailed(ctx, email, "", reason)
	if u.guard == nil {
		return
	}
	blocked, err := u.guard.RecordFailure(ctx, email)
	if err != nil {
		logger.Log.Warn("failed to record login failure", "error", err)
		return
	}
	if blocked {
		u.audit.LoginFailed(ctx, email, "", "lockout_started")
	}
}

func (u *authUsecase) issue(user *domain.User) (*domain.AuthResult, error) {
	access, err := u.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	refresh, err := u.tokens.IssueRefresh(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperror.Unauthorized("Refresh token missing")
	}
	claims, err := u.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", apperror.Unauthorized("Invalid or expired refresh token")
	}

	user, err := u.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", apperror.Unauthorized("User no longer exists")
		}
		return "", apperror.Internal(err)
	}

	access, err := u.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return access, nil
}

// Authenticate resolves an access token to the stored user.
func (u *authUsecase) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := u.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}

	user, err := u.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
