package usecase

import (
	"context"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type userUsecase struct {
	userRepo domain.UserRepository
	appRepo  domain.ApplicationRepository
	resumes  resumeUploader
}

func NewUserUsecase(userRepo domain.UserRepository, appRepo domain.ApplicationRepository, resumes domain.ResumeStore, resumeMaxBytes int, opts ...Option) domain.UserUsecase {
	o := buildOptions(opts)
	return &userUsecase{
		userRepo: userRepo,
		appRepo:  appRepo,
		resumes:  resumeUploader{store: resumes, maxBytes: resumeMaxBytes, scanner: o.scanner},
	}
}

// GetMe returns the caller's full record including the applications they made.
func (u *userUsecase) GetMe(ctx context.Context, p domain.Principal) (*domain.User, error) {
	if !p.Authenticated() {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	user, err := u.userRepo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, translate(err, "User not found")
	}

	apps, err := u.appRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	user.AppliedJobs = apps
	return user, nil
}

func (u *userUsecase) GetPublicProfile(ctx context.Context, id string) (*domain.PublicProfile, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "User not found")
	}
	return user.Public(), nil
}

func (u *userUsecase) UpdateProfile(ctx context.Context, p domain.Principal, update domain.ProfileUpdate) (*domain.User, error) {
	if !p.Authenticated() {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	user, err := u.userRepo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, translate(err, "User not found")
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperror.BadRequest("Name cannot be empty")
		}
		user.Name = name
	}
	if update.Skills != nil {
		user.Skills = domain.NormalizeSkills(update.Skills)
	}
	if update.Resume != nil {
		if user.Resume, err = u.resumes.upload(ctx, user.ID, update.Resume); err != nil {
			return nil, err
		}
	}

	user.UpdatedAt = time.Now()
	if err := u.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, translate(err, "User not found")
	}
	return user, nil
}
