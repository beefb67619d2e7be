package usecase

import (
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

// translate maps domain sentinel errors onto HTTP-facing AppErrors.
// Errors that are already AppErrors pass through untouched.
func translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(notFoundMsg)
	case errors.Is(err, domain.ErrApplicantNotFound):
		return apperror.NotFound("Applicant not found")
	case errors.Is(err, domain.ErrAlreadyApplied):
		return apperror.Conflict("You have already applied to this job")
	case errors.Is(err, domain.ErrEmailTaken):
		return apperror.Conflict("User with this email already exists")
	}
	return apperror.Internal(err)
}
