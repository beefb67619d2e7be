package usecase

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/audit"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"
)

// resumeUploader validates a resume and pushes it to blob storage.
type resumeUploader struct {
	store    domain.ResumeStore
	maxBytes int
	scanner  ResumeScanner
}

func (r resumeUploader) upload(ctx context.Context, ownerID string, file *domain.ResumeUpload) (*string, error) {
	if file == nil {
		return nil, nil
	}
	if r.store == nil {
		return nil, apperror.Upstream("Resume storage is not configured", nil)
	}

	contentType, err := security.ValidateResume(file.Filename, file.Data, r.maxBytes)
	if err != nil {
		var fvErr *security.FileValidationError
		if errors.As(err, &fvErr) {
			audit.Default().Log(ctx, audit.Event{
				Type:    audit.EventUploadRejected,
				ActorID: ownerID,
				Details: map[string]interface{}{"reason": fvErr.Reason},
			})
			return nil, apperror.BadRequest("Invalid resume: " + fvErr.Reason)
		}
		return nil, apperror.Internal(err)
	}

	if r.scanner != nil {
		res := r.scanner.Scan(ctx, file.Filename, file.Data)
		if res.Err != nil {
			logger.Log.Error("resume scan failed", "owner_id", ownerID, "error", res.Err)
			return nil, apperror.Upstream("Resume could not be scanned. Please try again later.", res.Err)
		}
		if res.Infected {
			audit.Default().Log(ctx, audit.Event{
				Type:    audit.EventUploadRejected,
				ActorID: ownerID,
				Details: map[string]interface{}{"reason": "malware", "threat": res.ThreatName},
			})
			return nil, apperror.BadRequest("Invalid resume: file failed the malware scan")
		}
	}

	upload := *file
	upload.ContentType = contentType
	url, err := r.store.Upload(ctx, ownerID, upload)
	if err != nil {
		return nil, apperror.Upstream("Failed to upload resume", err)
	}
	return &url, nil
}
