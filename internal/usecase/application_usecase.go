package usecase

import (
	"context"
	"fmt"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/policy"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/audit"
	"go-jobboard-backend/pkg/logger"
)

const defaultExportFormat = "xlsx"

type applicationUsecase struct {
	appRepo domain.ApplicationRepository
	jobRepo domain.JobRepository
	authz   *policy.Authorizer
	writers map[string]domain.ShortlistWriter
	audit   *audit.Logger
}

func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	authz *policy.Authorizer,
	writers map[string]domain.ShortlistWriter,
	auditLog *audit.Logger,
) domain.ApplicationUsecase {
	if auditLog == nil {
		auditLog = audit.Default()
	}
	return &applicationUsecase{
		appRepo: appRepo,
		jobRepo: jobRepo,
		authz:   authz,
		writers: writers,
		audit:   auditLog,
	}
}

func (u *applicationUsecase) Apply(ctx context.Context, p domain.Principal, jobID int64) error {
	if err := u.authz.Authorize(p, policy.ActionApply, ""); err != nil {
		return err
	}
	if err := u.appRepo.Create(ctx, p.ID, jobID); err != nil {
		return translate(err, "Job not found")
	}

	u.audit.Log(ctx, audit.Event{
		Type:    audit.EventApplicationCreated,
		ActorID: p.ID,
		Details: map[string]interface{}{"job_id": jobID},
	})
	return nil
}

func (u *applicationUsecase) ListApplied(ctx context.Context, p domain.Principal) ([]domain.ApplicationRecord, error) {
	if err := u.authz.Authorize(p, policy.ActionListApplications, ""); err != nil {
		return nil, err
	}
	apps, err := u.appRepo.GetByUserID(ctx, p.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// loadOwnedJob rejects the wrong role before any read, then checks ownership.
func (u *applicationUsecase) loadOwnedJob(ctx context.Context, p domain.Principal, action policy.Action, jobID int64) (*domain.Job, error) {
	if err := u.authz.CheckRole(p, action); err != nil {
		return nil, err
	}
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, translate(err, "Job not found")
	}
	if err := u.authz.Authorize(p, action, job.RecruiterID); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *applicationUsecase) ListApplicants(ctx context.Context, p domain.Principal, jobID int64) (*domain.JobApplicants, error) {
	job, err := u.loadOwnedJob(ctx, p, policy.ActionViewApplicants, jobID)
	if err != nil {
		return nil, err
	}
	applicants, err := u.appRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.JobApplicants{JobID: job.ID, Title: job.Title, Applicants: applicants}, nil
}

// UpdateApplicantStatus changes the status on both records. A missing
// user-side record is recreated and reported as an integrity warning.
func (u *applicationUsecase) UpdateApplicantStatus(ctx context.Context, p domain.Principal, jobID int64, userID, status string) (*domain.ApplicantRecord, error) {
	if err := u.authz.CheckRole(p, policy.ActionUpdateApplicant); err != nil {
		return nil, err
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if !domain.IsValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Status must be one of: applied, shortlisted, rejected")
	}
	if _, err := u.loadOwnedJob(ctx, p, policy.ActionUpdateApplicant, jobID); err != nil {
		return nil, err
	}

	result, err := u.appRepo.UpdateStatus(ctx, jobID, userID, status)
	if err != nil {
		return nil, translate(err, "Job not found")
	}

	if result.MirrorRepaired {
		logger.Log.Warn("application mirror was missing and has been recreated",
			"job_id", jobID, "user_id", userID, "status", status)
		u.audit.IntegrityWarning(ctx, jobID, userID, domain.IssueMissingMirror, true)
	}
	u.audit.Log(ctx, audit.Event{
		Type:    audit.EventStatusChanged,
		ActorID: p.ID,
		Details: map[string]interface{}{"job_id": jobID, "user_id": userID, "status": status},
	})
	return &result.Applicant, nil
}

// ShortlistRows keeps shortlisted applicants in storage order.
func ShortlistRows(applicants []domain.ApplicantRecord) []domain.ShortlistRow {
	rows := make([]domain.ShortlistRow, 0, len(applicants))
	for _, a := range applicants {
		if a.Status != domain.ApplicationStatusShortlisted {
			continue
		}
		rows = append(rows, domain.ShortlistRow{
			Name:      deref(a.Name),
			Email:     deref(a.Email),
			ResumeURL: deref(a.Resume),
		})
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (u *applicationUsecase) ExportShortlisted(ctx context.Context, p domain.Principal, jobID int64, format string) (*domain.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = defaultExportFormat
	}
	writer, ok := u.writers[format]
	if !ok {
		return nil, apperror.BadRequest("Unsupported export format: " + format)
	}

	if _, err := u.loadOwnedJob(ctx, p, policy.ActionExportShortlist, jobID); err != nil {
		return nil, err
	}
	applicants, err := u.appRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	rows := ShortlistRows(applicants)
	data, err := writer.WriteShortlist(rows)
	if err != nil {
		return nil, apperror.Upstream("Failed to generate shortlist export", err)
	}

	u.audit.Log(ctx, audit.Event{
		Type:    audit.EventShortlistExported,
		ActorID: p.ID,
		Details: map[string]interface{}{"job_id": jobID, "rows": len(rows), "format": format},
	})
	return &domain.ExportFile{
		Filename:    fmt.Sprintf("shortlisted_%d.%s", jobID, writer.Extension()),
		ContentType: writer.ContentType(),
		Data:        data,
	}, nil
}

// Reconcile rewrites every user-side record from its job-side record and drops
// user-side records with no job-side counterpart. dryRun only reports.
func (u *applicationUsecase) Reconcile(ctx context.Context, dryRun bool) (*domain.ReconcileReport, error) {
	issues, checked, err := u.appRepo.FindIntegrityIssues(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	report := &domain.ReconcileReport{Checked: checked, DryRun: dryRun, Issues: issues}
	for _, issue := range issues {
		if dryRun {
			u.audit.IntegrityWarning(ctx, issue.JobID, issue.UserID, issue.Kind(), false)
			continue
		}
		if err := u.appRepo.Repair(ctx, issue); err != nil {
			logger.Log.Error("reconcile repair failed", "job_id", issue.JobID, "user_id", issue.UserID, "error", err)
			return report, apperror.Internal(err)
		}
		report.Repaired++
		u.audit.IntegrityWarning(ctx, issue.JobID, issue.UserID, issue.Kind(), true)
	}

	logger.Log.Info("reconcile finished", "checked", checked, "issues", len(issues), "repaired", report.Repaired, "dry_run", dryRun)
	return report, nil
}
