package domain

import (
	"context"
	"errors"
	"time"
)

// Application status constants
const (
	ApplicationStatusApplied     = "applied"
	ApplicationStatusShortlisted = "shortlisted"
	ApplicationStatusRejected    = "rejected"
)

var (
	ErrAlreadyApplied    = errors.New("already applied to this job")
	ErrApplicantNotFound = errors.New("applicant not found")
)

func IsValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusApplied, ApplicationStatusShortlisted, ApplicationStatusRejected:
		return true
	}
	return false
}

// ApplicantRecord is the job-side entry: a job pointing at a user who applied.
type ApplicantRecord struct {
	JobID     int64     `json:"job_id" db:"job_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined applicant data for list responses
	Name   *string  `json:"name,omitempty" db:"name"`
	Email  *string  `json:"email,omitempty" db:"email"`
	Skills []string `json:"skills,omitempty" db:"skills"`
	Resume *string  `json:"resume,omitempty" db:"resume"`
}

// ApplicationRecord is the user-side mirror: a user pointing at a job.
type ApplicationRecord struct {
	UserID    string    `json:"user_id" db:"user_id"`
	JobID     int64     `json:"job_id" db:"job_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined job data, nil when the job no longer exists
	JobTitle    *string `json:"job_title,omitempty" db:"job_title"`
	JobCompany  *string `json:"job_company,omitempty" db:"job_company"`
	JobLocation *string `json:"job_location,omitempty" db:"job_location"`
}

type JobApplicants struct {
	JobID      int64             `json:"job_id"`
	Title      string            `json:"title"`
	Applicants []ApplicantRecord `json:"applicants"`
}

// StatusUpdate is the outcome of a synchronized status change.
type StatusUpdate struct {
	Applicant ApplicantRecord
	// MirrorRepaired is set when the user-side record was missing and had to be inserted.
	MirrorRepaired bool
}

// Integrity issue kinds found by reconciliation
const (
	IssueMissingMirror  = "missing_user_record"
	IssueStatusMismatch = "status_mismatch"
	IssueOrphanMirror   = "orphan_user_record"
)

// IntegrityIssue describes one (user, job) pair whose two records disagree.
// JobStatus is nil when only the user-side record exists; UserStatus is nil
// when only the job-side record exists.
type IntegrityIssue struct {
	JobID      int64   `json:"job_id" db:"job_id"`
	UserID     string  `json:"user_id" db:"user_id"`
	JobStatus  *string `json:"job_status" db:"job_status"`
	UserStatus *string `json:"user_status" db:"user_status"`
}

func (i IntegrityIssue) Kind() string {
	switch {
	case i.JobStatus == nil:
		return IssueOrphanMirror
	case i.UserStatus == nil:
		return IssueMissingMirror
	default:
		return IssueStatusMismatch
	}
}

type ReconcileReport struct {
	Checked  int              `json:"checked"`
	Repaired int              `json:"repaired"`
	DryRun   bool             `json:"dry_run"`
	Issues   []IntegrityIssue `json:"issues"`
}

// ShortlistRow is one line of the shortlisted-applicants export.
type ShortlistRow struct {
	Name      string
	Email     string
	ResumeURL string
}

// ApplicationRepository keeps the job-side and user-side records in step.
// Every write touches both sides inside one transaction.
type ApplicationRepository interface {
	// Create inserts both records with status applied. Returns ErrNotFound when the
	// job does not exist and ErrAlreadyApplied when either record already exists.
	Create(ctx context.Context, userID string, jobID int64) error
	// UpdateStatus sets the status on both sides, inserting a missing user-side record.
	// Returns ErrApplicantNotFound when the job-side record does not exist.
	UpdateStatus(ctx context.Context, jobID int64, userID, status string) (*StatusUpdate, error)
	GetByJobID(ctx context.Context, jobID int64) ([]ApplicantRecord, error)
	GetByUserID(ctx context.Context, userID string) ([]ApplicationRecord, error)
	// FindIntegrityIssues also returns how many (user, job) pairs were inspected.
	FindIntegrityIssues(ctx context.Context) ([]IntegrityIssue, int, error)
	// Repair rewrites the user-side record from the job side, or removes an orphan.
	Repair(ctx context.Context, issue IntegrityIssue) error
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ShortlistWriter renders the shortlisted rows as a downloadable spreadsheet.
type ShortlistWriter interface {
	WriteShortlist(rows []ShortlistRow) ([]byte, error)
	Extension() string
	ContentType() string
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, p Principal, jobID int64) error
	ListApplied(ctx context.Context, p Principal) ([]ApplicationRecord, error)
	ListApplicants(ctx context.Context, p Principal, jobID int64) (*JobApplicants, error)
	UpdateApplicantStatus(ctx context.Context, p Principal, jobID int64, userID, status string) (*ApplicantRecord, error)
	// ExportShortlisted renders the shortlist in format ("xlsx" or "csv") and returns the file and its name.
	ExportShortlisted(ctx context.Context, p Principal, jobID int64, format string) (*ExportFile, error)
	Reconcile(ctx context.Context, dryRun bool) (*ReconcileReport, error)
}
