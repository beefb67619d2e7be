package postgres

import (
	"context"
	"errors"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// applicationRepo writes job_applicants (job side) and user_applications (user side)
// together. The job side is authoritative when the two disagree.
type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts both records with status applied, or neither.
func (r *applicationRepo) Create(ctx context.Context, userID string, jobID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the job row so a concurrent delete cannot interleave
	var exists int
	err = tx.QueryRow(ctx, `SELECT 1 FROM jobs WHERE id = $1 FOR SHARE`, jobID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	now := time.Now()
	result, err := tx.Exec(ctx, `
		INSERT INTO job_applicants (job_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (job_id, user_id) DO NOTHING`,
		jobID, userID, domain.ApplicationStatusApplied, now,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAlreadyApplied
	}

	result, err = tx.Exec(ctx, `
		INSERT INTO user_applications (user_id, job_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, job_id) DO NOTHING`,
		userID, jobID, domain.ApplicationStatusApplied, now,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAlreadyApplied
	}

	return tx.Commit(ctx)
}

// UpdateStatus sets status on the job side, then mirrors it onto the user side.
// A missing user-side record is inserted and reported through MirrorRepaired.
func (r *applicationRepo) UpdateStatus(ctx context.Context, jobID int64, userID, status string) (*domain.StatusUpdate, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	var update domain.StatusUpdate
	rec := &update.Applicant
	err = tx.QueryRow(ctx, `
		UPDATE job_applicants SET status = $3, updated_at = $4
		WHERE job_id = $1 AND user_id = $2
		RETURNING job_id, user_id, status, created_at, updated_at`,
		jobID, userID, status, now,
	).Scan(&rec.JobID, &rec.UserID, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, err
	}

	result, err := tx.Exec(ctx, `
		UPDATE user_applications SET status = $3, updated_at = $4
		WHERE user_id = $1 AND job_id = $2`,
		userID, jobID, status, now,
	)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO user_applications (user_id, job_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)`,
			userID, jobID, status, rec.CreatedAt, now,
		)
		if err != nil {
			return nil, err
		}
		update.MirrorRepaired = true
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &update, nil
}

// GetByJobID lists the job-side records with applicant details, in apply order
func (r *applicationRepo) GetByJobID(ctx context.Context, jobID int64) ([]domain.ApplicantRecord, error) {
	query := `
		SELECT
			a.job_id, a.user_id, a.status, a.created_at, a.updated_at,
			u.name, u.email, COALESCE(u.skills, '{}') AS skills, u.resume
		FROM job_applicants a
		LEFT JOIN users u ON a.user_id = u.id
		WHERE a.job_id = $1
		ORDER BY a.position ASC`

	applicants := []domain.ApplicantRecord{}
	if err := pgxscan.Select(ctx, r.db, &applicants, query, jobID); err != nil {
		return nil, err
	}
	return applicants, nil
}

// GetByUserID lists the user-side records with job summaries, newest first
func (r *applicationRepo) GetByUserID(ctx context.Context, userID string) ([]domain.ApplicationRecord, error) {
	query := `
		SELECT
			a.user_id, a.job_id, a.status, a.created_at, a.updated_at,
			j.title AS job_title, j.company AS job_company, j.location AS job_location
		FROM user_applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC`

	applications := []domain.ApplicationRecord{}
	if err := pgxscan.Select(ctx, r.db, &applications, query, userID); err != nil {
		return nil, err
	}
	return applications, nil
}

// FindIntegrityIssues compares both sides pair by pair.
func (r *applicationRepo) FindIntegrityIssues(ctx context.Context) ([]domain.IntegrityIssue, int, error) {
	query := `
		SELECT
			COALESCE(ja.job_id, ua.job_id) AS job_id,
			COALESCE(ja.user_id, ua.user_id) AS user_id,
			ja.status AS job_status,
			ua.status AS user_status
		FROM job_applicants ja
		FULL OUTER JOIN user_applications ua
			ON ja.job_id = ua.job_id AND ja.user_id = ua.user_id
		WHERE ja.job_id IS NULL OR ua.job_id IS NULL OR ja.status <> ua.status
		ORDER BY 1, 2`

	issues := []domain.IntegrityIssue{}
	if err := pgxscan.Select(ctx, r.db, &issues, query); err != nil {
		return nil, 0, err
	}

	var checked int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM job_applicants ja
		FULL OUTER JOIN user_applications ua
			ON ja.job_id = ua.job_id AND ja.user_id = ua.user_id`).Scan(&checked)
	if err != nil {
		return nil, 0, err
	}
	return issues, checked, nil
}

// Repair makes the user side match the job side for one pair.
func (r *applicationRepo) Repair(ctx context.Context, issue domain.IntegrityIssue) error {
	if issue.JobStatus == nil {
		_, err := r.db.Exec(ctx,
			`DELETE FROM user_applications WHERE user_id = $1 AND job_id = $2`,
			issue.UserID, issue.JobID,
		)
		return err
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO user_applications (user_id, job_id, status, created_at, updated_at)
		SELECT user_id, job_id, status, created_at, $3
		FROM job_applicants WHERE job_id = $2 AND user_id = $1
		ON CONFLICT (user_id, job_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`,
		issue.UserID, issue.JobID, time.Now(),
	)
	return err
}
