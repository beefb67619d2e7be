package postgres

import (
	"context"

	"go-jobboard-backend/internal/domain"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const jobColumns = `id, title, description, experience_required, location, company, salary,
	skills_required, recruiter_id, created_at, updated_at`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (title, description, experience_required, location, company, salary, skills_required, recruiter_id, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7::text[], $8, $9, $10) RETURNING id`
	return r.db.QueryRow(ctx, query,
		job.Title, job.Description, job.ExperienceRequired, job.Location, job.Company, job.Salary,
		pq.Array(job.SkillsRequired), job.RecruiterID, job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	var job domain.Job
	err := pgxscan.Get(ctx, r.db, &job, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET
		title = $2,
		description = $3,
		experience_required = $4,
		location = $5,
		company = $6,
		salary = $7,
		skills_required = $8::text[],
		updated_at = $9
	WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.ExperienceRequired, job.Location, job.Company,
		job.Salary, pq.Array(job.SkillsRequired), job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the job and every application row on both sides in one transaction.
func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_applications WHERE job_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM job_applicants WHERE job_id = $1`, id); err != nil {
		return err
	}
	result, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

// FetchByRecruiter retrieves jobs posted by one recruiter, newest first
func (r *jobRepo) FetchByRecruiter(ctx context.Context, recruiterID string) ([]domain.Job, error) {
	jobs := []domain.Job{}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE recruiter_id = $1 ORDER BY created_at DESC, id DESC`
	if err := pgxscan.Select(ctx, r.db, &jobs, query, recruiterID); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepo) Search(ctx context.Context, filter domain.JobSearchFilter) ([]domain.Job, error) {
	query, args := buildSearchQuery(filter)
	jobs := []domain.Job{}
	if err := pgxscan.Select(ctx, r.db, &jobs, query, args...); err != nil {
		return nil, err
	}
	return jobs, nil
}

// FetchBySkillOverlap is the storage prefilter for ranking: any shared skill, creation order.
func (r *jobRepo) FetchBySkillOverlap(ctx context.Context, skills []string) ([]domain.Job, error) {
	jobs := []domain.Job{}
	if len(skills) == 0 {
		return jobs, nil
	}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE skills_required && $1::text[] ORDER BY created_at ASC, id ASC`
	if err := pgxscan.Select(ctx, r.db, &jobs, query, pq.Array(skills)); err != nil {
		return nil, err
	}
	return jobs, nil
}
