package usecase

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/matching"
	"go-jobboard-backend/internal/policy"
	"go-jobboard-backend/pkg/apperror"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
	authz   *policy.Authorizer
}

func NewJobUsecase(jobRepo domain.JobRepository, authz *policy.Authorizer) domain.JobUsecase {
	return &jobUsecase{
		jobRepo: jobRepo,
		authz:   authz,
	}
}

func (u *jobUsecase) CreateJob(ctx context.Context, p domain.Principal, input domain.JobInput) (*domain.Job, error) {
	if err := u.authz.Authorize(p, policy.ActionCreateJob, ""); err != nil {
		return nil, err
	}

	job := &domain.Job{RecruiterID: p.ID}
	input.Apply(job)
	if job.Title == "" {
		return nil, apperror.BadRequest("Title is required")
	}
	if job.SkillsRequired == nil {
		job.SkillsRequired = []string{}
	}

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Job not found")
	}
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, p domain.Principal, id int64, input domain.JobInput) (*domain.Job, error) {
	if err := u.authz.CheckRole(p, policy.ActionUpdateJob); err != nil {
		return nil, err
	}
	job, err := u.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.authz.Authorize(p, policy.ActionUpdateJob, job.RecruiterID); err != nil {
		return nil, err
	}

	input.Apply(job)
	if job.Title == "" {
		return nil, apperror.BadRequest("Title cannot be empty")
	}
	job.UpdatedAt = time.Now()

	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, translate(err, "Job not found")
	}
	return job, nil
}

// DeleteJob removes the job together with every application record pointing at it.
func (u *jobUsecase) DeleteJob(ctx context.Context, p domain.Principal, id int64) error {
	if err := u.authz.CheckRole(p, policy.ActionDeleteJob); err != nil {
		return err
	}
	job, err := u.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if err := u.authz.Authorize(p, policy.ActionDeleteJob, job.RecruiterID); err != nil {
		return err
	}
	return translate(u.jobRepo.Delete(ctx, id), "Job not found")
}

func (u *jobUsecase) ListMyJobs(ctx context.Context, p domain.Principal) ([]domain.Job, error) {
	if err := u.authz.Authorize(p, policy.ActionListOwnJobs, ""); err != nil {
		return nil, err
	}
	jobs, err := u.jobRepo.FetchByRecruiter(ctx, p.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

func (u *jobUsecase) Search(ctx context.Context, filter domain.JobSearchFilter) ([]domain.Job, error) {
	jobs, err := u.jobRepo.Search(ctx, filter.Normalize())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

// FindRelevant ranks jobs by how many of userSkills they require. An empty
// skill set yields an empty result without touching storage.
func (u *jobUsecase) FindRelevant(ctx context.Context, userSkills []string) ([]domain.RankedJob, error) {
	skills := domain.NormalizeSkills(userSkills)
	if len(skills) == 0 {
		return []domain.RankedJob{}, nil
	}

	candidates, err := u.jobRepo.FetchBySkillOverlap(ctx, skills)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return matching.Rank(candidates, skills), nil
}
