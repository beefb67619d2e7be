package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

type Job struct {
	ID                 int64     `json:"id" db:"id"`
	Title              string    `json:"title" db:"title"`
	Description        string    `json:"description" db:"description"`
	ExperienceRequired string    `json:"experience_required" db:"experience_required"`
	Location           string    `json:"location" db:"location"`
	Company            string    `json:"company" db:"company"`
	Salary             string    `json:"salary" db:"salary"`
	SkillsRequired     []string  `json:"skills_required" db:"skills_required"`
	RecruiterID        string    `json:"recruiter_id" db:"recruiter_id"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// RankedJob is a job annotated with how many of the caller's skills it requires.
type RankedJob struct {
	Job
	MatchedSkills int `json:"matched_skills"`
}

// JobInput carries client-supplied fields. On update, nil fields keep their value.
type JobInput struct {
	Title              *string
	Description        *string
	ExperienceRequired *string
	Location           *string
	Company            *string
	Salary             *string
	SkillsRequired     []string
	SkillsProvided     bool
}

// Apply copies the provided fields onto job, normalizing skills.
func (in JobInput) Apply(job *Job) {
	if in.Title != nil {
		job.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		job.Description = *in.Description
	}
	if in.ExperienceRequired != nil {
		job.ExperienceRequired = *in.ExperienceRequired
	}
	if in.Location != nil {
		job.Location = *in.Location
	}
	if in.Company != nil {
		job.Company = *in.Company
	}
	if in.Salary != nil {
		job.Salary = *in.Salary
	}
	if in.SkillsProvided {
		job.SkillsRequired = NormalizeSkills(in.SkillsRequired)
	}
}

// JobSearchFilter holds the optional search constraints. Blank fields do not filter.
type JobSearchFilter struct {
	Title      string
	Location   string
	Experience string
	Skills     []string
}

func (f JobSearchFilter) Normalize() JobSearchFilter {
	return JobSearchFilter{
		Title:      strings.TrimSpace(f.Title),
		Location:   strings.TrimSpace(f.Location),
		Experience: strings.TrimSpace(f.Experience),
		Skills:     NormalizeSkills(f.Skills),
	}
}

// Matches reports whether job satisfies every constraint set on the filter:
// case-insensitive substring on title, location and experience, and
// membership of every listed skill in the job's required skills.
func (f JobSearchFilter) Matches(job Job) bool {
	if !containsFold(job.Title, f.Title) ||
		!containsFold(job.Location, f.Location) ||
		!containsFold(job.ExperienceRequired, f.Experience) {
		return false
	}
	if len(f.Skills) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(job.SkillsRequired))
	for _, s := range job.SkillsRequired {
		have[s] = struct{}{}
	}
	for _, s := range f.Skills {
		if _, ok := have[s]; !ok {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	Update(ctx context.Context, job *Job) error
	// Delete removes the job together with both sides of its application records.
	Delete(ctx context.Context, id int64) error
	FetchByRecruiter(ctx context.Context, recruiterID string) ([]Job, error)
	Search(ctx context.Context, filter JobSearchFilter) ([]Job, error)
	// FetchBySkillOverlap returns jobs sharing at least one skill, in creation order.
	FetchBySkillOverlap(ctx context.Context, skills []string) ([]Job, error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, p Principal, input JobInput) (*Job, error)
	GetJob(ctx context.Context, id int64) (*Job, error)
	UpdateJob(ctx context.Context, p Principal, id int64, input JobInput) (*Job, error)
	DeleteJob(ctx context.Context, p Principal, id int64) error
	ListMyJobs(ctx context.Context, p Principal) ([]Job, error)
	Search(ctx context.Context, filter JobSearchFilter) ([]Job, error)
	FindRelevant(ctx context.Context, userSkills []string) ([]RankedJob, error)
}
