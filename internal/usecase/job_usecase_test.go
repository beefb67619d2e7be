package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/policy"
	"go-jobboard-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestCreateJob(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes skills and stamps the recruiter", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo, policy.NewAuthorizer(false))

		repo.On("Create", ctx, mock.MatchedBy(func(j *domain.Job) bool {
			return j.RecruiterID == recruiter.ID &&
				assert.ObjectsAreEqual([]string{"go", "sql"}, j.SkillsRequired) &&
				!j.CreatedAt.IsZero()
		})).Return(nil).Once()

		job, err := uc.CreateJob(ctx, recruiter, domain.JobInput{
			Title:          ptr("Backend Engineer"),
			SkillsRequired: []string{" Go", "SQL", "go"},
			SkillsProvided: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Backend Engineer", job.Title)
		repo.AssertExpectations(t)
	})

	t.Run("applicants cannot post", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo, policy.NewAuthorizer(false))

		_, err := uc.CreateJob(ctx, applicant, domain.JobInput{Title: ptr("x")})
		assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("title is required", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo), policy.NewAuthorizer(false))
		_, err := uc.CreateJob(ctx, recruiter, domain.JobInput{Title: ptr("   ")})
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	})
}

func TestUpdateJob_Ownership(t *testing.T) {
	ctx := context.Background()
	existing := func() *domain.Job {
		return &domain.Job{ID: 7, Title: "Old", Location: "Remote", RecruiterID: recruiter.ID}
	}

	t.Run("any recruiter when ownership is not enforced", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo, policy.NewAuthorizer(false))
		repo.On("GetByID", ctx, int64(7)).Return(existing(), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Job")).Return(nil)

		job, err := uc.UpdateJob(ctx, otherRecruiter, 7, domain.JobInput{Title: ptr("New")})
		require.NoError(t, err)
		assert.Equal(t, "New", job.Title)
		assert.Equal(t, "Remote", job.Location)
	})

	t.Run("non-owner rejected when enforced", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo, policy.NewAuthorizer(true))
		repo.On("GetByID", ctx, int64(7)).Return(existing(), nil)

		_, err := uc.UpdateJob(ctx, otherRecruiter, 7, domain.JobInput{Title: ptr("New")})
		assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing job", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo, policy.NewAuthorizer(false))
		repo.On("GetByID", ctx, int64(8)).Return(nil, domain.ErrNotFound)

		_, err := uc.UpdateJob(ctx, recruiter, 8, domain.JobInput{})
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
	})
}

func TestDeleteJob_RemovesApplications(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	jobs := usecase.NewJobUsecase(store, policy.NewAuthorizer(false))
	apps := usecase.NewApplicationUsecase(store.appRepo(), store, policy.NewAuthorizer(false), nil, nil)

	job, err := jobs.CreateJob(ctx, recruiter, domain.JobInput{Title: ptr("Temp")})
	require.NoError(t, err)
	require.NoError(t, apps.Apply(ctx, applicant, job.ID))

	require.NoError(t, jobs.DeleteJob(ctx, recruiter, job.ID))

	jobSide, userSide := store.counts(job.ID, applicant.ID)
	assert.Zero(t, jobSide)
	assert.Zero(t, userSide)

	err = jobs.DeleteJob(ctx, recruiter, job.ID)
	assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	uc := usecase.NewJobUsecase(store, policy.NewAuthorizer(false))

	for _, in := range []struct{ title, location string }{
		{"Software Engineer", "New York, NY"},
		{"Data Engineer", "Austin, TX"},
		{"Product Manager", "NY"},
	} {
		_, err := uc.CreateJob(ctx, recruiter, domain.JobInput{Title: ptr(in.title), Location: ptr(in.location)})
		require.NoError(t, err)
	}

	both, err := uc.Search(ctx, domain.JobSearchFilter{Title: "Engineer", Location: "NY"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Software Engineer", both[0].Title)

	titleOnly, err := uc.Search(ctx, domain.JobSearchFilter{Title: "engineer"})
	require.NoError(t, err)
	assert.Len(t, titleOnly, 2)

	all, err := uc.Search(ctx, domain.JobSearchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFindRelevant(t *testing.T) {
	ctx := context.Background()

	t.Run("empty skills skip storage", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo, policy.NewAuthorizer(false))

		ranked, err := uc.FindRelevant(ctx, []string{" ", ""})
		require.NoError(t, err)
		assert.Empty(t, ranked)
		repo.AssertNotCalled(t, "FetchBySkillOverlap", mock.Anything, mock.Anything)
	})

	t.Run("ranks by overlap with stable ties", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo, policy.NewAuthorizer(false))
		repo.On("FetchBySkillOverlap", ctx, []string{"go", "docker"}).Return([]domain.Job{
			{ID: 1, SkillsRequired: []string{"docker"}},
			{ID: 2, SkillsRequired: []string{"go", "docker", "k8s"}},
			{ID: 3, SkillsRequired: []string{"go"}},
		}, nil)

		ranked, err := uc.FindRelevant(ctx, []string{"Go", "DOCKER"})
		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.Equal(t, int64(2), ranked[0].ID)
		assert.Equal(t, 2, ranked[0].MatchedSkills)
		assert.Equal(t, int64(1), ranked[1].ID)
		assert.Equal(t, int64(3), ranked[2].ID)
	})
}

func TestListMyJobs(t *testing.T) {
	ctx := context.Background()
	repo := new(MockJobRepo)
	uc := usecase.NewJobUsecase(repo, policy.NewAuthorizer(false))
	repo.On("FetchByRecruiter", ctx, recruiter.ID).Return([]domain.Job{{ID: 1}}, nil)

	jobs, err := uc.ListMyJobs(ctx, recruiter)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	_, err = uc.ListMyJobs(ctx, applicant)
	assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
}
