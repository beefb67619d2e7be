package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/policy"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	recruiter      = domain.Principal{ID: "rec-1", Role: domain.RoleRecruiter}
	otherRecruiter = domain.Principal{ID: "rec-2", Role: domain.RoleRecruiter}
	applicant      = domain.Principal{ID: "app-1", Role: domain.RoleApplicant}
)

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

type appFixture struct {
	store  *memStore
	uc     domain.ApplicationUsecase
	writer *recordingWriter
	logs   *observer.ObservedLogs
	job    domain.Job
}

func newAppFixture(t *testing.T, enforceOwnership bool) *appFixture {
	t.Helper()
	store := newMemStore()
	core, logs := observer.New(zapcore.DebugLevel)
	writer := &recordingWriter{}

	uc := usecase.NewApplicationUsecase(
		store.appRepo(),
		store,
		policy.NewAuthorizer(enforceOwnership),
		map[string]domain.ShortlistWriter{"xlsx": writer},
		audit.NewWithLogger(zap.New(core), "test", "test"),
	)

	job := domain.Job{Title: "Backend Engineer", RecruiterID: recruiter.ID}
	require.NoError(t, store.Create(context.Background(), &job))
	return &appFixture{store: store, uc: uc, writer: writer, logs: logs, job: job}
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("second apply is rejected and leaves exactly one record per side", func(t *testing.T) {
		f := newAppFixture(t, false)

		require.NoError(t, f.uc.Apply(ctx, applicant, f.job.ID))

		err := f.uc.Apply(ctx, applicant, f.job.ID)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))

		jobSide, userSide := f.store.counts(f.job.ID, applicant.ID)
		assert.Equal(t, 1, jobSide)
		assert.Equal(t, 1, userSide)

		js, us := f.store.status(f.job.ID, applicant.ID)
		assert.Equal(t, domain.ApplicationStatusApplied, js)
		assert.Equal(t, domain.ApplicationStatusApplied, us)
	})

	t.Run("unknown job", func(t *testing.T) {
		f := newAppFixture(t, false)
		err := f.uc.Apply(ctx, applicant, 999)
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
	})

	t.Run("recruiters cannot apply", func(t *testing.T) {
		f := newAppFixture(t, false)
		err := f.uc.Apply(ctx, recruiter, f.job.ID)
		assert.Equal(t, http.StatusForbidden, appErrCode(t, err))

		jobSide, userSide := f.store.counts(f.job.ID, recruiter.ID)
		assert.Zero(t, jobSide)
		assert.Zero(t, userSide)
	})

	t.Run("records an audit event", func(t *testing.T) {
		f := newAppFixture(t, false)
		require.NoError(t, f.uc.Apply(ctx, applicant, f.job.ID))
		assert.Equal(t, 1, f.logs.FilterMessage(string(audit.EventApplicationCreated)).Len())
	})
}

func TestUpdateApplicantStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("both sides carry the new status", func(t *testing.T) {
		f := newAppFixture(t, false)
		require.NoError(t, f.uc.Apply(ctx, applicant, f.job.ID))

		rec, err := f.uc.UpdateApplicantStatus(ctx, recruiter, f.job.ID, applicant.ID, "shortlisted")
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusShortlisted, rec.Status)

		js, us := f.store.status(f.job.ID, applicant.ID)
		assert.Equal(t, domain.ApplicationStatusShortlisted, js)
		assert.Equal(t, domain.ApplicationStatusShortlisted, us)
		assert.Zero(t, f.logs.FilterMessage(string(audit.EventIntegrityWarning)).Len())
	})

	t.Run("missing mirror is recreated with one integrity warning", func(t *testing.T) {
		f := newAppFixture(t, false)
		require.NoError(t, f.uc.Apply(ctx, applicant, f.job.ID))
		f.store.dropUserSide(f.job.ID, applicant.ID)

		_, err := f.uc.UpdateApplicantStatus(ctx, recruiter, f.job.ID, applicant.ID, "rejected")
		require.NoError(t, err)

		js, us := f.store.status(f.job.ID, applicant.ID)
		assert.Equal(t, domain.ApplicationStatusRejected, js)
		assert.Equal(t, domain.ApplicationStatusRejected, us)

		warnings := f.logs.FilterMessage(string(audit.EventIntegrityWarning)).All()
		require.Len(t, warnings, 1)
		details := warnings[0].ContextMap()["details"].(map[string]interface{})
		assert.Equal(t, domain.IssueMissingMirror, details["kind"])
	})

	t.Run("status outside the enum is rejected without writes", func(t *testing.T) {
		f := newAppFixture(t, false)
		require.NoError(t, f.uc.Apply(ctx, applicant, f.job.ID))

		_, err := f.uc.UpdateApplicantStatus(ctx, recruiter, f.job.ID, applicant.ID, "hired")
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))

		js, us := f.store.status(f.job.ID, applicant.ID)
		assert.Equal(t, domain.ApplicationStatusApplied, js)
		assert.Equal(t, domain.ApplicationStatusApplied, us)
	})

	t.Run("unknown applicant and unknown job", func(t *testing.T) {
		f := newAppFixture(t, false)

		_, err := f.uc.UpdateApplicantStatus(ctx, recruiter, f.job.ID, "nobody", "shortlisted")
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
		assert.Contains(t, err.Error(), "Applicant")

		_, err = f.uc.UpdateApplicantStatus(ctx, recruiter, 404, applicant.ID, "shortlisted")
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
		assert.Contains(t, err.Error(), "Job")
	})

	t.Run("applicants cannot change status", func(t *testing.T) {
		f := newAppFixture(t, false)
		_, err := f.uc.UpdateApplicantStatus(ctx, applicant, f.job.ID, applicant.ID, "shortlisted")
		assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
	})

	t.Run("ownership enforcement", func(t *testing.T) {
		open := newAppFixture(t, false)
		require.NoError(t, open.uc.Apply(ctx, applicant, open.job.ID))
		_, err := open.uc.UpdateApplicantStatus(ctx, otherRecruiter, open.job.ID, applicant.ID, "shortlisted")
		assert.NoError(t, err)

		strict := newAppFixture(t, true)
		require.NoError(t, strict.uc.Apply(ctx, applicant, strict.job.ID))
		_, err = strict.uc.UpdateApplicantStatus(ctx, otherRecruiter, strict.job.ID, applicant.ID, "shortlisted")
		assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
	})
}

func TestListApplicantsAndApplied(t *testing.T) {
	ctx := context.Background()
	f := newAppFixture(t, false)
	f.store.addUser(domain.User{ID: applicant.ID, Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, f.uc.Apply(ctx, applicant, f.job.ID))

	list, err := f.uc.ListApplicants(ctx, recruiter, f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, f.job.Title, list.Title)
	require.Len(t, list.Applicants, 1)
	assert.Equal(t, "Ada", *list.Applicants[0].Name)

	_, err = f.uc.ListApplicants(ctx, applicant, f.job.ID)
	assert.Equal(t, http.StatusForbidden, appErrCode(t, err))

	applied, err := f.uc.ListApplied(ctx, applicant)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, f.job.ID, applied[0].JobID)
}

func TestShortlistRows(t *testing.T) {
	applicants := []domain.ApplicantRecord{
		{Status: domain.ApplicationStatusShortlisted, Name: strPtr("A"), Email: strPtr("a@x.io")},
		{Status: domain.ApplicationStatusApplied, Name: strPtr("B")},
		{Status: domain.ApplicationStatusShortlisted, Name: strPtr("C"), Resume: strPtr("https://cdn/c.pdf")},
	}

	rows := usecase.ShortlistRows(applicants)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Name)
	assert.Equal(t, "a@x.io", rows[0].Email)
	assert.Equal(t, "C", rows[1].Name)
	assert.Equal(t, "https://cdn/c.pdf", rows[1].ResumeURL)
}

func TestExportShortlisted(t *testing.T) {
	ctx := context.Background()
	f := newAppFixture(t, false)

	users := []struct {
		p      domain.Principal
		name   string
		status string
	}{
		{domain.Principal{ID: "u-a", Role: domain.RoleApplicant}, "A", domain.ApplicationStatusShortlisted},
		{domain.Principal{ID: "u-b", Role: domain.RoleApplicant}, "B", domain.ApplicationStatusApplied},
		{domain.Principal{ID: "u-c", Role: domain.RoleApplicant}, "C", domain.ApplicationStatusShortlisted},
	}
	for _, u := range users {
		f.store.addUser(domain.User{ID: u.p.ID, Name: u.name, Email: u.name + "@example.com"})
		require.NoError(t, f.uc.Apply(ctx, u.p, f.job.ID))
		if u.status != domain.ApplicationStatusApplied {
			_, err := f.uc.UpdateApplicantStatus(ctx, recruiter, f.job.ID, u.p.ID, u.status)
			require.NoError(t, err)
		}
	}

	file, err := f.uc.ExportShortlisted(ctx, recruiter, f.job.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "shortlisted_1.xlsx", file.Filename)
	assert.Equal(t, "test/xlsx", file.ContentType)

	require.Len(t, f.writer.rows, 2)
	assert.Equal(t, "A", f.writer.rows[0].Name)
	assert.Equal(t, "C", f.writer.rows[1].Name)

	_, err = f.uc.ExportShortlisted(ctx, recruiter, f.job.ID, "pdf")
	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))

	_, err = f.uc.ExportShortlisted(ctx, applicant, f.job.ID, "xlsx")
	assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
}

func TestExportShortlisted_WriterFailure(t *testing.T) {
	store := newMemStore()
	job := domain.Job{Title: "Ops", RecruiterID: recruiter.ID}
	require.NoError(t, store.Create(context.Background(), &job))

	uc := usecase.NewApplicationUsecase(store.appRepo(), store, policy.NewAuthorizer(false),
		map[string]domain.ShortlistWriter{"xlsx": failingWriter{err: errors.New("disk full")}}, audit.Nop())

	_, err := uc.ExportShortlisted(context.Background(), recruiter, job.ID, "xlsx")
	assert.Equal(t, http.StatusBadGateway, appErrCode(t, err))
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	f := newAppFixture(t, false)

	a := domain.Principal{ID: "u-a", Role: domain.RoleApplicant}
	b := domain.Principal{ID: "u-b", Role: domain.RoleApplicant}
	c := domain.Principal{ID: "u-c", Role: domain.RoleApplicant}
	for _, p := range []domain.Principal{a, b, c} {
		require.NoError(t, f.uc.Apply(ctx, p, f.job.ID))
	}
	_, err := f.uc.UpdateApplicantStatus(ctx, recruiter, f.job.ID, b.ID, "shortlisted")
	require.NoError(t, err)

	f.store.dropUserSide(f.job.ID, a.ID)
	f.store.setUserSide(f.job.ID, b.ID, domain.ApplicationStatusRejected)
	f.store.setUserSide(f.job.ID, "ghost", domain.ApplicationStatusApplied)

	report, err := f.uc.Reconcile(ctx, true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 4, report.Checked)
	require.Len(t, report.Issues, 3)
	assert.Zero(t, report.Repaired)
	_, us := f.store.status(f.job.ID, a.ID)
	assert.Empty(t, us, "dry run does not write")

	report, err = f.uc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Repaired)

	js, us := f.store.status(f.job.ID, a.ID)
	assert.Equal(t, js, us)
	js, us = f.store.status(f.job.ID, b.ID)
	assert.Equal(t, domain.ApplicationStatusShortlisted, js)
	assert.Equal(t, js, us)
	_, us = f.store.status(f.job.ID, "ghost")
	assert.Empty(t, us)

	report, err = f.uc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 3, report.Checked)
}
