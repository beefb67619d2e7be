package v1_test

import (
	"context"

	"go-jobboard-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAuthUC struct{ mock.Mock }

func (m *MockAuthUC) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthUC) Login(ctx context.Context, email, password, role string) (*domain.AuthResult, error) {
	args := m.Called(ctx, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthUC) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthUC) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockUserUC struct{ mock.Mock }

func (m *MockUserUC) GetMe(ctx context.Context, p domain.Principal) (*domain.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUC) GetPublicProfile(ctx context.Context, id string) (*domain.PublicProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicProfile), args.Error(1)
}

func (m *MockUserUC) UpdateProfile(ctx context.Context, p domain.Principal, update domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, p, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJobUC struct{ mock.Mock }

func (m *MockJobUC) CreateJob(ctx context.Context, p domain.Principal, input domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUC) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUC) UpdateJob(ctx context.Context, p domain.Principal, id int64, input domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, p, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUC) DeleteJob(ctx context.Context, p domain.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockJobUC) ListMyJobs(ctx context.Context, p domain.Principal) ([]domain.Job, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobUC) Search(ctx context.Context, filter domain.JobSearchFilter) ([]domain.Job, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobUC) FindRelevant(ctx context.Context, userSkills []string) ([]domain.RankedJob, error) {
	args := m.Called(ctx, userSkills)
	return args.Get(0).([]domain.RankedJob), args.Error(1)
}

type MockApplicationUC struct{ mock.Mock }

func (m *MockApplicationUC) Apply(ctx context.Context, p domain.Principal, jobID int64) error {
	return m.Called(ctx, p, jobID).Error(0)
}

func (m *MockApplicationUC) ListApplied(ctx context.Context, p domain.Principal) ([]domain.ApplicationRecord, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.ApplicationRecord), args.Error(1)
}

func (m *MockApplicationUC) ListApplicants(ctx context.Context, p domain.Principal, jobID int64) (*domain.JobApplicants, error) {
	args := m.Called(ctx, p, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplicants), args.Error(1)
}

func (m *MockApplicationUC) UpdateApplicantStatus(ctx context.Context, p domain.Principal, jobID int64, userID, status string) (*domain.ApplicantRecord, error) {
	args := m.Called(ctx, p, jobID, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicantRecord), args.Error(1)
}

func (m *MockApplicationUC) ExportShortlisted(ctx context.Context, p domain.Principal, jobID int64, format string) (*domain.ExportFile, error) {
	args := m.Called(ctx, p, jobID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportFile), args.Error(1)
}

func (m *MockApplicationUC) Reconcile(ctx context.Context, dryRun bool) (*domain.ReconcileReport, error) {
	args := m.Called(ctx, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconcileReport), args.Error(1)
}

type stubHealth struct {
	status  map[string]string
	healthy bool
}

func (s stubHealth) Check(context.Context) (map[string]string, bool) { return s.status, s.healthy }
