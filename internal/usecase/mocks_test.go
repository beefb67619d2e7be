package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockJobRepo) FetchByRecruiter(ctx context.Context, recruiterID string) ([]domain.Job, error) {
	args := m.Called(ctx, recruiterID)
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepo) Search(ctx context.Context, filter domain.JobSearchFilter) ([]domain.Job, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepo) FetchBySkillOverlap(ctx context.Context, skills []string) ([]domain.Job, error) {
	args := m.Called(ctx, skills)
	return args.Get(0).([]domain.Job), args.Error(1)
}

type MockResumeStore struct {
	mock.Mock
}

func (m *MockResumeStore) Upload(ctx context.Context, ownerID string, file domain.ResumeUpload) (string, error) {
	args := m.Called(ctx, ownerID, file)
	return args.String(0), args.Error(1)
}

type failingWriter struct{ err error }

func (w failingWriter) WriteShortlist([]domain.ShortlistRow) ([]byte, error) { return nil, w.err }
func (failingWriter) Extension() string                                  { return "xlsx" }
func (failingWriter) ContentType() string                                { return "application/octet-stream" }

// recordingWriter captures the rows it was asked to render.
type recordingWriter struct{ rows []domain.ShortlistRow }

func (w *recordingWriter) WriteShortlist(rows []domain.ShortlistRow) ([]byte, error) {
	w.rows = rows
	return []byte("ok"), nil
}
func (*recordingWriter) Extension() string   { return "xlsx" }
func (*recordingWriter) ContentType() string { return "test/xlsx" }

type pairKey struct {
	jobID  int64
	userID string
}

type record struct {
	status  string
	created time.Time
	seq     int
}

// memStore keeps jobs, users and both application sides in memory and
// implements JobRepository and ApplicationRepository with the same
// transactional semantics as the Postgres repositories.
type memStore struct {
	mu       sync.Mutex
	jobs     map[int64]domain.Job
	users    map[string]domain.User
	jobSide  map[pairKey]*record
	userSide map[pairKey]*record
	nextID   int64
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		jobs:     map[int64]domain.Job{},
		users:    map[string]domain.User{},
		jobSide:  map[pairKey]*record{},
		userSide: map[pairKey]*record{},
	}
}

func (s *memStore) addUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Job repository

func (s *memStore) Create(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	job.ID = s.nextID
	s.jobs[job.ID] = *job
	return nil
}

func (s *memStore) GetByID(_ context.Context, id int64) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

func (s *memStore) Update(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	s.jobs[job.ID] = *job
	return nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.jobs, id)
	for k := range s.jobSide {
		if k.jobID == id {
			delete(s.jobSide, k)
		}
	}
	for k := range s.userSide {
		if k.jobID == id {
			delete(s.userSide, k)
		}
	}
	return nil
}

func (s *memStore) sortedJobs(keep func(domain.Job) bool) []domain.Job {
	out := []domain.Job{}
	for _, j := range s.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

func (s *memStore) FetchByRecruiter(_ context.Context, recruiterID string) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedJobs(func(j domain.Job) bool { return j.RecruiterID == recruiterID }), nil
}

func (s *memStore) Search(_ context.Context, filter domain.JobSearchFilter) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedJobs(filter.Matches), nil
}

func (s *memStore) FetchBySkillOverlap(_ context.Context, skills []string) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[string]bool{}
	for _, sk := range skills {
		want[sk] = true
	}
	return s.sortedJobs(func(j domain.Job) bool {
		for _, sk := range j.SkillsRequired {
			if want[sk] {
				return true
			}
		}
		return false
	}), nil
}

// Application repository, exposed through appRepo to avoid method clashes.

type memAppRepo struct{ *memStore }

func (s *memStore) appRepo() memAppRepo { return memAppRepo{s} }

func (r memAppRepo) Create(_ context.Context, userID string, jobID int64) error {
	s := r.memStore
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[jobID]; !ok {
		return domain.ErrNotFound
	}
	k := pairKey{jobID, userID}
	if _, ok := s.jobSide[k]; ok {
		return domain.ErrAlreadyApplied
	}
	if _, ok := s.userSide[k]; ok {
		return domain.ErrAlreadyApplied
	}
	s.seq++
	now := time.Now()
	s.jobSide[k] = &record{status: domain.ApplicationStatusApplied, created: now, seq: s.seq}
	s.userSide[k] = &record{status: domain.ApplicationStatusApplied, created: now, seq: s.seq}
	return nil
}

func (r memAppRepo) UpdateStatus(_ context.Context, jobID int64, userID, status string) (*domain.StatusUpdate, error) {
	s := r.memStore
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{jobID, userID}
	js, ok := s.jobSide[k]
	if !ok {
		return nil, domain.ErrApplicantNotFound
	}
	js.status = status
	update := &domain.StatusUpdate{Applicant: domain.ApplicantRecord{JobID: jobID, UserID: userID, Status: status, CreatedAt: js.created}}
	if us, ok := s.userSide[k]; ok {
		us.status = status
	} else {
		s.userSide[k] = &record{status: status, created: js.created, seq: js.seq}
		update.MirrorRepaired = true
	}
	return update, nil
}

func strPtr(s string) *string { return &s }

func (r memAppRepo) GetByJobID(_ context.Context, jobID int64) ([]domain.ApplicantRecord, error) {
	s := r.memStore
	s.mu.Lock()
	defer s.mu.Unlock()
	type row struct {
		rec domain.ApplicantRecord
		seq int
	}
	var rows []row
	for k, v := range s.jobSide {
		if k.jobID != jobID {
			continue
		}
		rec := domain.ApplicantRecord{JobID: jobID, UserID: k.userID, Status: v.status, CreatedAt: v.created}
		if u, ok := s.users[k.userID]; ok {
			rec.Name, rec.Email, rec.Skills, rec.Resume = strPtr(u.Name), strPtr(u.Email), u.Skills, u.Resume
		}
		rows = append(rows, row{rec, v.seq})
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].seq < rows[b].seq })
	out := []domain.ApplicantRecord{}
	for _, r := range rows {
		out = append(out, r.rec)
	}
	return out, nil
}

func (r memAppRepo) GetByUserID(_ context.Context, userID string) ([]domain.ApplicationRecord, error) {
	s := r.memStore
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ApplicationRecord{}
	for k, v := range s.userSide {
		if k.userID == userID {
			out = append(out, domain.ApplicationRecord{UserID: userID, JobID: k.jobID, Status: v.status, CreatedAt: v.created})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].JobID < out[b].JobID })
	return out, nil
}

func (r memAppRepo) FindIntegrityIssues(context.Context) ([]domain.IntegrityIssue, int, error) {
	s := r.memStore
	s.mu.Lock()
	defer s.mu.Unlock()
	pairs := map[pairKey]bool{}
	for k := range s.jobSide {
		pairs[k] = true
	}
	for k := range s.userSide {
		pairs[k] = true
	}
	issues := []domain.IntegrityIssue{}
	for k := range pairs {
		js, jok := s.jobSide[k]
		us, uok := s.userSide[k]
		if jok && uok && js.status == us.status {
			continue
		}
		issue := domain.IntegrityIssue{JobID: k.jobID, UserID: k.userID}
		if jok {
			issue.JobStatus = strPtr(js.status)
		}
		if uok {
			issue.UserStatus = strPtr(us.status)
		}
		issues = append(issues, issue)
	}
	sort.Slice(issues, func(a, b int) bool {
		if issues[a].JobID != issues[b].JobID {
			return issues[a].JobID < issues[b].JobID
		}
		return issues[a].UserID < issues[b].UserID
	})
	return issues, len(pairs), nil
}

func (r memAppRepo) Repair(_ context.Context, issue domain.IntegrityIssue) error {
	s := r.memStore
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{issue.JobID, issue.UserID}
	js, ok := s.jobSide[k]
	if !ok {
		delete(s.userSide, k)
		return nil
	}
	s.userSide[k] = &record{status: js.status, created: js.created, seq: js.seq}
	return nil
}

// test helpers that break the invariant on purpose

func (s *memStore) dropUserSide(jobID int64, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.userSide, pairKey{jobID, userID})
}

func (s *memStore) setUserSide(jobID int64, userID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userSide[pairKey{jobID, userID}] = &record{status: status, created: time.Now()}
}

func (s *memStore) status(jobID int64, userID string) (jobSide, userSide string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{jobID, userID}
	if r, ok := s.jobSide[k]; ok {
		jobSide = r.status
	}
	if r, ok := s.userSide[k]; ok {
		userSide = r.status
	}
	return
}

func (s *memStore) counts(jobID int64, userID string) (jobSide, userSide int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.jobSide {
		if k == (pairKey{jobID, userID}) {
			jobSide++
		}
	}
	for k := range s.userSide {
		if k == (pairKey{jobID, userID}) {
			userSide++
		}
	}
	return
}
