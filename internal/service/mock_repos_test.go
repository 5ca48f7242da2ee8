package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"leavegate/backend/internal/model"
	"leavegate/backend/internal/repository"
	pkgerrors "leavegate/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := int64(len(all))
	all = paginateUsers(all, offset, limit)
	return all, total, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func paginateUsers(users []model.User, offset, limit int) []model.User {
	if limit <= 0 {
		return users
	}
	if offset >= len(users) {
		return nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end]
}

// ── Mock LeaveRepository ──

type mockLeaveRepo struct {
	leaves map[string]*model.Leave
	seq    int
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{leaves: make(map[string]*model.Leave)}
}

func (m *mockLeaveRepo) Create(_ context.Context, leave *model.Leave) error {
	if leave.LeaveID == "" {
		m.seq++
		leave.LeaveID = fmt.Sprintf("leave-%d", m.seq)
	}
	leave.CreatedAt = time.Now()
	m.leaves[leave.LeaveID] = leave
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.Leave, error) {
	if l, ok := m.leaves[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) Update(_ context.Context, leave *model.Leave) error {
	if _, ok := m.leaves[leave.LeaveID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.leaves[leave.LeaveID] = leave
	return nil
}

func (m *mockLeaveRepo) Delete(_ context.Context, id string) error {
	delete(m.leaves, id)
	return nil
}

func (m *mockLeaveRepo) ListByStudent(_ context.Context, studentID, status string, offset, limit int) ([]model.Leave, int64, error) {
	return m.list(repository.LeaveFilter{StudentID: studentID, Status: status}, offset, limit)
}

func (m *mockLeaveRepo) List(_ context.Context, filter repository.LeaveFilter, offset, limit int) ([]model.Leave, int64, error) {
	return m.list(filter, offset, limit)
}

func (m *mockLeaveRepo) list(filter repository.LeaveFilter, offset, limit int) ([]model.Leave, int64, error) {
	var all []model.Leave
	for _, l := range m.leaves {
		if filter.StudentID != "" && l.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.From != nil && l.FromDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.ToDate.After(*filter.To) {
			continue
		}
		all = append(all, *l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].LeaveID < all[j].LeaveID })
	total := int64(len(all))
	if limit > 0 {
		if offset >= len(all) {
			all = nil
		} else if offset+limit < len(all) {
			all = all[offset : offset+limit]
		} else {
			all = all[offset:]
		}
	}
	return all, total, nil
}

func (m *mockLeaveRepo) FindOverlapping(_ context.Context, studentID string, from, to time.Time) ([]model.Leave, error) {
	var out []model.Leave
	for _, l := range m.leaves {
		if l.StudentID != studentID {
			continue
		}
		if l.Status != model.LeaveStatusPending && l.Status != model.LeaveStatusTesting {
			continue
		}
		if !l.FromDate.After(to) && !l.ToDate.Before(from) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	counts := map[string]int64{}
	for _, l := range m.leaves {
		counts[l.Status]++
	}
	var out []repository.StatusCount
	for status, n := range counts {
		out = append(out, repository.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

func (m *mockLeaveRepo) CountByMonth(_ context.Context, months int) ([]repository.MonthlyCount, error) {
	since := time.Now().AddDate(0, -months, 0)
	counts := map[string]int64{}
	for _, l := range m.leaves {
		if l.CreatedAt.Before(since) {
			continue
		}
		counts[l.CreatedAt.Format("2006-01")]++
	}
	var out []repository.MonthlyCount
	for month, n := range counts {
		out = append(out, repository.MonthlyCount{Month: month, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (m *mockLeaveRepo) TopStudents(_ context.Context, limit int) ([]repository.StudentLeaveCount, error) {
	counts := map[string]int64{}
	for _, l := range m.leaves {
		counts[l.StudentID]++
	}
	var out []repository.StudentLeaveCount
	for id, n := range counts {
		out = append(out, repository.StudentLeaveCount{StudentID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockLeaveRepo) Recent(_ context.Context, limit int) ([]model.Leave, error) {
	var all []model.Leave
	for _, l := range m.leaves {
		all = append(all, *l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ── Mock TestResultRepository ──

type mockTestResultRepo struct {
	results map[string]*model.TestResult // leaveID → result
	seq     int

	// failNextCAS 使下一次 UpdateCAS 返回一次版本冲突，用于并发路径测试
	failNextCAS bool
}

func newMockTestResultRepo() *mockTestResultRepo {
	return &mockTestResultRepo{results: make(map[string]*model.TestResult)}
}

func (m *mockTestResultRepo) Create(_ context.Context, result *model.TestResult) error {
	if _, ok := m.results[result.LeaveID]; ok {
		return fmt.Errorf("duplicate key value violates unique constraint")
	}
	if result.TestResultID == "" {
		m.seq++
		result.TestResultID = fmt.Sprintf("result-%d", m.seq)
	}
	if result.Version == 0 {
		result.Version = 1
	}
	result.CreatedAt = time.Now()
	stored := *result
	m.results[result.LeaveID] = &stored
	return nil
}

func (m *mockTestResultRepo) GetByLeaveID(_ context.Context, leaveID string) (*model.TestResult, error) {
	if r, ok := m.results[leaveID]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTestResultRepo) UpdateCAS(_ context.Context, result *model.TestResult) error {
	if m.failNextCAS {
		m.failNextCAS = false
		return pkgerrors.ErrOptimisticLock
	}
	stored, ok := m.results[result.LeaveID]
	if !ok || stored.Version != result.Version {
		return pkgerrors.ErrOptimisticLock
	}
	result.Version++
	result.UpdatedAt = time.Now()
	copied := *result
	m.results[result.LeaveID] = &copied
	return nil
}

func (m *mockTestResultRepo) CountByResult(_ context.Context) ([]repository.ResultCount, error) {
	counts := map[string]int64{}
	for _, r := range m.results {
		counts[r.Result]++
	}
	var out []repository.ResultCount
	for result, n := range counts {
		out = append(out, repository.ResultCount{Result: result, Count: n})
	}
	return out, nil
}

func (m *mockTestResultRepo) Averages(_ context.Context) (*repository.ScoreAverages, error) {
	var avg repository.ScoreAverages
	n := len(m.results)
	if n == 0 {
		return &avg, nil
	}
	for _, r := range m.results {
		avg.AvgMCQ += float64(r.MCQScore)
		avg.AvgCoding += float64(r.CodingScore)
		avg.AvgFinal += float64(r.FinalScore)
	}
	avg.AvgMCQ /= float64(n)
	avg.AvgCoding /= float64(n)
	avg.AvgFinal /= float64(n)
	return &avg, nil
}

func (m *mockTestResultRepo) Recent(_ context.Context, limit int) ([]model.TestResult, error) {
	var all []model.TestResult
	for _, r := range m.results {
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ── 测试辅助 ──

func newTestRepo() (*repository.Repository, *mockUserRepo, *mockLeaveRepo, *mockTestResultRepo) {
	userRepo := newMockUserRepo()
	leaveRepo := newMockLeaveRepo()
	resultRepo := newMockTestResultRepo()
	repo := &repository.Repository{
		User:       userRepo,
		Leave:      leaveRepo,
		TestResult: resultRepo,
	}
	return repo, userRepo, leaveRepo, resultRepo
}

func dateOf(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("bad test date: " + s)
	}
	return t
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// [自证通过] internal/service/mock_repos_test.go
