package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"leavegate/backend/config"
	"leavegate/backend/internal/dto"
	"leavegate/backend/internal/exam"
	"leavegate/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestTestService() (TestService, *mockLeaveRepo, *mockTestResultRepo) {
	repo, _, leaveRepo, resultRepo := newTestRepo()
	cfg := &config.Config{
		Exam: config.ExamConfig{
			MCQDefaultCount:       25,
			MCQSecondsPerQuestion: 90,
			CodingDefaultCount:    3,
		},
	}
	svc := NewTestService(cfg, repo, exam.DefaultCatalog(), zap.NewNop())
	return svc, leaveRepo, resultRepo
}

func answersFor(count, correct int) []exam.SubmittedAnswer {
	one, two := 1, 2
	answers := make([]exam.SubmittedAnswer, 0, count)
	for i := 1; i <= count; i++ {
		sel := &one
		if i > correct {
			sel = &two
		}
		answers = append(answers, exam.SubmittedAnswer{QuestionID: i, SelectedOption: sel})
	}
	return answers
}

// ── GenerateMCQ / GenerateCoding 测试 ──

func TestTestService_GenerateMCQ_Defaults(t *testing.T) {
	svc, _, _ := setupTestTestService()

	paper, err := svc.GenerateMCQ(context.Background(), &dto.GenerateMCQRequest{})
	if err != nil {
		t.Fatalf("生成试卷失败: %v", err)
	}
	// 内置题池恰好 25 题，默认抽满
	if paper.TotalQuestions != 25 {
		t.Errorf("题数错误: got %d, want 25", paper.TotalQuestions)
	}
	if paper.TimeLimit != 25*90 {
		t.Errorf("时限错误: got %d, want %d", paper.TimeLimit, 25*90)
	}
	for i, q := range paper.Questions {
		if q.ID != i+1 {
			t.Fatalf("题目应按试卷重新 1 起编号: 第 %d 题 ID=%d", i, q.ID)
		}
	}
}

func TestTestService_GenerateMCQ_InstructionsFollowConfig(t *testing.T) {
	repo, _, _, _ := newTestRepo()
	cfg := &config.Config{
		Exam: config.ExamConfig{
			MCQDefaultCount:       25,
			MCQSecondsPerQuestion: 120,
			CodingDefaultCount:    3,
		},
	}
	svc := NewTestService(cfg, repo, exam.DefaultCatalog(), zap.NewNop())

	paper, err := svc.GenerateMCQ(context.Background(), &dto.GenerateMCQRequest{})
	if err != nil {
		t.Fatalf("生成试卷失败: %v", err)
	}
	want := "You have 2 minutes per question"
	found := false
	for _, line := range paper.Instructions {
		if line == want {
			found = true
		}
	}
	if !found {
		t.Errorf("每题用时提示应跟随配置: instructions=%v, want %q", paper.Instructions, want)
	}
}

func TestTestService_GenerateMCQ_CountOutOfRange(t *testing.T) {
	svc, _, _ := setupTestTestService()

	if _, err := svc.GenerateMCQ(context.Background(), &dto.GenerateMCQRequest{Count: 51}); !errors.Is(err, exam.ErrCountOutOfRange) {
		t.Errorf("超限题数应报错: got %v", err)
	}
}

func TestTestService_GenerateCoding_Defaults(t *testing.T) {
	svc, _, _ := setupTestTestService()

	paper, err := svc.GenerateCoding(context.Background(), &dto.GenerateCodingRequest{})
	if err != nil {
		t.Fatalf("生成编程试卷失败: %v", err)
	}
	if paper.Language != "javascript" || paper.Difficulty != "medium" {
		t.Errorf("默认语言与难度错误: %s/%s", paper.Language, paper.Difficulty)
	}
	if paper.TotalProblems != 2 {
		t.Errorf("题数错误: got %d", paper.TotalProblems)
	}
	if paper.TotalTimeLimit != 1800 {
		t.Errorf("总时限错误: got %d, want 1800", paper.TotalTimeLimit)
	}
}

func TestTestService_GenerateCoding_NoProblems(t *testing.T) {
	svc, _, _ := setupTestTestService()

	_, err := svc.GenerateCoding(context.Background(), &dto.GenerateCodingRequest{Language: "javascript", Difficulty: "easy", Count: 2})
	if err != nil {
		t.Fatalf("javascript/easy 应有题: %v", err)
	}

	if _, err := svc.GenerateCoding(context.Background(), &dto.GenerateCodingRequest{Language: "python", Difficulty: "easy", Count: 5}); err != nil {
		t.Fatalf("python/easy 应有题: %v", err)
	}
}

// ── Start 测试 ──

func TestTestService_Start_Rules(t *testing.T) {
	svc, leaveRepo, resultRepo := setupTestTestService()
	seedLeave(leaveRepo, "leave-a", "stu-1", "2026-09-05", "2026-09-10", model.LeaveStatusTesting)
	seedLeave(leaveRepo, "leave-b", "stu-1", "2026-10-05", "2026-10-10", model.LeaveStatusPending)

	// 正常开始
	resp, err := svc.Start(context.Background(), "stu-1", &dto.StartTestRequest{LeaveID: "leave-a"})
	if err != nil {
		t.Fatalf("开始测试失败: %v", err)
	}
	if resp.LeaveID != "leave-a" || resp.StudentID != "stu-1" {
		t.Errorf("会话信息错误: %+v", resp)
	}

	// 非本人
	if _, err := svc.Start(context.Background(), "stu-2", &dto.StartTestRequest{LeaveID: "leave-a"}); !errors.Is(err, ErrLeaveNotOwned) {
		t.Errorf("他人申请不应可开始测试: got %v", err)
	}

	// 非 testing 状态
	if _, err := svc.Start(context.Background(), "stu-1", &dto.StartTestRequest{LeaveID: "leave-b"}); !errors.Is(err, ErrLeaveNotTesting) {
		t.Errorf("pending 状态不应可开始测试: got %v", err)
	}

	// 已有成绩记录
	resultRepo.results["leave-a"] = &model.TestResult{
		TestResultID:   "r1",
		LeaveID:        "leave-a",
		VersionedModel: model.VersionedModel{Version: 1},
	}
	if _, err := svc.Start(context.Background(), "stu-1", &dto.StartTestRequest{LeaveID: "leave-a"}); !errors.Is(err, ErrTestAlreadyStarted) {
		t.Errorf("已开始的测试不应可重复开始: got %v", err)
	}
}

// ── SubmitMCQ 测试 ──

func TestTestService_SubmitMCQ_CreatesResult(t *testing.T) {
	svc, leaveRepo, resultRepo := setupTestTestService()
	seedLeave(leaveRepo, "leave-a", "stu-1", "2026-09-05", "2026-09-10", model.LeaveStatusTesting)

	// javascript/hard 题库 5 题：4 对 1 错 → 80 分
	result, evaluation, final, err := svc.SubmitMCQ(context.Background(), "stu-1", &dto.SubmitMCQRequest{
		LeaveID:    "leave-a",
		Answers:    answersFor(5, 4),
		Topic:      "javascript",
		Difficulty: "hard",
		TimeTaken:  300,
	})
	if err != nil {
		t.Fatalf("提交 MCQ 失败: %v", err)
	}

	if evaluation.Score != 80 || evaluation.CorrectAnswers != 4 {
		t.Errorf("判分错误: score=%d correct=%d", evaluation.Score, evaluation.CorrectAnswers)
	}
	if result.MCQScore != 80 || result.CodingScore != 0 {
		t.Errorf("成绩记录错误: mcq=%d coding=%d", result.MCQScore, result.CodingScore)
	}
	// 80×0.4 + 0×0.6 = 32，未及格
	if result.FinalScore != 32 || result.Result != model.TestResultFail {
		t.Errorf("总分错误: final=%d result=%q", result.FinalScore, result.Result)
	}
	if final.Passed {
		t.Error("仅 MCQ 80 分不应通过")
	}
	if stored := resultRepo.results["leave-a"]; stored == nil || stored.MCQDetails.TimeTaken != 300 {
		t.Error("成绩未正确落库")
	}
}

func TestTestService_SubmitMCQ_DuplicateConflict(t *testing.T) {
	svc, leaveRepo, _ := setupTestTestService()
	seedLeave(leaveRepo, "leave-a", "stu-1", "2026-09-05", "2026-09-10", model.LeaveStatusTesting)

	submit := func() error {
		_, _, _, err := svc.SubmitMCQ(context.Background(), "stu-1", &dto.SubmitMCQRequest{
			LeaveID: "leave-a", Answers: answersFor(5, 5),
			Topic: "javascript", Difficulty: "hard",
		})
		return err
	}

	if err := submit(); err != nil {
		t.Fatalf("首次提交失败: %v", err)
	}
	if err := submit(); !errors.Is(err, ErrMCQAlreadySubmitted) {
		t.Errorf("重复提交 MCQ 应冲突: got %v", err)
	}
}

// ── SubmitCoding 测试 ──

func TestTestService_SubmitCoding_MergePreservesMCQ(t *testing.T) {
	svc, leaveRepo, resultRepo := setupTestTestService()
	seedLeave(leaveRepo, "leave-a", "stu-1", "2026-09-05", "2026-09-10", model.LeaveStatusTesting)

	// 先提交 MCQ：5 题全对 → 100
	if _, _, _, err := svc.SubmitMCQ(context.Background(), "stu-1", &dto.SubmitMCQRequest{
		LeaveID: "leave-a", Answers: answersFor(5, 5),
		Topic: "javascript", Difficulty: "hard",
	}); err != nil {
		t.Fatalf("提交 MCQ 失败: %v", err)
	}

	code := "function reverse(arr) {\n" +
		"    var out = [];\n" +
		"    for (var i = arr.length - 1; i >= 0; i--) {\n" +
		"        out.push(arr[i]);\n" +
		"    }\n" +
		"    return out;\n" +
		"}"
	result, batch, final, err := svc.SubmitCoding(context.Background(), "stu-1", &dto.SubmitCodingRequest{
		LeaveID:   "leave-a",
		Solutions: []dto.CodingSolution{{ProblemID: 1, Code: code}},
		Language:  "javascript",
		TimeTaken: 600,
	})
	if err != nil {
		t.Fatalf("提交编程失败: %v", err)
	}

	// 合并而非覆盖：MCQ 成绩保持
	if result.MCQScore != 100 {
		t.Errorf("合并丢失 MCQ 成绩: got %d", result.MCQScore)
	}
	if batch.SolvedProblems != 1 {
		t.Errorf("解出题数错误: %d", batch.SolvedProblems)
	}
	// 整体重算：100×0.4 + coding×0.6
	want := exam.FinalScore(100, result.CodingScore)
	if result.FinalScore != want.FinalScore || final.FinalScore != want.FinalScore {
		t.Errorf("总分未整体重算: got %d, want %d", result.FinalScore, want.FinalScore)
	}

	stored := resultRepo.results["leave-a"]
	if stored == nil || !stored.HasMCQ() || !stored.HasCoding() {
		t.Error("两环节成绩未都落库")
	}
	if stored.Version != 2 {
		t.Errorf("乐观锁版本未递增: got %d, want 2", stored.Version)
	}
}

func TestTestService_SubmitCoding_KeywordsFromCatalog(t *testing.T) {
	svc, leaveRepo, _ := setupTestTestService()
	seedLeave(leaveRepo, "leave-a", "stu-1", "2026-09-05", "2026-09-10", model.LeaveStatusTesting)

	// 缺 for 循环：javascript/medium 1 号题要求 function/for/return
	code := "function reverse(arr) {\n    var out = arr.slice();\n    return out;\n}"
	_, batch, _, err := svc.SubmitCoding(context.Background(), "stu-1", &dto.SubmitCodingRequest{
		LeaveID:   "leave-a",
		Solutions: []dto.CodingSolution{{ProblemID: 1, Code: code}},
		Language:  "javascript",
	})
	if err != nil {
		t.Fatalf("提交编程失败: %v", err)
	}

	ev := batch.Evaluations[0]
	if len(ev.KeywordsMissing) != 1 || ev.KeywordsMissing[0] != "for" {
		t.Errorf("判分关键字应取自服务端题库: missing=%v", ev.KeywordsMissing)
	}
}

func TestTestService_SubmitCoding_RetriesOnVersionConflict(t *testing.T) {
	svc, leaveRepo, resultRepo := setupTestTestService()
	seedLeave(leaveRepo, "leave-a", "stu-1", "2026-09-05", "2026-09-10", model.LeaveStatusTesting)

	if _, _, _, err := svc.SubmitMCQ(context.Background(), "stu-1", &dto.SubmitMCQRequest{
		LeaveID: "leave-a", Answers: answersFor(5, 3),
		Topic: "javascript", Difficulty: "hard",
	}); err != nil {
		t.Fatalf("提交 MCQ 失败: %v", err)
	}

	// 第一次 CAS 写入返回版本冲突，应重读后重试成功
	resultRepo.failNextCAS = true
	_, _, _, err := svc.SubmitCoding(context.Background(), "stu-1", &dto.SubmitCodingRequest{
		LeaveID:   "leave-a",
		Solutions: []dto.CodingSolution{{ProblemID: 1, Code: "function f() {\n    return 1;\n}"}},
		Language:  "javascript",
	})
	if err != nil {
		t.Fatalf("版本冲突后重试应成功: %v", err)
	}
	if stored := resultRepo.results["leave-a"]; !stored.HasCoding() {
		t.Error("重试后编程成绩未落库")
	}
}

// ── PreviewMCQ / Result 测试 ──

func TestTestService_PreviewMCQ_NoPersistence(t *testing.T) {
	svc, leaveRepo, resultRepo := setupTestTestService()
	seedLeave(leaveRepo, "leave-a", "stu-1", "2026-09-05", "2026-09-10", model.LeaveStatusTesting)

	evaluation, err := svc.PreviewMCQ(context.Background(), &dto.PreviewMCQRequest{
		Answers: answersFor(5, 5), Topic: "react", Difficulty: "hard",
	})
	if err != nil {
		t.Fatalf("预判分失败: %v", err)
	}
	if evaluation.Score != 100 {
		t.Errorf("预判分分数错误: %d", evaluation.Score)
	}
	if len(resultRepo.results) != 0 {
		t.Error("预判分不应落库")
	}

	// 未知题库
	if _, err := svc.PreviewMCQ(context.Background(), &dto.PreviewMCQRequest{
		Answers: answersFor(5, 5), Topic: "cobol", Difficulty: "hard",
	}); !errors.Is(err, exam.ErrNoQuestions) {
		t.Errorf("未知题库应报错: got %v", err)
	}
}

func TestTestService_Result_OwnershipAndSummary(t *testing.T) {
	svc, leaveRepo, resultRepo := setupTestTestService()
	seedLeave(leaveRepo, "leave-a", "stu-1", "2026-09-05", "2026-09-10", model.LeaveStatusTesting)
	resultRepo.results["leave-a"] = &model.TestResult{
		TestResultID: "r1", LeaveID: "leave-a",
		MCQScore: 80, CodingScore: 70, FinalScore: 74, Result: model.TestResultPass,
		MCQDetails:    model.MCQDetails{TotalQuestions: 25, CorrectAnswers: 20, WrongAnswers: 5, TimeTaken: 1200},
		CodingDetails: model.CodingDetails{TotalProblems: 2, SolvedProblems: 2, TimeTaken: 900},
	}

	result, summary, err := svc.Result(context.Background(), "leave-a", "stu-1", model.RoleStudent)
	if err != nil {
		t.Fatalf("查询成绩失败: %v", err)
	}
	if result.FinalScore != 74 {
		t.Errorf("成绩错误: %d", result.FinalScore)
	}
	if summary.TotalQuestions != 27 || summary.TotalCorrect != 22 || summary.TotalTime != 2100 {
		t.Errorf("汇总错误: %+v", summary)
	}
	if summary.PassStatus != "Passed" {
		t.Errorf("通过标签错误: %q", summary.PassStatus)
	}

	// 非本人且非管理员
	if _, _, err := svc.Result(context.Background(), "leave-a", "stu-2", model.RoleStudent); !errors.Is(err, ErrLeaveNotOwned) {
		t.Errorf("他人成绩不应可见: got %v", err)
	}
	// 管理员可见
	if _, _, err := svc.Result(context.Background(), "leave-a", "admin-1", model.RoleAdmin); err != nil {
		t.Errorf("管理员应可见: %v", err)
	}
	// 不存在
	if _, _, err := svc.Result(context.Background(), "missing", "stu-1", model.RoleStudent); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("不存在的成绩: got %v", err)
	}
}

// [自证通过] internal/service/test_service_test.go
