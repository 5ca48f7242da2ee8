package dto

import "leavegate/backend/internal/exam"

// ── 技能测试模块 DTO ──

// GenerateMCQRequest 生成 MCQ 试卷（混合所有主题的 hard 题）
type GenerateMCQRequest struct {
	Count int `form:"count" binding:"omitempty,min=1,max=50"`
}

// GeneratedQuestion 下发给学生的题目（不含答案与解析）
type GeneratedQuestion struct {
	ID       int      `json:"id"` // 本次试卷内 1 起编号
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Topic    string   `json:"topic"`
}

// MCQPaperResponse MCQ 试卷响应
type MCQPaperResponse struct {
	Difficulty     string              `json:"difficulty"`
	TotalQuestions int                 `json:"total_questions"`
	TimeLimit      int                 `json:"time_limit"` // 秒
	Questions      []GeneratedQuestion `json:"questions"`
	Instructions   []string            `json:"instructions"`
}

// StartTestRequest 开始测试会话
type StartTestRequest struct {
	LeaveID string `json:"leave_id" binding:"required,uuid"`
}

// StartTestResponse 测试会话信息
type StartTestResponse struct {
	LeaveID   string `json:"leave_id"`
	StudentID string `json:"student_id"`
	StartTime string `json:"start_time"`
	Status    string `json:"status"`
}

// SubmitMCQRequest 提交 MCQ 答案
type SubmitMCQRequest struct {
	LeaveID    string                 `json:"leave_id" binding:"required,uuid"`
	Answers    []exam.SubmittedAnswer `json:"answers"  binding:"required"`
	Topic      string                 `json:"topic"`
	Difficulty string                 `json:"difficulty"`
	TimeTaken  int                    `json:"time_taken" binding:"omitempty,min=0"`
}

// PreviewMCQRequest 仅判分不落库
type PreviewMCQRequest struct {
	Answers    []exam.SubmittedAnswer `json:"answers" binding:"required"`
	Topic      string                 `json:"topic"`
	Difficulty string                 `json:"difficulty"`
}

// GenerateCodingRequest 生成编程试卷
type GenerateCodingRequest struct {
	Language   string `form:"language"   binding:"omitempty,oneof=javascript python"`
	Difficulty string `form:"difficulty" binding:"omitempty,oneof=easy medium"`
	Count      int    `form:"count"      binding:"omitempty,min=1,max=10"`
}

// GeneratedProblem 下发给学生的编程题（不含判分关键字）
type GeneratedProblem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Difficulty  string `json:"difficulty"`
	TimeLimit   int    `json:"time_limit"` // 秒
}

// CodingPaperResponse 编程试卷响应
type CodingPaperResponse struct {
	Language       string             `json:"language"`
	Difficulty     string             `json:"difficulty"`
	TotalProblems  int                `json:"total_problems"`
	TotalTimeLimit int                `json:"total_time_limit"` // 秒
	Problems       []GeneratedProblem `json:"problems"`
}

// CodingSolution 单题解答
type CodingSolution struct {
	ProblemID int    `json:"id"`
	Code      string `json:"code"`
}

// SubmitCodingRequest 提交编程解答
type SubmitCodingRequest struct {
	LeaveID    string           `json:"leave_id"  binding:"required,uuid"`
	Solutions  []CodingSolution `json:"solutions" binding:"required,min=1"`
	Language   string           `json:"language"  binding:"omitempty,oneof=javascript python"`
	Difficulty string           `json:"difficulty" binding:"omitempty,oneof=easy medium"`
	TimeTaken  int              `json:"time_taken" binding:"omitempty,min=0"`
}

// FinalScoreResponse 聚合成绩展示
type FinalScoreResponse struct {
	FinalScore int    `json:"final_score"`
	Result     string `json:"result"`
	Grade      string `json:"grade"`
	Passed     bool   `json:"passed"`
	Message    string `json:"message"`
	Note       string `json:"note"`
}

// TestResultSummary 成绩汇总指标
type TestResultSummary struct {
	TotalQuestions int    `json:"total_questions"` // MCQ 题数 + 编程题数
	TotalCorrect   int    `json:"total_correct"`   // 答对数 + 解出数
	TotalTime      int    `json:"total_time"`      // 秒
	PassStatus     string `json:"pass_status"`     // "Passed" | "Failed"
}

// [自证通过] internal/dto/test.go
