package model

// 测试结果取值
const (
	TestResultPass = "pass"
	TestResultFail = "fail"
)

// MCQDetails MCQ 环节明细（内嵌列，前缀 mcq_）
type MCQDetails struct {
	TotalQuestions int `gorm:"column:mcq_total_questions;not null;default:0" json:"total_questions"`
	CorrectAnswers int `gorm:"column:mcq_correct_answers;not null;default:0" json:"correct_answers"`
	WrongAnswers   int `gorm:"column:mcq_wrong_answers;not null;default:0"   json:"wrong_answers"`
	TimeTaken      int `gorm:"column:mcq_time_taken;not null;default:0"      json:"time_taken"` // 秒
}

// CodingDetails 编程环节明细（内嵌列，前缀 coding_）
type CodingDetails struct {
	TotalProblems  int `gorm:"column:coding_total_problems;not null;default:0"  json:"total_problems"`
	SolvedProblems int `gorm:"column:coding_solved_problems;not null;default:0" json:"solved_problems"`
	TimeTaken      int `gorm:"column:coding_time_taken;not null;default:0"      json:"time_taken"` // 秒
}

// TestResult 技能测试成绩表 — 对应 test_results
// 每个请假申请至多一条（leave_id 唯一约束）；
// final_score 与 result 为派生字段，由 Service 层在每次写入前
// 通过 exam.FinalScore 重新计算，数据库不做触发器。
type TestResult struct {
	TestResultID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"test_result_id"`
	LeaveID      string `gorm:"type:uuid;not null;uniqueIndex"                 json:"leave_id"`
	MCQScore     int    `gorm:"not null;default:0"                             json:"mcq_score"`
	CodingScore  int    `gorm:"not null;default:0"                             json:"coding_score"`
	FinalScore   int    `gorm:"not null;default:0"                             json:"final_score"`
	Result       string `gorm:"type:varchar(10);not null;default:'fail'"       json:"result"`

	MCQDetails    MCQDetails    `gorm:"embedded" json:"mcq_details"`
	CodingDetails CodingDetails `gorm:"embedded" json:"coding_details"`

	Remarks string `gorm:"type:varchar(500)" json:"remarks,omitempty"`
	VersionedModel

	// 关联
	Leave *Leave `gorm:"foreignKey:LeaveID;references:LeaveID" json:"leave,omitempty"`
}

// TableName 指定表名
func (TestResult) TableName() string { return "test_results" }

// HasMCQ MCQ 环节是否已提交
func (t *TestResult) HasMCQ() bool { return t.MCQDetails.TotalQuestions > 0 }

// HasCoding 编程环节是否已提交
func (t *TestResult) HasCoding() bool { return t.CodingDetails.TotalProblems > 0 }

// [自证通过] internal/model/test_result.go
