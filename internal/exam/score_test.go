package exam

import (
	"math"
	"testing"
)

func TestFinalScore_WeightedAverage(t *testing.T) {
	// 40 与 60 的加权：40×0.4 + 60×0.6 = 52，及格
	res := FinalScore(40, 60)
	if res.FinalScore != 52 {
		t.Errorf("最终成绩错误: got %d, want 52", res.FinalScore)
	}
	if res.Result != "pass" || !res.Passed {
		t.Errorf("52 分应判及格: got %q", res.Result)
	}
	if res.Grade != "D" {
		t.Errorf("52 分等级应为 D: got %q", res.Grade)
	}
}

func TestFinalScore_BoundaryAtThreshold(t *testing.T) {
	// 49.x 四舍五入后恰好落在及格线上下
	cases := []struct {
		mcq, coding int
		wantScore   int
		wantResult  string
	}{
		{50, 50, 50, "pass"},
		{49, 49, 49, "fail"},
		{0, 0, 0, "fail"},
		{100, 100, 100, "pass"},
		{100, 0, 40, "fail"},  // 只过 MCQ 不够
		{0, 100, 60, "pass"},  // 编程权重更高
		{48, 52, 50, "pass"},  // 19.2+31.2=50.4 → 50
	}
	for _, c := range cases {
		res := FinalScore(c.mcq, c.coding)
		if res.FinalScore != c.wantScore {
			t.Errorf("FinalScore(%d, %d) 分数错误: got %d, want %d", c.mcq, c.coding, res.FinalScore, c.wantScore)
		}
		if res.Result != c.wantResult {
			t.Errorf("FinalScore(%d, %d) 结果错误: got %q, want %q", c.mcq, c.coding, res.Result, c.wantResult)
		}
	}
}

func TestFinalScore_PureAndWeightConsistent(t *testing.T) {
	// 对全输入域验证：结果与公式一致、重复调用恒等、输出在 [0,100]
	for mcq := 0; mcq <= 100; mcq += 5 {
		for coding := 0; coding <= 100; coding += 5 {
			want := int(math.Round(float64(mcq)*MCQWeight + float64(coding)*CodingWeight))
			first := FinalScore(mcq, coding)
			second := FinalScore(mcq, coding)

			if first.FinalScore != want {
				t.Fatalf("FinalScore(%d, %d) 与公式不符: got %d, want %d", mcq, coding, first.FinalScore, want)
			}
			if first != second {
				t.Fatalf("FinalScore(%d, %d) 非纯函数: %+v != %+v", mcq, coding, first, second)
			}
			if first.FinalScore < 0 || first.FinalScore > 100 {
				t.Fatalf("FinalScore(%d, %d) 越界: %d", mcq, coding, first.FinalScore)
			}
			if first.Passed != (first.FinalScore >= PassThreshold) {
				t.Fatalf("FinalScore(%d, %d) 及格判定与阈值不符", mcq, coding)
			}
		}
	}
}

func TestFinalScore_ClampsOutOfRangeInput(t *testing.T) {
	if res := FinalScore(-20, 150); res.FinalScore != 60 {
		t.Errorf("越界输入应先钳制到 [0,100]: got %d, want 60", res.FinalScore)
	}
}

func TestGradeFor_Bands(t *testing.T) {
	cases := []struct {
		score       int
		wantLetter  string
		wantPerform string
	}{
		{100, "A+", "Exceptional"},
		{90, "A+", "Exceptional"},
		{89, "A", "Excellent"},
		{80, "A", "Excellent"},
		{79, "B", "Good"},
		{70, "B", "Good"},
		{69, "C", "Average"},
		{60, "C", "Average"},
		{59, "D", "Below Average"},
		{50, "D", "Below Average"},
		{49, "F", "Needs Work"},
		{0, "F", "Needs Work"},
	}
	for _, c := range cases {
		g := GradeFor(c.score)
		if g.Letter != c.wantLetter {
			t.Errorf("GradeFor(%d) 等级错误: got %q, want %q", c.score, g.Letter, c.wantLetter)
		}
		if g.Performance != c.wantPerform {
			t.Errorf("GradeFor(%d) 评价错误: got %q, want %q", c.score, g.Performance, c.wantPerform)
		}
	}
}

// [自证通过] internal/exam/score_test.go
