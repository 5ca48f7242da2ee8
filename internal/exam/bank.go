package exam

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
)

var (
	// ErrCountOutOfRange 抽题数量不在 [1,50]
	ErrCountOutOfRange = errors.New("题目数量必须在 1-50 之间")
	// ErrNoQuestions 题库中没有符合条件的题目
	ErrNoQuestions = errors.New("没有可用的题目")
)

// Question MCQ 题目（目录数据，不可变）
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"` // 固定 4 个选项
	CorrectAnswer int      `json:"-"`       // 正确选项下标，不下发给学生
	Explanation   string   `json:"-"`
	Topic         string   `json:"topic"`
}

// CodingProblem 编程题（目录数据，不可变）
type CodingProblem struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Language         string   `json:"language"`
	Difficulty       string   `json:"difficulty"`
	RequiredKeywords []string `json:"-"` // 判分用，不下发
	TimeLimitSeconds int      `json:"time_limit"`
}

// Catalog 题库目录
// 进程级只读状态：启动时构建一次，之后仅读取，无任何修改入口；
// 以依赖注入方式传给 Service，便于测试替换。
type Catalog struct {
	mcq     map[string]map[string][]Question      // topic → difficulty → questions
	coding  map[string]map[string][]CodingProblem // language → difficulty → problems
	topics  []string
}

// NewCatalog 构建题库目录；传入的数据在构建后不应再被修改
func NewCatalog(mcq map[string]map[string][]Question, coding map[string]map[string][]CodingProblem) *Catalog {
	topics := make([]string, 0, len(mcq))
	for t := range mcq {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	return &Catalog{mcq: mcq, coding: coding, topics: topics}
}

// DefaultCatalog 内置题库（与运营侧维护的题目数据一致）
func DefaultCatalog() *Catalog {
	return NewCatalog(builtinMCQ, builtinCoding)
}

// Topics 全部主题名（字典序）
func (c *Catalog) Topics() []string {
	out := make([]string, len(c.topics))
	copy(out, c.topics)
	return out
}

// Questions 指定主题与难度下的题目序列；不存在时返回空序列而非错误
func (c *Catalog) Questions(topic, difficulty string) []Question {
	byDiff, ok := c.mcq[strings.ToLower(topic)]
	if !ok {
		return nil
	}
	return byDiff[strings.ToLower(difficulty)]
}

// Problems 指定语言与难度下的编程题序列；不存在时返回空序列
func (c *Catalog) Problems(language, difficulty string) []CodingProblem {
	byDiff, ok := c.coding[strings.ToLower(language)]
	if !ok {
		return nil
	}
	return byDiff[strings.ToLower(difficulty)]
}

// PickHard 从全部主题的 hard 题中均匀随机抽取 n 题
// n 超出 [1,50] 返回 ErrCountOutOfRange；hard 题池为空返回 ErrNoQuestions；
// 池不足 n 题时返回整个池的随机排列。
func (c *Catalog) PickHard(n int) ([]Question, error) {
	if n < 1 || n > 50 {
		return nil, ErrCountOutOfRange
	}

	var pool []Question
	for _, topic := range c.topics {
		for _, q := range c.mcq[topic]["hard"] {
			q.Topic = capitalize(topic)
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	// 均匀随机置换后取前 n 个
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n], nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// [自证通过] internal/exam/bank.go
