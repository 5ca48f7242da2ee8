package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
// 测试成绩的 MCQ / 编程两次提交可能并发到达同一条 TestResult，
// Update 时校验 version 字段，冲突方收到本错误后重读合并再写。
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
