package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"planboard/backend/internal/model"
	"planboard/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *mockCourseRepo, *mockAgendaRepo) {
	courseRepo := newMockCourseRepo()
	agendaRepo := newMockAgendaRepo()
	semesterRepo := newMockSemesterRepo()

	schemeID := "scheme-001"
	semesterRepo.semesters["sem-001"] = &model.Semester{
		SemesterID: "sem-001",
		Name:       "2025-2026 春季",
		StartDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 6, 28, 0, 0, 0, 0, time.UTC),
		SchemeID:   &schemeID,
		Scheme: &model.TimeScheme{
			SchemeID: schemeID,
			Name:     "默认作息",
			Periods: []model.SchemePeriod{
				{SchemeID: schemeID, PeriodIndex: 1, StartTime: "08:00", EndTime: "08:45"},
				{SchemeID: schemeID, PeriodIndex: 2, StartTime: "08:55", EndTime: "09:40"},
			},
		},
	}

	repo := &repository.Repository{
		Plan:     newMockPlanRepo(),
		Semester: semesterRepo,
		Scheme:   newMockSchemeRepo(),
		Course:   courseRepo,
		Agenda:   agendaRepo,
	}
	svc := NewExportService(repo, zap.NewNop())
	return svc, courseRepo, agendaRepo
}

// ── ExportTimetable 测试 ──

func TestExportService_ExportTimetable(t *testing.T) {
	svc, courseRepo, _ := setupTestExportService()
	ctx := context.Background()

	examDate := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	courseRepo.courses["c-1"] = &model.Course{
		CourseID: "c-1", SemesterID: "sem-001", Name: "数据结构", Type: "lecture",
		Location: "教101", Weekday: 3, PeriodIndex: 2, Parity: "odd", Source: "manual",
	}
	courseRepo.courses["c-2"] = &model.Course{
		CourseID: "c-2", SemesterID: "sem-001", Name: "数据结构期中", Type: "exam",
		ExamDate: &examDate, ExamStartPeriod: 1, ExamEndPeriod: 2,
		ExamStartTime: "09:00", ExamEndTime: "11:00", Source: "manual",
	}

	buf, filename, err := svc.ExportTimetable(ctx, "sem-001")
	if err != nil {
		t.Fatalf("ExportTimetable 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际=%s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	hasGrid, hasExam := false, false
	for _, s := range sheets {
		if s == "课程表" {
			hasGrid = true
		}
		if s == "考试" {
			hasExam = true
		}
	}
	if !hasGrid || !hasExam {
		t.Fatalf("期望课程表与考试两张 Sheet，实际=%v", sheets)
	}

	// 周三列（E）第 2 节行应含课程名与单周标注
	val, _ := f.GetCellValue("课程表", "E4")
	if !strings.Contains(val, "数据结构") || !strings.Contains(val, "单周") {
		t.Errorf("网格单元格期望含课程名与单周标注，实际=%q", val)
	}

	examDateCell, _ := f.GetCellValue("考试", "A2")
	if examDateCell != "2026-04-15" {
		t.Errorf("考试日期期望 2026-04-15，实际=%q", examDateCell)
	}
}

func TestExportService_ExportTimetable_NoCourses(t *testing.T) {
	svc, _, _ := setupTestExportService()

	if _, _, err := svc.ExportTimetable(context.Background(), "sem-001"); !errors.Is(err, ErrExportNoCourses) {
		t.Errorf("期望 ErrExportNoCourses，实际: %v", err)
	}
}

func TestExportService_ExportTimetable_SemesterNotFound(t *testing.T) {
	svc, _, _ := setupTestExportService()

	if _, _, err := svc.ExportTimetable(context.Background(), "sem-404"); !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("期望 ErrSemesterNotFound，实际: %v", err)
	}
}

// ── ExportAgendaICS 测试 ──

func TestExportService_ExportAgendaICS(t *testing.T) {
	svc, _, agendaRepo := setupTestExportService()
	ctx := context.Background()

	_ = agendaRepo.SetBucket(ctx, "2026-03-02", []model.AgendaEntry{
		{
			EntryID: "plan-001-2026-03-02", DateKey: "2026-03-02", Time: "08:00",
			Content: "晨读", Priority: 2, SourceID: "plan-001", SourceType: "plan",
		},
		{
			EntryID: "m-1", DateKey: "2026-03-02",
			Content: "全天事项", Priority: 2, SourceType: "manual",
		},
	})

	out, err := svc.ExportAgendaICS(ctx, "2026-03-01", "2026-03-07")
	if err != nil {
		t.Fatalf("ExportAgendaICS 应成功: %v", err)
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Error("输出应为完整 VCALENDAR")
	}
	if !strings.Contains(out, "plan-001-2026-03-02@planboard") {
		t.Error("VEVENT UID 应复用条目 ID")
	}
	if !strings.Contains(out, "晨读") || !strings.Contains(out, "全天事项") {
		t.Error("区间内条目都应出现在输出中")
	}
	if strings.Count(out, "BEGIN:VEVENT") != 2 {
		t.Errorf("期望 2 个 VEVENT，实际=%d", strings.Count(out, "BEGIN:VEVENT"))
	}
}

func TestExportService_ExportAgendaICS_InvalidRange(t *testing.T) {
	svc, _, _ := setupTestExportService()
	ctx := context.Background()

	if _, err := svc.ExportAgendaICS(ctx, "2026-03-07", "2026-03-01"); !errors.Is(err, ErrAgendaRangeInvalid) {
		t.Errorf("倒置区间期望 ErrAgendaRangeInvalid，实际: %v", err)
	}
	if _, err := svc.ExportAgendaICS(ctx, "2026-01-01", "2027-06-01"); !errors.Is(err, ErrAgendaRangeTooWide) {
		t.Errorf("超宽区间期望 ErrAgendaRangeTooWide，实际: %v", err)
	}
}
