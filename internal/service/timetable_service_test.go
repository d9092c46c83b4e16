package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"planboard/backend/internal/agenda"
	"planboard/backend/internal/dto"
	"planboard/backend/internal/model"
	"planboard/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestTimetableService() (TimetableService, *mockCourseRepo, *mockAgendaRepo) {
	courseRepo := newMockCourseRepo()
	agendaRepo := newMockAgendaRepo()
	semesterRepo := newMockSemesterRepo()

	schemeID := "scheme-001"
	semesterRepo.semesters["sem-001"] = &model.Semester{
		SemesterID: "sem-001",
		Name:       "2025-2026 春季",
		StartDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), // 周一
		EndDate:    time.Date(2026, 6, 28, 0, 0, 0, 0, time.UTC),
		SchemeID:   &schemeID,
		Scheme: &model.TimeScheme{
			SchemeID: schemeID,
			Name:     "默认作息",
			Periods: []model.SchemePeriod{
				{SchemeID: schemeID, PeriodIndex: 1, StartTime: "08:00", EndTime: "08:45"},
				{SchemeID: schemeID, PeriodIndex: 2, StartTime: "08:55", EndTime: "09:40"},
				{SchemeID: schemeID, PeriodIndex: 3, StartTime: "10:00", EndTime: "10:45"},
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
	svc := NewTimetableService(repo, agenda.NewProjector(agendaRepo), zap.NewNop())
	return svc, courseRepo, agendaRepo
}

func lectureReq(name string, weekday, period int, parity string) *dto.CreateCourseRequest {
	return &dto.CreateCourseRequest{
		SemesterID:  "sem-001",
		Name:        name,
		Type:        "lecture",
		Weekday:     weekday,
		PeriodIndex: period,
		Parity:      parity,
	}
}

// ── CreateCourse 测试 ──

func TestTimetableService_CreateCourse_Success(t *testing.T) {
	svc, _, agendaRepo := setupTestTimetableService()

	result, conflicts, err := svc.CreateCourse(context.Background(), lectureReq("数据结构", 3, 2, "all"), false)
	if err != nil {
		t.Fatalf("CreateCourse 应成功: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("无冲突时冲突列表应为空，实际=%v", conflicts)
	}
	if result.Parity != "all" || result.Source != "manual" {
		t.Errorf("期望 parity=all source=manual，实际=%s/%s", result.Parity, result.Source)
	}

	// 创建后应投影到 agenda：首个周三 2026-03-04
	bucket := agendaRepo.buckets["2026-03-04"]
	if len(bucket) != 1 {
		t.Fatalf("期望首个周三有 1 条投影，实际=%d", len(bucket))
	}
	e := bucket[0]
	if e.SourceType != "course" || e.Content != "数据结构" || e.Time != "08:55" {
		t.Errorf("投影条目不符: %+v", e)
	}
}

func TestTimetableService_CreateCourse_ConflictRejected(t *testing.T) {
	svc, courseRepo, _ := setupTestTimetableService()
	ctx := context.Background()

	_, _, _ = svc.CreateCourse(ctx, lectureReq("数据结构", 3, 2, "all"), false)

	_, conflicts, err := svc.CreateCourse(ctx, lectureReq("操作系统", 3, 2, "all"), false)
	if !errors.Is(err, ErrCourseConflict) {
		t.Fatalf("期望 ErrCourseConflict，实际: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].Name != "数据结构" {
		t.Errorf("冲突列表期望含数据结构，实际=%v", conflicts)
	}
	if len(courseRepo.courses) != 1 {
		t.Errorf("冲突未 force 时不应保存，实际条数=%d", len(courseRepo.courses))
	}
}

func TestTimetableService_CreateCourse_ConflictForced(t *testing.T) {
	svc, courseRepo, _ := setupTestTimetableService()
	ctx := context.Background()

	_, _, _ = svc.CreateCourse(ctx, lectureReq("数据结构", 3, 2, "all"), false)

	result, conflicts, err := svc.CreateCourse(ctx, lectureReq("操作系统", 3, 2, "all"), true)
	if err != nil {
		t.Fatalf("force 时应带冲突保存: %v", err)
	}
	if result == nil || len(conflicts) != 1 {
		t.Errorf("force 保存仍应返回冲突列表，实际=%v", conflicts)
	}
	if len(courseRepo.courses) != 2 {
		t.Errorf("force 后期望 2 条，实际=%d", len(courseRepo.courses))
	}
}

func TestTimetableService_CreateCourse_InvalidShape(t *testing.T) {
	svc, _, _ := setupTestTimetableService()
	ctx := context.Background()

	// 常规课缺 weekday
	_, _, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{
		SemesterID: "sem-001", Name: "坏数据", Type: "lecture", PeriodIndex: 1,
	}, false)
	if !errors.Is(err, ErrCourseInvalidShape) {
		t.Errorf("期望 ErrCourseInvalidShape，实际: %v", err)
	}

	// 考试缺 exam_date
	_, _, err = svc.CreateCourse(ctx, &dto.CreateCourseRequest{
		SemesterID: "sem-001", Name: "坏考试", Type: "exam",
	}, false)
	if !errors.Is(err, ErrCourseInvalidShape) {
		t.Errorf("期望 ErrCourseInvalidShape，实际: %v", err)
	}
}

func TestTimetableService_CreateCourse_SemesterNotFound(t *testing.T) {
	svc, _, _ := setupTestTimetableService()

	req := lectureReq("数据结构", 3, 2, "all")
	req.SemesterID = "sem-404"
	if _, _, err := svc.CreateCourse(context.Background(), req, false); !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("期望 ErrSemesterNotFound，实际: %v", err)
	}
}

// ── Update / Delete 测试 ──

func TestTimetableService_UpdateCourse_RevalidatesShape(t *testing.T) {
	svc, _, _ := setupTestTimetableService()
	ctx := context.Background()

	created, _, _ := svc.CreateCourse(ctx, lectureReq("数据结构", 3, 2, "all"), false)

	// 改为考试但不提供日期 → 最终形态不完整
	examType := "exam"
	_, _, err := svc.UpdateCourse(ctx, created.ID, &dto.UpdateCourseRequest{Type: &examType}, false)
	if !errors.Is(err, ErrCourseInvalidShape) {
		t.Errorf("期望 ErrCourseInvalidShape，实际: %v", err)
	}
}

func TestTimetableService_DeleteCourse_ClearsProjection(t *testing.T) {
	svc, courseRepo, agendaRepo := setupTestTimetableService()
	ctx := context.Background()

	created, _, _ := svc.CreateCourse(ctx, lectureReq("数据结构", 3, 2, "all"), false)
	if len(agendaRepo.buckets) == 0 {
		t.Fatal("前置投影应存在")
	}

	if err := svc.DeleteCourse(ctx, created.ID); err != nil {
		t.Fatalf("DeleteCourse 应成功: %v", err)
	}
	if _, ok := courseRepo.courses[created.ID]; ok {
		t.Error("课表条目应被删除")
	}
	if len(agendaRepo.buckets) != 0 {
		t.Errorf("删除后投影应清空，实际桶数=%d", len(agendaRepo.buckets))
	}
}

// ── WeekView 测试 ──

func TestTimetableService_WeekView(t *testing.T) {
	svc, _, _ := setupTestTimetableService()
	ctx := context.Background()

	_, _, _ = svc.CreateCourse(ctx, lectureReq("数据结构", 3, 2, "all"), false)

	view, err := svc.WeekView(ctx, "sem-001", 2)
	if err != nil {
		t.Fatalf("WeekView 应成功: %v", err)
	}
	if view.StartDate != "2026-03-09" || view.EndDate != "2026-03-15" {
		t.Errorf("第 2 周期望 2026-03-09..2026-03-15，实际=%s..%s", view.StartDate, view.EndDate)
	}
	if len(view.Occurrences) != 1 {
		t.Fatalf("期望 1 次上课，实际=%d", len(view.Occurrences))
	}
	occ := view.Occurrences[0]
	if occ.Date != "2026-03-11" || occ.TeachingWeek != 2 {
		t.Errorf("期望 2026-03-11 第 2 教学周，实际=%s 第 %d 周", occ.Date, occ.TeachingWeek)
	}
	if occ.StartTime != "08:55" || occ.EndTime != "09:40" {
		t.Errorf("时间段应由作息方案解析，实际=%s-%s", occ.StartTime, occ.EndTime)
	}
}

// ── ImportICS 测试 ──

func icsFixture() string {
	return strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//timetable//CN",
		"BEGIN:VEVENT",
		"UID:evt-1",
		"DTSTART;TZID=Asia/Shanghai:20260304T085500",
		"DTEND;TZID=Asia/Shanghai:20260304T094000",
		"RRULE:FREQ=WEEKLY;COUNT=4",
		"SUMMARY:数据结构",
		"LOCATION:教101",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:evt-2",
		"DTSTART;TZID=Asia/Shanghai:20260305T073000",
		"DTEND;TZID=Asia/Shanghai:20260305T081500",
		"SUMMARY:早训",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")
}

func TestTimetableService_ImportICS(t *testing.T) {
	svc, courseRepo, _ := setupTestTimetableService()
	ctx := context.Background()

	result, err := svc.ImportICS(ctx, &dto.ImportICSRequest{
		SemesterID: "sem-001",
		ICSData:    icsFixture(),
	})
	if err != nil {
		t.Fatalf("ImportICS 应成功: %v", err)
	}
	// 07:30 的早训吸附不到任何节次 → 跳过并记告警
	if result.Imported != 1 || result.Skipped != 1 {
		t.Errorf("期望导入 1 跳过 1，实际=%d/%d", result.Imported, result.Skipped)
	}

	var imported *model.Course
	for _, c := range courseRepo.courses {
		if c.Source == "ics" {
			imported = c
		}
	}
	if imported == nil {
		t.Fatal("应存在 source=ics 的课表条目")
	}
	if imported.Weekday != 3 || imported.PeriodIndex != 2 {
		t.Errorf("期望周三第 2 节，实际=周%d第%d节", imported.Weekday, imported.PeriodIndex)
	}
	if imported.Parity != "all" {
		t.Errorf("第 1-4 周奇偶混合应推导 parity=all，实际=%s", imported.Parity)
	}
	if imported.Location != "教101" {
		t.Errorf("期望地点=教101，实际=%s", imported.Location)
	}
}

func TestTimetableService_ImportICS_ReplacesOldImport(t *testing.T) {
	svc, courseRepo, _ := setupTestTimetableService()
	ctx := context.Background()

	// 手动条目与历史导入条目并存
	_, _, _ = svc.CreateCourse(ctx, lectureReq("手动课", 5, 1, "all"), false)
	courseRepo.courses["old-ics"] = &model.Course{
		CourseID: "old-ics", SemesterID: "sem-001", Name: "旧导入",
		Type: "lecture", Weekday: 2, PeriodIndex: 1, Parity: "all", Source: "ics",
	}

	_, err := svc.ImportICS(ctx, &dto.ImportICSRequest{SemesterID: "sem-001", ICSData: icsFixture()})
	if err != nil {
		t.Fatalf("ImportICS 应成功: %v", err)
	}

	if _, ok := courseRepo.courses["old-ics"]; ok {
		t.Error("旧导入条目应被全量替换")
	}
	manualKept := false
	for _, c := range courseRepo.courses {
		if c.Name == "手动课" {
			manualKept = true
		}
	}
	if !manualKept {
		t.Error("手动条目不应受导入替换影响")
	}
}

func TestTimetableService_ImportICS_Empty(t *testing.T) {
	svc, _, _ := setupTestTimetableService()

	empty := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//timetable//CN",
		"END:VCALENDAR",
	}, "\r\n")
	_, err := svc.ImportICS(context.Background(), &dto.ImportICSRequest{SemesterID: "sem-001", ICSData: empty})
	if !errors.Is(err, ErrICSEmpty) {
		t.Errorf("期望 ErrICSEmpty，实际: %v", err)
	}
}

// ── SyncSemester 测试 ──

func TestTimetableService_SyncSemester_Idempotent(t *testing.T) {
	svc, _, agendaRepo := setupTestTimetableService()
	ctx := context.Background()

	_, _, _ = svc.CreateCourse(ctx, lectureReq("数据结构", 3, 2, "all"), false)
	before := len(agendaRepo.buckets)

	// 投影被破坏后重投影应恢复
	agendaRepo.buckets = make(map[string][]model.AgendaEntry)
	if err := svc.SyncSemester(ctx, "sem-001"); err != nil {
		t.Fatalf("SyncSemester 应成功: %v", err)
	}
	if len(agendaRepo.buckets) != before {
		t.Errorf("重投影后期望 %d 桶，实际=%d", before, len(agendaRepo.buckets))
	}
}
