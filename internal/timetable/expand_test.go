package timetable

import (
	"testing"
	"time"

	"planboard/backend/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2024-02-26 是周一
func testSemester() *model.Semester {
	return &model.Semester{
		SemesterID: "sem-1",
		Name:       "2023-2024 春季",
		StartDate:  date(2024, 2, 26),
		EndDate:    date(2024, 6, 30),
	}
}

func testScheme() *model.TimeScheme {
	return &model.TimeScheme{
		SchemeID: "scheme-1",
		Name:     "默认作息",
		Periods: []model.SchemePeriod{
			{SchemeID: "scheme-1", PeriodIndex: 1, StartTime: "08:00", EndTime: "08:45"},
			{SchemeID: "scheme-1", PeriodIndex: 2, StartTime: "08:55", EndTime: "09:40"},
			{SchemeID: "scheme-1", PeriodIndex: 3, StartTime: "10:00", EndTime: "10:45"},
		},
	}
}

func TestExpandCourse_WeeklyAll(t *testing.T) {
	sem := testSemester()
	course := &model.Course{
		CourseID:    "c-1",
		SemesterID:  sem.SemesterID,
		Name:        "数据结构",
		Type:        "lecture",
		Weekday:     3, // 周三
		PeriodIndex: 2,
		Parity:      "all",
	}

	occs := ExpandCourse(course, sem, testScheme())
	if len(occs) == 0 {
		t.Fatal("应产生至少一次上课")
	}

	// 首次应为窗口内第一个周三
	if first := occs[0]; !first.Date.Equal(date(2024, 2, 28)) {
		t.Errorf("首次上课期望 2024-02-28，实际=%v", first.Date)
	}
	for _, occ := range occs {
		if occ.Weekday != 3 {
			t.Errorf("所有上课应在周三，实际 weekday=%d (%v)", occ.Weekday, occ.Date)
		}
		if occ.StartTime != "08:55" || occ.EndTime != "09:40" {
			t.Errorf("时间段应由作息方案解析，实际=%s-%s", occ.StartTime, occ.EndTime)
		}
		if occ.TeachingWeek < 1 {
			t.Errorf("教学周应 ≥1，实际=%d", occ.TeachingWeek)
		}
	}
	// 相邻两次间隔恰好 7 天
	for i := 1; i < len(occs); i++ {
		if occs[i].Date.Sub(occs[i-1].Date) != 7*24*time.Hour {
			t.Errorf("相邻上课间隔应为 7 天: %v → %v", occs[i-1].Date, occs[i].Date)
		}
	}
}

func TestExpandCourse_OddParity(t *testing.T) {
	sem := testSemester()
	course := &model.Course{
		CourseID:    "c-2",
		SemesterID:  sem.SemesterID,
		Name:        "操作系统实验",
		Type:        "lab",
		Weekday:     1,
		PeriodIndex: 1,
		Parity:      "odd",
	}

	occs := ExpandCourse(course, sem, testScheme())
	for _, occ := range occs {
		if occ.TeachingWeek%2 != 1 {
			t.Errorf("单周课程出现在偶数周 %d (%v)", occ.TeachingWeek, occ.Date)
		}
	}
	// 第 1 周周一即学期首日
	if !occs[0].Date.Equal(date(2024, 2, 26)) {
		t.Errorf("首次上课期望 2024-02-26，实际=%v", occs[0].Date)
	}
	if !occs[1].Date.Equal(date(2024, 3, 11)) {
		t.Errorf("第二次上课期望 2024-03-11（第 3 教学周），实际=%v", occs[1].Date)
	}
}

func TestExpandCourse_MissingPeriodStillPlaces(t *testing.T) {
	sem := testSemester()
	course := &model.Course{
		CourseID:    "c-3",
		SemesterID:  sem.SemesterID,
		Name:        "晚自习",
		Type:        "seminar",
		Weekday:     2,
		PeriodIndex: 99, // 作息方案中不存在
		Parity:      "all",
	}

	occs := ExpandCourse(course, sem, testScheme())
	if len(occs) == 0 {
		t.Fatal("节次缺失时课程仍应落位")
	}
	for _, occ := range occs {
		if occ.StartTime != "" || occ.EndTime != "" {
			t.Errorf("节次缺失时时间段应为空，实际=%s-%s", occ.StartTime, occ.EndTime)
		}
		if occ.PeriodStart != 99 {
			t.Errorf("节次序号应保留，实际=%d", occ.PeriodStart)
		}
	}
}

func TestExpandCourse_NilScheme(t *testing.T) {
	sem := testSemester()
	course := &model.Course{
		CourseID:    "c-4",
		SemesterID:  sem.SemesterID,
		Name:        "体育",
		Type:        "lecture",
		Weekday:     5,
		PeriodIndex: 1,
		Parity:      "all",
	}

	occs := ExpandCourse(course, sem, nil)
	if len(occs) == 0 {
		t.Fatal("无作息方案时课程仍应落位")
	}
	if occs[0].StartTime != "" {
		t.Errorf("无作息方案时时间段应为空，实际=%s", occs[0].StartTime)
	}
}

func TestExpandCourse_Exam(t *testing.T) {
	sem := testSemester()
	examDate := date(2024, 3, 13) // 周三，第 3 教学周
	course := &model.Course{
		CourseID:        "c-5",
		SemesterID:      sem.SemesterID,
		Name:            "数据结构期中",
		Type:            "exam",
		ExamDate:        &examDate,
		ExamStartPeriod: 2,
		ExamEndPeriod:   3,
		ExamStartTime:   "09:00",
		ExamEndTime:     "11:00",
	}

	occs := ExpandCourse(course, sem, testScheme())
	if len(occs) != 1 {
		t.Fatalf("考试应恰好展开一次，实际=%d", len(occs))
	}
	occ := occs[0]
	if !occ.Date.Equal(examDate) {
		t.Errorf("考试日期期望 %v，实际=%v", examDate, occ.Date)
	}
	if occ.Weekday != 3 {
		t.Errorf("考试 weekday 应由日期派生为 3，实际=%d", occ.Weekday)
	}
	if occ.TeachingWeek != 3 {
		t.Errorf("教学周期望 3，实际=%d", occ.TeachingWeek)
	}
	// 考试用自身显式时间，不查作息方案
	if occ.StartTime != "09:00" || occ.EndTime != "11:00" {
		t.Errorf("考试时间应取显式字段，实际=%s-%s", occ.StartTime, occ.EndTime)
	}
	if occ.PeriodStart != 2 || occ.PeriodEnd != 3 {
		t.Errorf("考试节次区间期望 [2,3]，实际=[%d,%d]", occ.PeriodStart, occ.PeriodEnd)
	}
}

func TestExpandCourse_ExamWithoutDate(t *testing.T) {
	sem := testSemester()
	course := &model.Course{
		CourseID:   "c-6",
		SemesterID: sem.SemesterID,
		Name:       "缺日期考试",
		Type:       "exam",
	}
	if occs := ExpandCourse(course, sem, testScheme()); occs != nil {
		t.Errorf("缺少考试日期时不应产生出现，实际=%d", len(occs))
	}
}

func TestExpandCourse_InvalidWeekday(t *testing.T) {
	sem := testSemester()
	course := &model.Course{
		CourseID:    "c-7",
		SemesterID:  sem.SemesterID,
		Name:        "坏数据",
		Type:        "lecture",
		Weekday:     0,
		PeriodIndex: 1,
	}
	if occs := ExpandCourse(course, sem, testScheme()); occs != nil {
		t.Errorf("weekday 越界时不应产生出现，实际=%d", len(occs))
	}
}
