package timetable

import (
	"testing"
	"time"

	"planboard/backend/internal/model"
)

func regularCourse(id string, weekday, period int, parity string) model.Course {
	return model.Course{
		CourseID:    id,
		SemesterID:  "sem-1",
		Name:        "课程 " + id,
		Type:        "lecture",
		Weekday:     weekday,
		PeriodIndex: period,
		Parity:      parity,
	}
}

func examCourse(id string, day time.Time, startP, endP int, startT, endT string) model.Course {
	return model.Course{
		CourseID:        id,
		SemesterID:      "sem-1",
		Name:            "考试 " + id,
		Type:            "exam",
		ExamDate:        &day,
		ExamStartPeriod: startP,
		ExamEndPeriod:   endP,
		ExamStartTime:   startT,
		ExamEndTime:     endT,
	}
}

// ── 常规 × 常规 ──

func TestFindConflicts_SamePeriodSameWeekday(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	existing := []model.Course{regularCourse("a", 3, 2, "all")}
	candidate := regularCourse("b", 3, 2, "all")

	got := FindConflicts(&candidate, existing, sem, scheme)
	if len(got) != 1 || got[0].CourseID != "a" {
		t.Fatalf("同星期同节次应冲突，实际=%v", got)
	}
}

func TestFindConflicts_DifferentWeekday(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	existing := []model.Course{regularCourse("a", 3, 2, "all")}
	candidate := regularCourse("b", 4, 2, "all")

	if got := FindConflicts(&candidate, existing, sem, scheme); len(got) != 0 {
		t.Errorf("不同星期不应冲突，实际=%v", got)
	}
}

func TestFindConflicts_OddEvenNeverMeet(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	existing := []model.Course{regularCourse("a", 3, 2, "odd")}
	candidate := regularCourse("b", 3, 2, "even")

	if got := FindConflicts(&candidate, existing, sem, scheme); len(got) != 0 {
		t.Errorf("单周与双周课程永不同周，不应冲突，实际=%v", got)
	}

	// odd × all 存在共同周 → 冲突
	candidate2 := regularCourse("c", 3, 2, "all")
	if got := FindConflicts(&candidate2, existing, sem, scheme); len(got) != 1 {
		t.Errorf("odd 与 all 应冲突，实际=%v", got)
	}
}

func TestFindConflicts_SkipsSelfAndOtherSemester(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	self := regularCourse("a", 3, 2, "all")
	other := regularCourse("b", 3, 2, "all")
	other.SemesterID = "sem-2"

	if got := FindConflicts(&self, []model.Course{self, other}, sem, scheme); len(got) != 0 {
		t.Errorf("自身与他学期条目都应跳过，实际=%v", got)
	}
}

// ── 考试 × 常规 ──
//
// 场景：常规课每单周周三第 2 节；学期自 2024-02-26（周一）起。
// 2024-03-13 是第 3 教学周周三（单周，有课），
// 2024-03-20 是第 4 教学周周三（双周，无课）。

func TestFindConflicts_ExamMeetsRegular(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	existing := []model.Course{regularCourse("reg", 3, 2, "odd")}

	exam := examCourse("ex1", date(2024, 3, 13), 2, 3, "", "")
	got := FindConflicts(&exam, existing, sem, scheme)
	if len(got) != 1 || got[0].CourseID != "reg" {
		t.Fatalf("考试落在上课日且节次重叠应冲突，实际=%v", got)
	}
}

func TestFindConflicts_ExamOnOffWeek(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	existing := []model.Course{regularCourse("reg", 3, 2, "odd")}

	// 第 4 教学周（双周）：单周课程当天无课
	exam := examCourse("ex2", date(2024, 3, 20), 2, 3, "", "")
	if got := FindConflicts(&exam, existing, sem, scheme); len(got) != 0 {
		t.Errorf("考试落在停课周不应冲突，实际=%v", got)
	}
}

func TestFindConflicts_ExamOutsideSemester(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	existing := []model.Course{regularCourse("reg", 3, 2, "all")}

	// 2024-07-03 是周三，但在学期窗口之外
	exam := examCourse("ex3", date(2024, 7, 3), 2, 3, "", "")
	if got := FindConflicts(&exam, existing, sem, scheme); len(got) != 0 {
		t.Errorf("窗口外考试不应冲突，实际=%v", got)
	}
}

func TestFindConflicts_ExamWallClockOverlap(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	existing := []model.Course{regularCourse("reg", 3, 2, "all")} // 08:55-09:40

	// 考试只带显式时间（无节次），09:30 开始与第 2 节尾部重叠
	exam := examCourse("ex4", date(2024, 3, 13), 0, 0, "09:30", "10:30")
	got := FindConflicts(&exam, existing, sem, scheme)
	if len(got) != 1 {
		t.Fatalf("墙钟时间重叠应冲突，实际=%v", got)
	}

	// 09:40 开始与 08:55-09:40 相邻但不重叠（区间半开）
	exam2 := examCourse("ex5", date(2024, 3, 13), 0, 0, "09:40", "10:30")
	if got := FindConflicts(&exam2, existing, sem, scheme); len(got) != 0 {
		t.Errorf("相邻时间段不应冲突，实际=%v", got)
	}
}

func TestFindConflicts_MissingPeriodFallsBackToSpan(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	// 节次 99 在作息方案中不存在，墙钟区间为空，退化为节次区间判定
	existing := []model.Course{regularCourse("reg", 3, 99, "all")}

	candidate := regularCourse("cand", 3, 99, "all")
	if got := FindConflicts(&candidate, existing, sem, scheme); len(got) != 1 {
		t.Errorf("同一缺失节次应按节次区间判定冲突，实际=%v", got)
	}
}

// ── 考试 × 考试 ──

func TestFindConflicts_ExamVsExam(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	existing := []model.Course{examCourse("ex-a", date(2024, 3, 13), 2, 3, "09:00", "11:00")}

	sameDay := examCourse("ex-b", date(2024, 3, 13), 3, 4, "10:30", "12:00")
	if got := FindConflicts(&sameDay, existing, sem, scheme); len(got) != 1 {
		t.Errorf("同日且时间重叠的考试应冲突，实际=%v", got)
	}

	otherDay := examCourse("ex-c", date(2024, 3, 14), 2, 3, "09:00", "11:00")
	if got := FindConflicts(&otherDay, existing, sem, scheme); len(got) != 0 {
		t.Errorf("不同日考试不应冲突，实际=%v", got)
	}
}

// ── 对称性 ──

func TestFindConflicts_Symmetric(t *testing.T) {
	sem := testSemester()
	scheme := testScheme()
	reg := regularCourse("reg", 3, 2, "odd")
	exam := examCourse("ex", date(2024, 3, 13), 2, 2, "", "")

	ab := FindConflicts(&reg, []model.Course{exam}, sem, scheme)
	ba := FindConflicts(&exam, []model.Course{reg}, sem, scheme)
	if (len(ab) == 1) != (len(ba) == 1) {
		t.Errorf("冲突判定应对称: reg→exam=%d, exam→reg=%d", len(ab), len(ba))
	}
}
