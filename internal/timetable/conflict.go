package timetable

import (
	"planboard/backend/internal/model"
	"planboard/backend/pkg/dateutil"
)

// ── 冲突检测 ────────────────────────────────────────────────
//
// 两步判定：
//   1. 日期相容过滤 — 两条目是否可能落在同一天
//      常规 × 常规：同 weekday 且奇偶性有交集（odd 与 even 永不同周）
//      常规 × 考试：考试派生 weekday 相同、考试日在学期窗口内、
//                   且教学周奇偶性满足常规课程的 parity
//      考试 × 考试：同一 exam_date
//   2. 时间重叠 — 墙钟区间重叠 或 节次区间重叠，任一命中即冲突。
//      考试可能带有不对齐节次边界的显式时间，故两种判定都要做；
//      节次在作息方案中缺失时墙钟区间为空，只剩节次判定。
//
// 判定对称（A 撞 B ⟺ B 撞 A），且绝不将候选与自身配对。
// ─────────────────────────────────────────────────────────────

// FindConflicts 返回与候选条目时间冲突的全部已有条目。
// 冲突不是错误：调用方可拒绝保存，也可警告后强制保存。
func FindConflicts(candidate *model.Course, existing []model.Course, semester *model.Semester, scheme *model.TimeScheme) []model.Course {
	var conflicts []model.Course
	for i := range existing {
		other := &existing[i]
		if other.CourseID == candidate.CourseID && candidate.CourseID != "" {
			continue
		}
		if other.SemesterID != candidate.SemesterID {
			continue
		}
		if !dateCompatible(candidate, other, semester) {
			continue
		}
		if overlaps(candidate, other, scheme) {
			conflicts = append(conflicts, *other)
		}
	}
	return conflicts
}

// dateCompatible 两条目是否可能落在同一天
func dateCompatible(a, b *model.Course, semester *model.Semester) bool {
	switch {
	case !a.IsExam() && !b.IsExam():
		return a.Weekday == b.Weekday && paritiesIntersect(a.Parity, b.Parity)
	case a.IsExam() && b.IsExam():
		return a.ExamDate != nil && b.ExamDate != nil &&
			dateutil.DateOnly(*a.ExamDate).Equal(dateutil.DateOnly(*b.ExamDate))
	case a.IsExam():
		return examMeetsRegular(a, b, semester)
	default:
		return examMeetsRegular(b, a, semester)
	}
}

// examMeetsRegular 考试日是否落在常规课程的某次上课日
func examMeetsRegular(exam, regular *model.Course, semester *model.Semester) bool {
	if exam.ExamDate == nil {
		return false
	}
	if exam.EffectiveWeekday() != regular.Weekday {
		return false
	}
	week := dateutil.TeachingWeek(*exam.ExamDate, semester.StartDate, semester.EndDate)
	if week == 0 {
		return false
	}
	return parityMatches(regular.Parity, week)
}

// paritiesIntersect 奇偶约束是否存在共同教学周
func paritiesIntersect(a, b string) bool {
	if a == "odd" && b == "even" {
		return false
	}
	if a == "even" && b == "odd" {
		return false
	}
	return true
}

// overlaps 时间重叠判定：墙钟 或 节次，任一命中
func overlaps(a, b *model.Course, scheme *model.TimeScheme) bool {
	aStart, aEnd := timeRange(a, scheme)
	bStart, bEnd := timeRange(b, scheme)
	// HH:MM 零填充格式下字典序等价于时间序
	if aStart != "" && bStart != "" && aStart < bEnd && bStart < aEnd {
		return true
	}

	aS, aE := a.PeriodSpan()
	bS, bE := b.PeriodSpan()
	return aS >= 1 && bS >= 1 && aS <= bE && bS <= aE
}

// timeRange 解析条目的墙钟时间段。
// 常规课程查作息方案；考试用自身显式时间。解析不到时返回空串。
func timeRange(c *model.Course, scheme *model.TimeScheme) (string, string) {
	if c.IsExam() {
		return c.ExamStartTime, c.ExamEndTime
	}
	start, end, ok := scheme.PeriodRange(c.PeriodIndex)
	if !ok {
		return "", ""
	}
	return start, end
}
