package timetable

import (
	"time"

	"planboard/backend/internal/model"
	"planboard/backend/pkg/dateutil"
)

// Occurrence 课表条目展开后的单次上课/考试
type Occurrence struct {
	CourseID     string    `json:"course_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Date         time.Time `json:"date"`
	Weekday      int       `json:"weekday"`       // ISO 1-7
	TeachingWeek int       `json:"teaching_week"` // 0 = 学期窗口之外
	PeriodStart  int       `json:"period_start"`
	PeriodEnd    int       `json:"period_end"`
	StartTime    string    `json:"start_time,omitempty"` // 节次缺失时为空
	EndTime      string    `json:"end_time,omitempty"`
	Location     string    `json:"location,omitempty"`
}

// ExpandCourse 将课表条目在学期窗口内展开为具体日期。
//
// 常规课程：学期窗口内每个 weekday 匹配的日期，按 parity 过滤教学周
// 奇偶性，时间段由作息方案按 period_index 解析（缺失则为空，课程仍落位）。
// 考试：恰好一次，exam_date + 显式起止时间，不查作息方案；
// weekday 由 exam_date 派生以供冲突匹配。
func ExpandCourse(course *model.Course, semester *model.Semester, scheme *model.TimeScheme) []Occurrence {
	if course.IsExam() {
		return expandExam(course, semester)
	}
	if course.Weekday < 1 || course.Weekday > 7 {
		return nil
	}

	start, end, _ := scheme.PeriodRange(course.PeriodIndex)

	var occs []Occurrence
	// 对齐到窗口内第一个匹配的 weekday，之后按周步进
	first := dateutil.DateOnly(semester.StartDate)
	offset := (course.Weekday - dateutil.ISOWeekday(first) + 7) % 7
	for cur := dateutil.AddDays(first, offset); !cur.After(dateutil.DateOnly(semester.EndDate)); cur = dateutil.AddDays(cur, 7) {
		week := dateutil.TeachingWeek(cur, semester.StartDate, semester.EndDate)
		if !parityMatches(course.Parity, week) {
			continue
		}
		occs = append(occs, Occurrence{
			CourseID:     course.CourseID,
			Name:         course.Name,
			Type:         course.Type,
			Date:         cur,
			Weekday:      course.Weekday,
			TeachingWeek: week,
			PeriodStart:  course.PeriodIndex,
			PeriodEnd:    course.PeriodIndex,
			StartTime:    start,
			EndTime:      end,
			Location:     course.Location,
		})
	}
	return occs
}

func expandExam(course *model.Course, semester *model.Semester) []Occurrence {
	if course.ExamDate == nil {
		return nil
	}
	date := dateutil.DateOnly(*course.ExamDate)
	return []Occurrence{{
		CourseID:     course.CourseID,
		Name:         course.Name,
		Type:         course.Type,
		Date:         date,
		Weekday:      dateutil.ISOWeekday(date),
		TeachingWeek: dateutil.TeachingWeek(date, semester.StartDate, semester.EndDate),
		PeriodStart:  course.ExamStartPeriod,
		PeriodEnd:    course.ExamEndPeriod,
		StartTime:    course.ExamStartTime,
		EndTime:      course.ExamEndTime,
		Location:     course.Location,
	}}
}

// parityMatches 教学周奇偶性匹配：odd = 第 1、3、5… 教学周
func parityMatches(parity string, teachingWeek int) bool {
	switch parity {
	case "odd":
		return teachingWeek%2 == 1
	case "even":
		return teachingWeek%2 == 0
	}
	return true // all 或未设置
}
