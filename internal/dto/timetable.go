package dto

// ── 课表模块 ──

// CreateCourseRequest 创建课表条目请求。
// 常规课填 weekday/period_index/parity；考试填 exam_* 字段，二者互斥。
type CreateCourseRequest struct {
	SemesterID string `json:"semester_id" binding:"required,uuid"`
	Name       string `json:"name" binding:"required,max=100"`
	Type       string `json:"type" binding:"required,oneof=lecture lab seminar exam"`
	Location   string `json:"location" binding:"omitempty,max=100"`
	Color      string `json:"color" binding:"omitempty,max=20"`

	// 常规课字段
	Weekday     int    `json:"weekday" binding:"omitempty,min=1,max=7"`
	PeriodIndex int    `json:"period_index" binding:"omitempty,min=1"`
	Parity      string `json:"parity" binding:"omitempty,oneof=all odd even"`

	// 考试字段
	ExamDate        string `json:"exam_date" binding:"omitempty,datetime=2006-01-02"`
	ExamStartPeriod int    `json:"exam_start_period" binding:"omitempty,min=1"`
	ExamEndPeriod   int    `json:"exam_end_period" binding:"omitempty,min=1"`
	ExamStartTime   string `json:"exam_start_time" binding:"omitempty,datetime=15:04"`
	ExamEndTime     string `json:"exam_end_time" binding:"omitempty,datetime=15:04"`
}

// UpdateCourseRequest 更新课表条目请求（字段可选）
type UpdateCourseRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Type     *string `json:"type" binding:"omitempty,oneof=lecture lab seminar exam"`
	Location *string `json:"location" binding:"omitempty,max=100"`
	Color    *string `json:"color" binding:"omitempty,max=20"`

	Weekday     *int    `json:"weekday" binding:"omitempty,min=1,max=7"`
	PeriodIndex *int    `json:"period_index" binding:"omitempty,min=1"`
	Parity      *string `json:"parity" binding:"omitempty,oneof=all odd even"`

	ExamDate        *string `json:"exam_date" binding:"omitempty,datetime=2006-01-02"`
	ExamStartPeriod *int    `json:"exam_start_period" binding:"omitempty,min=1"`
	ExamEndPeriod   *int    `json:"exam_end_period" binding:"omitempty,min=1"`
	ExamStartTime   *string `json:"exam_start_time" binding:"omitempty,datetime=15:04"`
	ExamEndTime     *string `json:"exam_end_time" binding:"omitempty,datetime=15:04"`
}

// CourseResponse 课表条目响应
type CourseResponse struct {
	ID         string `json:"id"`
	SemesterID string `json:"semester_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Location   string `json:"location,omitempty"`
	Color      string `json:"color,omitempty"`
	Source     string `json:"source"`

	Weekday     int    `json:"weekday,omitempty"`
	PeriodIndex int    `json:"period_index,omitempty"`
	Parity      string `json:"parity,omitempty"`

	ExamDate        string `json:"exam_date,omitempty"`
	ExamStartPeriod int    `json:"exam_start_period,omitempty"`
	ExamEndPeriod   int    `json:"exam_end_period,omitempty"`
	ExamStartTime   string `json:"exam_start_time,omitempty"`
	ExamEndTime     string `json:"exam_end_time,omitempty"`
}

// ConflictListResponse 冲突检测结果（409 时随响应返回）
type ConflictListResponse struct {
	Conflicts []CourseResponse `json:"conflicts"`
}

// OccurrenceResponse 单次上课响应
type OccurrenceResponse struct {
	CourseID     string `json:"course_id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Date         string `json:"date"`
	Weekday      int    `json:"weekday"`
	TeachingWeek int    `json:"teaching_week"`
	PeriodStart  int    `json:"period_start"`
	PeriodEnd    int    `json:"period_end"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Location     string `json:"location,omitempty"`
}

// WeekViewResponse 周视图响应
type WeekViewResponse struct {
	SemesterID  string               `json:"semester_id"`
	Week        int                  `json:"week"`
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// ImportICSRequest ICS 导入请求（原始 ICS 文本）
type ImportICSRequest struct {
	SemesterID string `json:"semester_id" binding:"required,uuid"`
	ICSData    string `json:"ics_data" binding:"required"`
}

// ImportICSResponse ICS 导入结果
type ImportICSResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}
