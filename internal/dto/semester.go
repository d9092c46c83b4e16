package dto

// ── 学期模块 ──

// CreateSemesterRequest 创建学期请求
type CreateSemesterRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	AcademicYear string  `json:"academic_year" binding:"required,max=20"`
	Term         int     `json:"term" binding:"omitempty,min=1,max=3"`
	StartDate    string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string  `json:"end_date" binding:"required,datetime=2006-01-02"`
	SchemeID     *string `json:"scheme_id" binding:"omitempty,uuid"`
}

// UpdateSemesterRequest 更新学期请求（字段可选）
type UpdateSemesterRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	AcademicYear *string `json:"academic_year" binding:"omitempty,max=20"`
	Term         *int    `json:"term" binding:"omitempty,min=1,max=3"`
	StartDate    *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	SchemeID     *string `json:"scheme_id" binding:"omitempty,uuid"`
}

// SemesterResponse 学期响应
type SemesterResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	AcademicYear string  `json:"academic_year"`
	Term         int     `json:"term"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	SchemeID     *string `json:"scheme_id,omitempty"`
	IsActive     bool    `json:"is_active"`
	TotalWeeks   int     `json:"total_weeks"`
}

// ── 作息方案 ──

// PeriodPayload 节次载荷
type PeriodPayload struct {
	Index     int    `json:"index" binding:"required,min=1"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time" binding:"required,datetime=15:04"`
}

// CreateSchemeRequest 创建作息方案请求
type CreateSchemeRequest struct {
	Name    string          `json:"name" binding:"required,max=50"`
	Periods []PeriodPayload `json:"periods" binding:"required,min=1,dive"`
}

// UpdateSchemeRequest 更新作息方案请求
type UpdateSchemeRequest struct {
	Name    *string         `json:"name" binding:"omitempty,max=50"`
	Periods []PeriodPayload `json:"periods" binding:"omitempty,min=1,dive"`
}

// SchemeResponse 作息方案响应
type SchemeResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Periods []PeriodPayload `json:"periods"`
}
