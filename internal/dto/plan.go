package dto

// ── 计划模块 ──

// RulePayload 重复规则载荷（weekday 统一 ISO 1-7）
type RulePayload struct {
	Type       string `json:"type" binding:"required,oneof=once daily weekly monthly single_week double_week custom custom_count"`
	Interval   int    `json:"interval" binding:"omitempty,min=1"`
	Unit       string `json:"unit" binding:"omitempty,oneof=day week month"`
	Days       []int  `json:"days" binding:"omitempty,dive,min=1,max=7"`
	DayOfMonth int    `json:"day_of_month" binding:"omitempty,min=1,max=31"`
	Count      int    `json:"count" binding:"omitempty,min=1"`
}

// CreatePlanRequest 创建计划请求
type CreatePlanRequest struct {
	Category  string      `json:"category" binding:"required,oneof=todo learning reading habit"`
	Title     string      `json:"title" binding:"required,max=200"`
	Content   string      `json:"content" binding:"omitempty,max=1000"`
	Priority  int         `json:"priority" binding:"omitempty,min=1,max=3"`
	Time      string      `json:"time" binding:"omitempty,datetime=15:04"`
	Color     string      `json:"color" binding:"omitempty,max=20"`
	Rule      RulePayload `json:"rule" binding:"required"`
	StartDate string      `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string      `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// UpdatePlanRequest 更新计划请求（字段可选）
type UpdatePlanRequest struct {
	Category  *string      `json:"category" binding:"omitempty,oneof=todo learning reading habit"`
	Title     *string      `json:"title" binding:"omitempty,max=200"`
	Content   *string      `json:"content" binding:"omitempty,max=1000"`
	Priority  *int         `json:"priority" binding:"omitempty,min=1,max=3"`
	Time      *string      `json:"time" binding:"omitempty,datetime=15:04"`
	Color     *string      `json:"color" binding:"omitempty,max=20"`
	Rule      *RulePayload `json:"rule"`
	StartDate *string      `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string      `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// PlanResponse 计划响应
type PlanResponse struct {
	ID        string      `json:"id"`
	Category  string      `json:"category"`
	Title     string      `json:"title"`
	Content   string      `json:"content,omitempty"`
	Priority  int         `json:"priority"`
	Time      string      `json:"time,omitempty"`
	Color     string      `json:"color,omitempty"`
	Rule      RulePayload `json:"rule"`
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
}

// TodaySummaryResponse 今日计划概览（按分类计数，不物化整个窗口）
type TodaySummaryResponse struct {
	Date       string         `json:"date"`
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
}
