package dto

// ── 日程模块 ──

// CreateManualEntryRequest 手动创建日程条目请求
type CreateManualEntryRequest struct {
	DateKey  string `json:"date" binding:"required,datetime=2006-01-02"`
	Time     string `json:"time" binding:"omitempty,datetime=15:04"`
	Content  string `json:"content" binding:"required,max=500"`
	Priority int    `json:"priority" binding:"omitempty,min=1,max=3"`
}

// AgendaEntryResponse 日程条目响应
type AgendaEntryResponse struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
	Content    string `json:"content"`
	Priority   int    `json:"priority"`
	SourceID   string `json:"source_id,omitempty"`
	SourceType string `json:"source_type"`
}

// AgendaDayResponse 单日日程响应
type AgendaDayResponse struct {
	Date    string                `json:"date"`
	Entries []AgendaEntryResponse `json:"entries"`
}

// AgendaRangeResponse 区间日程响应（按日期分组，空桶省略）
type AgendaRangeResponse struct {
	From string              `json:"from"`
	To   string              `json:"to"`
	Days []AgendaDayResponse `json:"days"`
}
