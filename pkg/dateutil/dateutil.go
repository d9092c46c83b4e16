package dateutil

import "time"

// ── 日历算术 ────────────────────────────────────────────────
//
// 所有涉及"星期几"的调用方（课表展开、冲突检测、重复规则）
// 必须统一使用本包的 ISO 编号 (1=周一 … 7=周日)，
// 避免 time.Weekday (0=周日) 混入业务逻辑造成静默错位。
// ─────────────────────────────────────────────────────────────

// DateKeyLayout 日期键格式，agenda 存储与 API 统一使用
const DateKeyLayout = "2006-01-02"

// DateOnly 截断到当日零点（保留原时区）
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays 日期加 n 天，跨月跨年由 time.AddDate 保证正确
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween 两个日期间的整天数（b - a），忽略时分秒
func DaysBetween(a, b time.Time) int {
	da := DateOnly(a)
	db := DateOnly(b)
	return int(db.Sub(da).Hours() / 24)
}

// ISOWeekday 将 time.Weekday 转为 ISO 8601 编号 (1=周一 … 7=周日)
func ISOWeekday(t time.Time) int {
	wd := t.Weekday()
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// StartOfWeek 返回 date 所在周的周一（零点）
func StartOfWeek(t time.Time) time.Time {
	return AddDays(DateOnly(t), 1-ISOWeekday(t))
}

// ISOWeek 返回 ISO 8601 周年与周数（周四判定法）：
// 一周归属于其周四所在的年份
func ISOWeek(t time.Time) (year, week int) {
	thursday := AddDays(StartOfWeek(t), 3)
	return thursday.Year(), (thursday.YearDay()-1)/7 + 1
}

// TeachingWeek 计算日期相对学期的教学周次（1-based）。
// 日期在 [start, end] 之外时返回 0。
func TeachingWeek(date, start, end time.Time) int {
	d := DateOnly(date)
	if d.Before(DateOnly(start)) || d.After(DateOnly(end)) {
		return 0
	}
	return DaysBetween(start, d)/7 + 1
}

// DateKey 生成 agenda 日期键（YYYY-MM-DD）
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey 解析日期键，失败返回零值与 false
func ParseDateKey(s string) (time.Time, bool) {
	t, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysInMonth 指定年月的天数
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
