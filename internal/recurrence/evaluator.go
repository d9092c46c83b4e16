package recurrence

import (
	"time"

	"planboard/backend/pkg/dateutil"
)

// IsActive 判断规则在窗口内的某一天是否生效。
//
// 与 Generate 逐日期严格一致：对窗口内任意 d，
// IsActive(rule, w, d) == (d ∈ Generate(rule, w))。
// 用于"今日待办计数"等场景，避免物化整个窗口。
func IsActive(rule Rule, window Window, date time.Time) bool {
	rule = Normalize(rule)
	if !rule.valid() {
		return false
	}
	start := dateutil.DateOnly(window.Start)
	end := dateutil.DateOnly(window.End)
	d := dateutil.DateOnly(date)

	if d.Before(start) {
		return false
	}
	// custom_count 以次数为界，不受窗口终点约束
	if rule.Kind != KindCustomCount && d.After(end) {
		return false
	}

	diff := dateutil.DaysBetween(start, d)

	switch rule.Kind {
	case KindOnce:
		return diff == 0
	case KindDaily:
		return diff%rule.Interval == 0 && diff/rule.Interval < maxOccurrences
	case KindMonthly:
		return monthlyActive(start, d, rule.Interval, rule.DayOfMonth, 0)
	case KindCustomCount:
		return countedActive(rule, start, d, diff)
	}

	if rule.weeklyLike() {
		return weeklyActive(rule, diff, dateutil.ISOWeekday(d))
	}

	switch rule.Unit {
	case UnitDay:
		return diff%rule.Interval == 0
	case UnitWeek:
		return diff%(rule.Interval*7) == 0
	case UnitMonth:
		return monthlyActive(start, d, rule.Interval, start.Day(), 0)
	}
	return false
}

// weeklyActive weekly 族单日判定，与 generateWeekly 同一套谓词
func weeklyActive(rule Rule, diff, weekday int) bool {
	weekIndex := diff / 7
	if p := rule.weekParity(); p >= 0 {
		if weekIndex%2 != p {
			return false
		}
	} else if weekIndex%rule.Interval != 0 {
		return false
	}
	return rule.hasDay(weekday)
}

// monthlyActive 月规则单日判定：月差非负且整除 interval，
// 且 d 恰为该月的钳制目标日。count > 0 时附加次数上限。
func monthlyActive(start, d time.Time, interval, dayOfMonth, count int) bool {
	monthDiff := (d.Year()-start.Year())*12 + int(d.Month()) - int(start.Month())
	if monthDiff < 0 || monthDiff%interval != 0 {
		return false
	}
	if count > 0 && monthDiff/interval >= count {
		return false
	}
	day := dayOfMonth
	if dim := dateutil.DaysInMonth(d.Year(), d.Month()); day > dim {
		day = dim
	}
	return d.Day() == day
}

// countedActive custom_count 单日判定：第 n 次出现且 n < Count
func countedActive(rule Rule, start, d time.Time, diff int) bool {
	count := rule.Count
	if count > maxOccurrences {
		count = maxOccurrences
	}
	switch rule.Unit {
	case UnitMonth:
		return monthlyActive(start, d, rule.Interval, start.Day(), count)
	case UnitWeek:
		step := rule.Interval * 7
		return diff%step == 0 && diff/step < count
	default:
		return diff%rule.Interval == 0 && diff/rule.Interval < count
	}
}
