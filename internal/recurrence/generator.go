package recurrence

import (
	"time"

	"planboard/backend/pkg/dateutil"
)

// maxOccurrences 单次展开的迭代上限。
// 防御畸形窗口/超大 count 导致的失控循环；正常学期/年度窗口远小于此。
const maxOccurrences = 5000

// Generate 将规则在窗口内展开为升序、去重的日期序列。
//
// 约定：窗口起点即系列锚点（第一个候选日期）。除 custom_count 外，
// 所有日期满足 window.Start ≤ d ≤ window.End；custom_count 忽略窗口
// 终点，以 Count 次为界。非法规则返回 nil。
// 同一输入重复调用结果完全一致（幂等，支撑 agenda 重投影）。
func Generate(rule Rule, window Window) []time.Time {
	rule = Normalize(rule)
	if !rule.valid() {
		return nil
	}
	start := dateutil.DateOnly(window.Start)
	end := dateutil.DateOnly(window.End)
	if rule.Kind != KindCustomCount && end.Before(start) {
		return nil
	}

	switch rule.Kind {
	case KindOnce:
		return []time.Time{start}
	case KindDaily:
		return stepDays(start, end, rule.Interval)
	case KindMonthly:
		return stepMonths(start, end, rule.Interval, rule.DayOfMonth, 0)
	case KindCustomCount:
		return generateCounted(rule, start)
	}

	if rule.weeklyLike() {
		return generateWeekly(rule, start, end)
	}

	// custom 无星期集合：按 unit 步进
	switch rule.Unit {
	case UnitDay:
		return stepDays(start, end, rule.Interval)
	case UnitWeek:
		return stepDays(start, end, rule.Interval*7)
	case UnitMonth:
		return stepMonths(start, end, rule.Interval, start.Day(), 0)
	}
	return nil
}

// stepDays 从 start 起每 interval 天一个日期，直到越过 end
func stepDays(start, end time.Time, interval int) []time.Time {
	var dates []time.Time
	for cur := start; !cur.After(end) && len(dates) < maxOccurrences; cur = dateutil.AddDays(cur, interval) {
		dates = append(dates, cur)
	}
	return dates
}

// stepMonths 从 start 所在月起，每 interval 个月在 dayOfMonth 产生一个日期。
// dayOfMonth 超出当月天数时钳制到月末，绝不滚入下月。
// count > 0 时以次数为界（custom_count 用），否则以 end 为界。
func stepMonths(start, end time.Time, interval, dayOfMonth, count int) []time.Time {
	var dates []time.Time
	year, month := start.Year(), start.Month()
	for i := 0; i < maxOccurrences; i++ {
		if count > 0 && len(dates) >= count {
			break
		}
		day := dayOfMonth
		if dim := dateutil.DaysInMonth(year, month); day > dim {
			day = dim
		}
		d := time.Date(year, month, day, 0, 0, 0, 0, start.Location())
		if count == 0 && d.After(end) {
			break
		}
		// 钳制后的日期可能落在窗口起点之前（如起点 1/15、目标日 1 号），跳过即可
		if !d.Before(start) {
			dates = append(dates, d)
		}
		month += time.Month(interval)
		for month > 12 {
			month -= 12
			year++
		}
	}
	return dates
}

// generateWeekly weekly 族展开：逐日扫描窗口，
// 周序号 = floor((day − 锚点)/7)。single/double 按周序号奇偶取周
// （锚点周为偶），其余变体要求周序号整除 interval；weekday 须在集合内。
func generateWeekly(rule Rule, start, end time.Time) []time.Time {
	parity := rule.weekParity()
	var dates []time.Time
	for cur := start; !cur.After(end) && len(dates) < maxOccurrences; cur = dateutil.AddDays(cur, 1) {
		weekIndex := dateutil.DaysBetween(start, cur) / 7
		if parity >= 0 {
			if weekIndex%2 != parity {
				continue
			}
		} else if weekIndex%rule.Interval != 0 {
			continue
		}
		if rule.hasDay(dateutil.ISOWeekday(cur)) {
			dates = append(dates, cur)
		}
	}
	return dates
}

// generateCounted custom_count 展开：自锚点起步进 Count 次，忽略窗口终点
func generateCounted(rule Rule, start time.Time) []time.Time {
	count := rule.Count
	if count > maxOccurrences {
		count = maxOccurrences
	}
	switch rule.Unit {
	case UnitMonth:
		return stepMonths(start, time.Time{}, rule.Interval, start.Day(), count)
	case UnitWeek:
		return countedDays(start, rule.Interval*7, count)
	default:
		return countedDays(start, rule.Interval, count)
	}
}

func countedDays(start time.Time, step, count int) []time.Time {
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, dateutil.AddDays(start, i*step))
	}
	return dates
}
