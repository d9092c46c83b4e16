package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"planboard/backend/internal/model"
	"planboard/backend/pkg/dateutil"
)

// ── ICS 导入解析 ────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为课表条目列表。
//
// 设计决策：
//   - DTSTART/DTEND 确定星期几与时间
//   - RRULE 确定重复模式 → 映射到教学周集合
//   - 无 RRULE 的单次事件仅落在对应教学周
//   - 合并同 name+weekday+time 不同周次的事件（ICS 常以多个
//     单次事件表示同一门课）
//   - parity 由周次集合推导：全奇 → odd，全偶 → even，否则 all
//   - 事件起始时间按作息方案吸附到节次；吸附失败则跳过并记告警
// ─────────────────────────────────────────────────────────────

const localTimezone = "Asia/Shanghai"

// parsedEvent ICS 解析中间结构
type parsedEvent struct {
	Name      string
	Weekday   int // ISO 1-7
	StartTime string
	EndTime   string
	Location  string
	Weeks     []int
}

// parseICSCourses 解析 ICS 内容并转为课表条目列表。
// 返回的 warnings 记录被跳过的事件及原因。
func parseICSCourses(data string, semester *model.Semester) ([]model.Course, []string, error) {
	cal, err := ics.ParseCalendar(strings.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	loc, _ := time.LoadLocation(localTimezone)
	totalWeeks := dateutil.TeachingWeek(semester.EndDate, semester.StartDate, semester.EndDate)

	// 阶段 1: 解析所有 VEVENT
	var events []parsedEvent
	for _, comp := range cal.Events() {
		evt, ok := parseCourseEvent(comp, semester, totalWeeks, loc)
		if !ok {
			continue
		}
		events = append(events, evt)
	}

	// 阶段 2: 合并同课程（name+weekday+startTime+endTime 相同）的周次
	merged := mergeCourseEvents(events)

	// 阶段 3: 吸附节次并转为 model.Course
	var (
		courses  []model.Course
		warnings []string
	)
	for _, evt := range merged {
		period, ok := snapToPeriod(evt.StartTime, semester.Scheme)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s（周%d %s）无法对应作息方案节次，已跳过", evt.Name, evt.Weekday, evt.StartTime))
			continue
		}
		sort.Ints(evt.Weeks)
		courses = append(courses, model.Course{
			SemesterID:  semester.SemesterID,
			Name:        evt.Name,
			Type:        "lecture",
			Location:    evt.Location,
			Weekday:     evt.Weekday,
			PeriodIndex: period,
			Parity:      deriveParity(evt.Weeks),
			Source:      "ics",
		})
	}
	return courses, warnings, nil
}

// parseCourseEvent 解析单个 VEVENT 组件
func parseCourseEvent(evt *ics.VEvent, semester *model.Semester, totalWeeks int, loc *time.Location) (parsedEvent, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return parsedEvent{}, false
	}
	name := strings.TrimSpace(summary.Value)

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return parsedEvent{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		// 若无 DTEND，默认 2 小时
		dtEnd = dtStart.Add(2 * time.Hour)
	}

	location := ""
	if prop := evt.GetProperty(ics.ComponentPropertyLocation); prop != nil {
		location = strings.TrimSpace(prop.Value)
	}

	weeks := computeEventWeeks(evt, dtStart, semester.StartDate, totalWeeks, loc)
	if len(weeks) == 0 {
		return parsedEvent{}, false
	}

	return parsedEvent{
		Name:      name,
		Weekday:   dateutil.ISOWeekday(dtStart),
		StartTime: dtStart.Format("15:04"),
		EndTime:   dtEnd.Format("15:04"),
		Location:  location,
		Weeks:     weeks,
	}, true
}

// computeEventWeeks 根据 RRULE / EXDATE / 单次事件计算教学周集合
func computeEventWeeks(evt *ics.VEvent, dtStart, semesterStart time.Time, totalWeeks int, loc *time.Location) []int {
	rruleProp := evt.GetProperty(ics.ComponentPropertyRrule)
	if rruleProp == nil {
		// 单次事件 → 仅当前教学周
		wk := dateutil.TeachingWeek(dtStart, semesterStart, dateutil.AddDays(semesterStart, totalWeeks*7-1))
		if wk >= 1 && wk <= totalWeeks {
			return []int{wk}
		}
		return nil
	}

	rule := parseRRule(rruleProp.Value)
	if rule.freq != "WEEKLY" {
		// 非周重复 → 视为单次
		wk := dateutil.TeachingWeek(dtStart, semesterStart, dateutil.AddDays(semesterStart, totalWeeks*7-1))
		if wk >= 1 && wk <= totalWeeks {
			return []int{wk}
		}
		return nil
	}

	exDates := parseExDates(evt, loc)

	interval := rule.interval
	if interval < 1 {
		interval = 1
	}

	var weeks []int
	weekSet := make(map[int]bool)
	semEnd := dateutil.AddDays(dateutil.DateOnly(semesterStart), totalWeeks*7-1)

	current := dtStart
	count := 0
	for {
		if !rule.until.IsZero() && current.After(rule.until) {
			break
		}
		if rule.count > 0 && count >= rule.count {
			break
		}
		if dateutil.DateOnly(current).After(semEnd) {
			break
		}

		wk := dateutil.TeachingWeek(current, semesterStart, semEnd)
		if wk >= 1 && wk <= totalWeeks {
			dateStr := current.Format("20060102")
			if !exDates[dateStr] && !weekSet[wk] {
				weekSet[wk] = true
				weeks = append(weeks, wk)
			}
		}

		count++
		current = current.AddDate(0, 0, 7*interval)
	}

	return weeks
}

// rruleParams RRULE 解析结果
type rruleParams struct {
	freq     string
	interval int
	count    int
	until    time.Time
}

// parseRRule 解析 RRULE 字符串（如 FREQ=WEEKLY;COUNT=16;INTERVAL=1）
func parseRRule(value string) rruleParams {
	r := rruleParams{interval: 1}
	for _, part := range strings.Split(value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			r.freq = strings.ToUpper(kv[1])
		case "INTERVAL":
			fmt.Sscanf(kv[1], "%d", &r.interval)
		case "COUNT":
			fmt.Sscanf(kv[1], "%d", &r.count)
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", kv[1])
			if err != nil {
				t, _ = time.Parse("20060102", kv[1])
			}
			r.until = t
		}
	}
	return r
}

// parseExDates 解析事件中所有 EXDATE
func parseExDates(evt *ics.VEvent, loc *time.Location) map[string]bool {
	exDates := make(map[string]bool)
	for _, prop := range evt.Properties {
		if prop.IANAToken == string(ics.ComponentPropertyExdate) {
			t, err := time.Parse("20060102T150405Z", prop.Value)
			if err != nil {
				t, err = time.Parse("20060102T150405", prop.Value)
				if err != nil {
					t, err = time.Parse("20060102", prop.Value)
				}
			}
			if err == nil {
				exDates[t.In(loc).Format("20060102")] = true
			}
		}
	}
	return exDates
}

// mergeCourseEvents 合并相同课程事件的周次
func mergeCourseEvents(events []parsedEvent) []parsedEvent {
	type key struct {
		Name      string
		Weekday   int
		StartTime string
		EndTime   string
	}
	merged := make(map[key]*parsedEvent)
	order := []key{}

	for _, e := range events {
		k := key{Name: e.Name, Weekday: e.Weekday, StartTime: e.StartTime, EndTime: e.EndTime}
		if existing, ok := merged[k]; ok {
			weekSet := make(map[int]bool)
			for _, w := range existing.Weeks {
				weekSet[w] = true
			}
			for _, w := range e.Weeks {
				if !weekSet[w] {
					existing.Weeks = append(existing.Weeks, w)
				}
			}
		} else {
			cp := e
			merged[k] = &cp
			order = append(order, k)
		}
	}

	result := make([]parsedEvent, 0, len(merged))
	for _, k := range order {
		result = append(result, *merged[k])
	}
	return result
}

// ── 辅助函数 ──

// snapToPeriod 将事件起始时间吸附到作息方案节次：
// 优先精确匹配节次起始，否则取包含该时刻的节次
func snapToPeriod(startTime string, scheme *model.TimeScheme) (int, bool) {
	if scheme == nil {
		return 0, false
	}
	for _, p := range scheme.Periods {
		if p.StartTime == startTime {
			return p.PeriodIndex, true
		}
	}
	for _, p := range scheme.Periods {
		if p.StartTime <= startTime && startTime < p.EndTime {
			return p.PeriodIndex, true
		}
	}
	return 0, false
}

// deriveParity 根据教学周集合推导 parity 冗余字段
func deriveParity(weeks []int) string {
	if len(weeks) == 0 {
		return "all"
	}
	allOdd, allEven := true, true
	for _, w := range weeks {
		if w%2 == 0 {
			allOdd = false
		} else {
			allEven = false
		}
	}
	if allOdd {
		return "odd"
	}
	if allEven {
		return "even"
	}
	return "all"
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			if strings.HasSuffix(layout, "Z") {
				return t.In(loc), nil
			}
			if tzid != "" {
				if tzLoc, err := time.LoadLocation(tzid); err == nil {
					return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
				}
			}
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
