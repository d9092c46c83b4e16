package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"planboard/backend/internal/model"
	"planboard/backend/internal/repository"
	"planboard/backend/pkg/dateutil"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoCourses    = errors.New("该学期暂无课表条目")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 课表导出为 Excel (.xlsx)：节次 × 星期的网格，考试单独一张 Sheet
//   - 日程导出为 iCalendar 订阅流 (.ics)：区间内全部 agenda 条目
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportTimetable 导出学期课表为 Excel
	ExportTimetable(ctx context.Context, semesterID string) (*bytes.Buffer, string, error)
	// ExportAgendaICS 导出日程区间为 iCalendar 文本
	ExportAgendaICS(ctx context.Context, fromKey, toKey string) (string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportTimetable — 导出课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "课程表"：行头节次（序号 + 时间段），列头周一 ~ 周日，
//     单元格为课程名（含地点与单双周标注），多课程换行堆叠
//   - Sheet "考试"（有考试时）：日期、课程、节次、时间、地点
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportTimetable(ctx context.Context, semesterID string) (*bytes.Buffer, string, error) {
	// 1. 查询学期（含作息方案）
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询课表条目
	courses, err := s.repo.Course.ListBySemester(ctx, semester.SemesterID)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}
	if len(courses) == 0 {
		return nil, "", ErrExportNoCourses
	}

	// 3. 拆分常规课与考试，建立 (weekday, period) → 单元格文本索引
	cellIndex := make(map[string][]string) // "weekday:period" → 文本列表
	var exams []model.Course
	for _, c := range courses {
		if c.IsExam() {
			exams = append(exams, c)
			continue
		}
		key := fmt.Sprintf("%d:%d", c.Weekday, c.PeriodIndex)
		cellIndex[key] = append(cellIndex[key], courseCellText(&c))
	}

	// 4. 节次行：有作息方案按方案排，否则按出现过的节次排
	var periods []model.SchemePeriod
	if semester.Scheme != nil {
		periods = append(periods, semester.Scheme.Periods...)
	}
	if len(periods) == 0 {
		seen := make(map[int]bool)
		for _, c := range courses {
			if !c.IsExam() && !seen[c.PeriodIndex] {
				seen[c.PeriodIndex] = true
				periods = append(periods, model.SchemePeriod{PeriodIndex: c.PeriodIndex})
			}
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].PeriodIndex < periods[j].PeriodIndex })

	// 5. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课程表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	dayNames := []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 6)
	f.SetColWidth(sheetName, "B", "B", 14)
	for i := range dayNames {
		col, _ := excelize.ColumnNumberToName(3 + i)
		f.SetColWidth(sheetName, col, col, 20)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 课程表", semester.Name))
	f.MergeCell(sheetName, "A1", cell(colName(1+len(dayNames)), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "节次")
	f.SetCellValue(sheetName, cell("B", row), "时间")
	for i, dn := range dayNames {
		f.SetCellValue(sheetName, cell(colName(2+i), row), dn)
	}

	// 数据行
	row = 3
	for _, p := range periods {
		f.SetCellValue(sheetName, cell("A", row), p.PeriodIndex)
		if p.StartTime != "" {
			f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%s-%s", p.StartTime, p.EndTime))
		} else {
			f.SetCellValue(sheetName, cell("B", row), "-")
		}
		for wd := 1; wd <= 7; wd++ {
			key := fmt.Sprintf("%d:%d", wd, p.PeriodIndex)
			text := "-"
			if texts, ok := cellIndex[key]; ok {
				text = strings.Join(texts, "\n")
			}
			f.SetCellValue(sheetName, cell(colName(1+wd), row), text)
		}
		row++
	}

	// 6. 考试 Sheet
	if len(exams) > 0 {
		s.writeExamSheet(f, exams)
	}

	// 7. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课程表_%s.xlsx", semester.Name)
	return buf, filename, nil
}

func (s *exportService) writeExamSheet(f *excelize.File, exams []model.Course) {
	sheetName := "考试"
	f.NewSheet(sheetName)
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 24)
	f.SetColWidth(sheetName, "C", "E", 14)

	headers := []string{"日期", "课程", "节次", "时间", "地点"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}

	sort.Slice(exams, func(i, j int) bool {
		a, b := exams[i].ExamDate, exams[j].ExamDate
		if a == nil || b == nil {
			return b == nil
		}
		return a.Before(*b)
	})

	row := 2
	for _, e := range exams {
		if e.ExamDate != nil {
			f.SetCellValue(sheetName, cell("A", row), dateutil.DateKey(*e.ExamDate))
		}
		f.SetCellValue(sheetName, cell("B", row), e.Name)
		if e.ExamStartPeriod >= 1 {
			f.SetCellValue(sheetName, cell("C", row), fmt.Sprintf("%d-%d", e.ExamStartPeriod, e.ExamEndPeriod))
		}
		if e.ExamStartTime != "" {
			f.SetCellValue(sheetName, cell("D", row), fmt.Sprintf("%s-%s", e.ExamStartTime, e.ExamEndTime))
		}
		f.SetCellValue(sheetName, cell("E", row), e.Location)
		row++
	}
}

// ═══════════════════════════════════════════════════════════
// ExportAgendaICS — 导出日程区间为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个 agenda 条目映射为一个 VEVENT：
//   - 带 HH:MM 时间的条目 → 定时事件，时长固定 1 小时
//   - 无时间的条目 → 全天事件
// UID 复用条目 ID，重复导出产出稳定的 UID。

func (s *exportService) ExportAgendaICS(ctx context.Context, fromKey, toKey string) (string, error) {
	from, ok1 := dateutil.ParseDateKey(fromKey)
	to, ok2 := dateutil.ParseDateKey(toKey)
	if !ok1 || !ok2 || to.Before(from) {
		return "", ErrAgendaRangeInvalid
	}
	if dateutil.DaysBetween(from, to) >= maxRangeDays {
		return "", ErrAgendaRangeTooWide
	}

	entries, err := s.repo.Agenda.ListRange(ctx, fromKey, toKey)
	if err != nil {
		s.logger.Error("查询日程区间失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//planboard//agenda//CN")

	now := time.Now()
	for _, e := range entries {
		day, ok := dateutil.ParseDateKey(e.DateKey)
		if !ok {
			continue
		}
		evt := cal.AddEvent(e.EntryID + "@planboard")
		evt.SetDtStampTime(now)
		evt.SetSummary(e.Content)

		if e.Time != "" {
			if t, err := time.Parse("15:04", e.Time); err == nil {
				start := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
				evt.SetStartAt(start)
				evt.SetEndAt(start.Add(time.Hour))
				continue
			}
		}
		evt.SetAllDayStartAt(day)
		evt.SetAllDayEndAt(dateutil.AddDays(day, 1))
	}

	return cal.Serialize(), nil
}

// ── 辅助函数 ──

// courseCellText 网格单元格文本：课程名 + 地点 + 单双周标注
func courseCellText(c *model.Course) string {
	text := c.Name
	if c.Location != "" {
		text += "@" + c.Location
	}
	switch c.Parity {
	case "odd":
		text += "（单周）"
	case "even":
		text += "（双周）"
	}
	return text
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
