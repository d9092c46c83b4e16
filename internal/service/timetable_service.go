package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"planboard/backend/internal/agenda"
	"planboard/backend/internal/dto"
	"planboard/backend/internal/model"
	"planboard/backend/internal/repository"
	"planboard/backend/internal/timetable"
	"planboard/backend/pkg/dateutil"
)

// ── 课表模块业务错误 ──

var (
	ErrCourseNotFound     = errors.New("课表条目不存在")
	ErrCourseConflict     = errors.New("课表条目与已有条目时间冲突")
	ErrCourseInvalidShape = errors.New("课表条目字段不完整")
	ErrCourseExamDate     = errors.New("考试日期非法")
	ErrICSParseFailed     = errors.New("ICS 内容解析失败")
	ErrICSEmpty           = errors.New("ICS 内容中未发现有效课程事件")
)

// ── TimetableService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 创建/更新先做冲突检测；命中且未加 force 时拒绝保存，
//     冲突列表随错误一并返回，由 Handler 放入 409 响应体。
//     冲突不是不变量——加 force 即可带冲突保存。
//   - 每次写入后将该条目的展开结果重投影到 agenda；ICS 导入
//     采用全量替换（仅 source=ics，手动条目不受影响），之后
//     整学期重投影。
// ─────────────────────────────────────────────────────────────

// TimetableService 课表模块业务接口
type TimetableService interface {
	// CreateCourse 创建课表条目。冲突且未 force 时返回 ErrCourseConflict，
	// 第二个返回值携带冲突条目列表。
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, force bool) (*dto.CourseResponse, []dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, semesterID string) ([]dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest, force bool) (*dto.CourseResponse, []dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id string) error
	// WeekView 某教学周的课表视图（周一为首日）
	WeekView(ctx context.Context, semesterID string, week int) (*dto.WeekViewResponse, error)
	// ImportICS 导入 ICS 课表，全量替换该学期 source=ics 的条目
	ImportICS(ctx context.Context, req *dto.ImportICSRequest) (*dto.ImportICSResponse, error)
	// SyncSemester 将学期内所有课表条目重投影到 agenda
	SyncSemester(ctx context.Context, semesterID string) error
}

type timetableService struct {
	repo      *repository.Repository
	projector *agenda.Projector
	logger    *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, projector *agenda.Projector, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, projector: projector, logger: logger}
}

// ════════════════════════════════════════════════════════════
// 课表条目 CRUD
// ════════════════════════════════════════════════════════════

func (s *timetableService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, force bool) (*dto.CourseResponse, []dto.CourseResponse, error) {
	course, err := courseFromCreate(req)
	if err != nil {
		return nil, nil, err
	}

	semester, err := s.getSemester(ctx, course.SemesterID)
	if err != nil {
		return nil, nil, err
	}

	conflicts, err := s.detectConflicts(ctx, course, semester)
	if err != nil {
		return nil, nil, err
	}
	if len(conflicts) > 0 && !force {
		return nil, toCourseResponses(conflicts), ErrCourseConflict
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课表条目失败", zap.Error(err))
		return nil, nil, err
	}

	s.projectCourse(ctx, course, semester)

	resp := toCourseResponse(course)
	return &resp, toCourseResponses(conflicts), nil
}

func (s *timetableService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *timetableService) ListCourses(ctx context.Context, semesterID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListBySemester(ctx, semesterID)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}
	return toCourseResponses(courses), nil
}

func (s *timetableService) UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest, force bool) (*dto.CourseResponse, []dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := applyCourseUpdate(course, req); err != nil {
		return nil, nil, err
	}

	semester, err := s.getSemester(ctx, course.SemesterID)
	if err != nil {
		return nil, nil, err
	}

	conflicts, err := s.detectConflicts(ctx, course, semester)
	if err != nil {
		return nil, nil, err
	}
	if len(conflicts) > 0 && !force {
		return nil, toCourseResponses(conflicts), ErrCourseConflict
	}

	course.Semester = nil
	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课表条目失败", zap.Error(err))
		return nil, nil, err
	}

	s.projectCourse(ctx, course, semester)

	resp := toCourseResponse(course)
	return &resp, toCourseResponses(conflicts), nil
}

func (s *timetableService) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Course.Delete(ctx, course.CourseID); err != nil {
		s.logger.Error("删除课表条目失败", zap.Error(err))
		return err
	}
	if err := s.projector.Remove(ctx, course.CourseID); err != nil {
		s.logger.Error("清理课表投影失败", zap.String("course_id", course.CourseID), zap.Error(err))
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// WeekView — 教学周视图
// ════════════════════════════════════════════════════════════

func (s *timetableService) WeekView(ctx context.Context, semesterID string, week int) (*dto.WeekViewResponse, error) {
	semester, err := s.getSemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	courses, err := s.repo.Course.ListBySemester(ctx, semester.SemesterID)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}

	weekStart := dateutil.AddDays(dateutil.DateOnly(semester.StartDate), (week-1)*7)
	weekEnd := dateutil.AddDays(weekStart, 6)

	var occs []dto.OccurrenceResponse
	for i := range courses {
		for _, occ := range timetable.ExpandCourse(&courses[i], semester, semester.Scheme) {
			if occ.TeachingWeek == week {
				occs = append(occs, toOccurrenceResponse(occ))
			}
		}
	}

	return &dto.WeekViewResponse{
		SemesterID:  semester.SemesterID,
		Week:        week,
		StartDate:   dateutil.DateKey(weekStart),
		EndDate:     dateutil.DateKey(weekEnd),
		Occurrences: occs,
	}, nil
}

// ════════════════════════════════════════════════════════════
// ImportICS — 导入 ICS 课表
// ════════════════════════════════════════════════════════════

func (s *timetableService) ImportICS(ctx context.Context, req *dto.ImportICSRequest) (*dto.ImportICSResponse, error) {
	semester, err := s.getSemester(ctx, req.SemesterID)
	if err != nil {
		return nil, err
	}

	courses, warnings, err := parseICSCourses(req.ICSData, semester)
	if err != nil {
		s.logger.Error("ICS 解析失败", zap.Error(err))
		return nil, ErrICSParseFailed
	}
	if len(courses) == 0 {
		return nil, ErrICSEmpty
	}

	// 事务：删除旧导入 + 插入新导入（封装在 Repository 层）
	if err := s.repo.Course.ReplaceImported(ctx, semester.SemesterID, courses); err != nil {
		s.logger.Error("课表导入事务失败", zap.Error(err))
		return nil, err
	}

	// 整学期重投影：被替换的旧导入条目在各自来源的投影中清理
	if err := s.SyncSemester(ctx, semester.SemesterID); err != nil {
		s.logger.Error("导入后重投影失败", zap.Error(err))
	}

	return &dto.ImportICSResponse{
		Imported: len(courses),
		Skipped:  len(warnings),
		Warnings: warnings,
	}, nil
}

// ════════════════════════════════════════════════════════════
// SyncSemester — 整学期重投影
// ════════════════════════════════════════════════════════════

func (s *timetableService) SyncSemester(ctx context.Context, semesterID string) error {
	semester, err := s.getSemester(ctx, semesterID)
	if err != nil {
		return err
	}
	courses, err := s.repo.Course.ListBySemester(ctx, semester.SemesterID)
	if err != nil {
		return err
	}
	for i := range courses {
		if err := s.projectCourseErr(ctx, &courses[i], semester); err != nil {
			return err
		}
	}
	return nil
}

// ── 内部辅助 ──

func (s *timetableService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课表条目失败", zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *timetableService) getSemester(ctx context.Context, id string) (*model.Semester, error) {
	sem, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}
	return sem, nil
}

func (s *timetableService) detectConflicts(ctx context.Context, course *model.Course, semester *model.Semester) ([]model.Course, error) {
	existing, err := s.repo.Course.ListBySemester(ctx, semester.SemesterID)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}
	return timetable.FindConflicts(course, existing, semester, semester.Scheme), nil
}

// projectCourse 投影失败只记日志：条目已落库，定时重投影会补齐
func (s *timetableService) projectCourse(ctx context.Context, course *model.Course, semester *model.Semester) {
	if err := s.projectCourseErr(ctx, course, semester); err != nil {
		s.logger.Error("课表投影失败", zap.String("course_id", course.CourseID), zap.Error(err))
	}
}

func (s *timetableService) projectCourseErr(ctx context.Context, course *model.Course, semester *model.Semester) error {
	occurrences := timetable.ExpandCourse(course, semester, semester.Scheme)
	entries := make([]model.AgendaEntry, 0, len(occurrences))
	for _, occ := range occurrences {
		entries = append(entries, model.AgendaEntry{
			DateKey:    dateutil.DateKey(occ.Date),
			Time:       occ.StartTime,
			Content:    course.Name,
			Priority:   2,
			SourceType: "course",
		})
	}
	return s.projector.Project(ctx, course.CourseID, entries)
}

// courseFromCreate 按类型校验并组装课表条目
func courseFromCreate(req *dto.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		SemesterID: req.SemesterID,
		Name:       req.Name,
		Type:       req.Type,
		Location:   req.Location,
		Color:      req.Color,
		Parity:     defaultParity(req.Parity),
		Source:     "manual",
	}

	if req.Type == "exam" {
		if req.ExamDate == "" {
			return nil, ErrCourseInvalidShape
		}
		t, ok := dateutil.ParseDateKey(req.ExamDate)
		if !ok {
			return nil, ErrCourseExamDate
		}
		course.ExamDate = &t
		course.ExamStartPeriod = req.ExamStartPeriod
		course.ExamEndPeriod = req.ExamEndPeriod
		course.ExamStartTime = req.ExamStartTime
		course.ExamEndTime = req.ExamEndTime
		return course, nil
	}

	if req.Weekday < 1 || req.Weekday > 7 || req.PeriodIndex < 1 {
		return nil, ErrCourseInvalidShape
	}
	course.Weekday = req.Weekday
	course.PeriodIndex = req.PeriodIndex
	return course, nil
}

func applyCourseUpdate(course *model.Course, req *dto.UpdateCourseRequest) error {
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Type != nil {
		course.Type = *req.Type
	}
	if req.Location != nil {
		course.Location = *req.Location
	}
	if req.Color != nil {
		course.Color = *req.Color
	}
	if req.Weekday != nil {
		course.Weekday = *req.Weekday
	}
	if req.PeriodIndex != nil {
		course.PeriodIndex = *req.PeriodIndex
	}
	if req.Parity != nil {
		course.Parity = *req.Parity
	}
	if req.ExamDate != nil {
		t, ok := dateutil.ParseDateKey(*req.ExamDate)
		if !ok {
			return ErrCourseExamDate
		}
		course.ExamDate = &t
	}
	if req.ExamStartPeriod != nil {
		course.ExamStartPeriod = *req.ExamStartPeriod
	}
	if req.ExamEndPeriod != nil {
		course.ExamEndPeriod = *req.ExamEndPeriod
	}
	if req.ExamStartTime != nil {
		course.ExamStartTime = *req.ExamStartTime
	}
	if req.ExamEndTime != nil {
		course.ExamEndTime = *req.ExamEndTime
	}

	if course.IsExam() {
		if course.ExamDate == nil {
			return ErrCourseInvalidShape
		}
		return nil
	}
	if course.Weekday < 1 || course.Weekday > 7 || course.PeriodIndex < 1 {
		return ErrCourseInvalidShape
	}
	return nil
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	resp := dto.CourseResponse{
		ID:          c.CourseID,
		SemesterID:  c.SemesterID,
		Name:        c.Name,
		Type:        c.Type,
		Location:    c.Location,
		Color:       c.Color,
		Source:      c.Source,
		Weekday:     c.Weekday,
		PeriodIndex: c.PeriodIndex,
		Parity:      c.Parity,
	}
	if c.ExamDate != nil {
		resp.ExamDate = dateutil.DateKey(*c.ExamDate)
		resp.ExamStartPeriod = c.ExamStartPeriod
		resp.ExamEndPeriod = c.ExamEndPeriod
		resp.ExamStartTime = c.ExamStartTime
		resp.ExamEndTime = c.ExamEndTime
	}
	return resp
}

func toCourseResponses(courses []model.Course) []dto.CourseResponse {
	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, toCourseResponse(&courses[i]))
	}
	return out
}

func toOccurrenceResponse(occ timetable.Occurrence) dto.OccurrenceResponse {
	return dto.OccurrenceResponse{
		CourseID:     occ.CourseID,
		Name:         occ.Name,
		Type:         occ.Type,
		Date:         dateutil.DateKey(occ.Date),
		Weekday:      occ.Weekday,
		TeachingWeek: occ.TeachingWeek,
		PeriodStart:  occ.PeriodStart,
		PeriodEnd:    occ.PeriodEnd,
		StartTime:    occ.StartTime,
		EndTime:      occ.EndTime,
		Location:     occ.Location,
	}
}

func defaultParity(p string) string {
	if p == "" {
		return "all"
	}
	return p
}
