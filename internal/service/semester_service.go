package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"planboard/backend/internal/dto"
	"planboard/backend/internal/model"
	"planboard/backend/internal/repository"
	"planboard/backend/pkg/dateutil"
)

// ── 学期模块业务错误 ──

var (
	ErrSemesterNotFound    = errors.New("学期不存在")
	ErrSemesterInvalidSpan = errors.New("学期结束日期不能早于开始日期")
	ErrNoActiveSemester    = errors.New("当前无激活学期")
	ErrSchemeNotFound      = errors.New("作息方案不存在")
	ErrSchemePeriodOrder   = errors.New("作息方案节次时间非法")
)

// SemesterService 学期与作息方案业务接口
type SemesterService interface {
	// ── 学期 ──
	CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error)
	GetSemester(ctx context.Context, id string) (*dto.SemesterResponse, error)
	// GetCurrent 获取当前激活学期
	GetCurrent(ctx context.Context) (*dto.SemesterResponse, error)
	ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error)
	UpdateSemester(ctx context.Context, id string, req *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error)
	// ActivateSemester 激活学期（同时取消其他学期的激活状态，全局至多一个）
	ActivateSemester(ctx context.Context, id string) (*dto.SemesterResponse, error)
	DeleteSemester(ctx context.Context, id string) error

	// ── 作息方案 ──
	CreateScheme(ctx context.Context, req *dto.CreateSchemeRequest) (*dto.SchemeResponse, error)
	GetScheme(ctx context.Context, id string) (*dto.SchemeResponse, error)
	ListSchemes(ctx context.Context) ([]dto.SchemeResponse, error)
	UpdateScheme(ctx context.Context, id string, req *dto.UpdateSchemeRequest) (*dto.SchemeResponse, error)
	DeleteScheme(ctx context.Context, id string) error
}

type semesterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(repo *repository.Repository, logger *zap.Logger) SemesterService {
	return &semesterService{repo: repo, logger: logger}
}

// ── 学期 ──

func (s *semesterService) CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error) {
	start, _ := dateutil.ParseDateKey(req.StartDate)
	end, _ := dateutil.ParseDateKey(req.EndDate)
	if end.Before(start) {
		return nil, ErrSemesterInvalidSpan
	}
	if req.SchemeID != nil {
		if _, err := s.getScheme(ctx, *req.SchemeID); err != nil {
			return nil, err
		}
	}

	sem := model.Semester{
		Name:         req.Name,
		AcademicYear: req.AcademicYear,
		Term:         defaultTerm(req.Term),
		StartDate:    start,
		EndDate:      end,
		SchemeID:     req.SchemeID,
	}
	if err := s.repo.Semester.Create(ctx, &sem); err != nil {
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}

	resp := toSemesterResponse(&sem)
	return &resp, nil
}

func (s *semesterService) GetSemester(ctx context.Context, id string) (*dto.SemesterResponse, error) {
	sem, err := s.getSemester(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSemesterResponse(sem)
	return &resp, nil
}

func (s *semesterService) GetCurrent(ctx context.Context) (*dto.SemesterResponse, error) {
	sem, err := s.repo.Semester.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSemester
		}
		s.logger.Error("查询激活学期失败", zap.Error(err))
		return nil, err
	}
	resp := toSemesterResponse(sem)
	return &resp, nil
}

func (s *semesterService) ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error) {
	sems, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("查询学期列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.SemesterResponse, 0, len(sems))
	for i := range sems {
		out = append(out, toSemesterResponse(&sems[i]))
	}
	return out, nil
}

func (s *semesterService) UpdateSemester(ctx context.Context, id string, req *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error) {
	sem, err := s.getSemester(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sem.Name = *req.Name
	}
	if req.AcademicYear != nil {
		sem.AcademicYear = *req.AcademicYear
	}
	if req.Term != nil {
		sem.Term = *req.Term
	}
	if req.StartDate != nil {
		if t, ok := dateutil.ParseDateKey(*req.StartDate); ok {
			sem.StartDate = t
		}
	}
	if req.EndDate != nil {
		if t, ok := dateutil.ParseDateKey(*req.EndDate); ok {
			sem.EndDate = t
		}
	}
	if sem.EndDate.Before(sem.StartDate) {
		return nil, ErrSemesterInvalidSpan
	}
	if req.SchemeID != nil {
		if _, err := s.getScheme(ctx, *req.SchemeID); err != nil {
			return nil, err
		}
		sem.SchemeID = req.SchemeID
	}

	// 关联不随 Save 级联写回
	sem.Scheme = nil
	if err := s.repo.Semester.Update(ctx, sem); err != nil {
		s.logger.Error("更新学期失败", zap.Error(err))
		return nil, err
	}

	resp := toSemesterResponse(sem)
	return &resp, nil
}

func (s *semesterService) ActivateSemester(ctx context.Context, id string) (*dto.SemesterResponse, error) {
	sem, err := s.getSemester(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Semester.ClearActive(ctx); err != nil {
		s.logger.Error("取消旧激活学期失败", zap.Error(err))
		return nil, err
	}
	sem.IsActive = true
	sem.Scheme = nil
	if err := s.repo.Semester.Update(ctx, sem); err != nil {
		s.logger.Error("激活学期失败", zap.Error(err))
		return nil, err
	}

	resp := toSemesterResponse(sem)
	return &resp, nil
}

func (s *semesterService) DeleteSemester(ctx context.Context, id string) error {
	sem, err := s.getSemester(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Semester.Delete(ctx, sem.SemesterID); err != nil {
		s.logger.Error("删除学期失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 作息方案 ──

func (s *semesterService) CreateScheme(ctx context.Context, req *dto.CreateSchemeRequest) (*dto.SchemeResponse, error) {
	if !validPeriods(req.Periods) {
		return nil, ErrSchemePeriodOrder
	}

	scheme := model.TimeScheme{Name: req.Name}
	if err := s.repo.Scheme.Create(ctx, &scheme); err != nil {
		s.logger.Error("创建作息方案失败", zap.Error(err))
		return nil, err
	}
	if err := s.repo.Scheme.ReplacePeriods(ctx, scheme.SchemeID, toSchemePeriods(scheme.SchemeID, req.Periods)); err != nil {
		s.logger.Error("写入作息方案节次失败", zap.Error(err))
		return nil, err
	}

	return s.GetScheme(ctx, scheme.SchemeID)
}

func (s *semesterService) GetScheme(ctx context.Context, id string) (*dto.SchemeResponse, error) {
	scheme, err := s.getScheme(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSchemeResponse(scheme)
	return &resp, nil
}

func (s *semesterService) ListSchemes(ctx context.Context) ([]dto.SchemeResponse, error) {
	schemes, err := s.repo.Scheme.List(ctx)
	if err != nil {
		s.logger.Error("查询作息方案列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.SchemeResponse, 0, len(schemes))
	for i := range schemes {
		out = append(out, toSchemeResponse(&schemes[i]))
	}
	return out, nil
}

func (s *semesterService) UpdateScheme(ctx context.Context, id string, req *dto.UpdateSchemeRequest) (*dto.SchemeResponse, error) {
	scheme, err := s.getScheme(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		scheme.Name = *req.Name
		if err := s.repo.Scheme.Update(ctx, scheme); err != nil {
			s.logger.Error("更新作息方案失败", zap.Error(err))
			return nil, err
		}
	}
	if len(req.Periods) > 0 {
		if !validPeriods(req.Periods) {
			return nil, ErrSchemePeriodOrder
		}
		if err := s.repo.Scheme.ReplacePeriods(ctx, scheme.SchemeID, toSchemePeriods(scheme.SchemeID, req.Periods)); err != nil {
			s.logger.Error("替换作息方案节次失败", zap.Error(err))
			return nil, err
		}
	}

	return s.GetScheme(ctx, scheme.SchemeID)
}

func (s *semesterService) DeleteScheme(ctx context.Context, id string) error {
	scheme, err := s.getScheme(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Scheme.Delete(ctx, scheme.SchemeID); err != nil {
		s.logger.Error("删除作息方案失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助 ──

func (s *semesterService) getSemester(ctx context.Context, id string) (*model.Semester, error) {
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

func (s *semesterService) getScheme(ctx context.Context, id string) (*model.TimeScheme, error) {
	scheme, err := s.repo.Scheme.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchemeNotFound
		}
		s.logger.Error("查询作息方案失败", zap.Error(err))
		return nil, err
	}
	return scheme, nil
}

// validPeriods 节次时间段自检：start < end，HH:MM 零填充下字典序即时间序
func validPeriods(periods []dto.PeriodPayload) bool {
	for _, p := range periods {
		if p.StartTime >= p.EndTime {
			return false
		}
	}
	return true
}

func toSchemePeriods(schemeID string, periods []dto.PeriodPayload) []model.SchemePeriod {
	out := make([]model.SchemePeriod, 0, len(periods))
	for _, p := range periods {
		out = append(out, model.SchemePeriod{
			SchemeID:    schemeID,
			PeriodIndex: p.Index,
			StartTime:   p.StartTime,
			EndTime:     p.EndTime,
		})
	}
	return out
}

func toSchemeResponse(s *model.TimeScheme) dto.SchemeResponse {
	periods := make([]dto.PeriodPayload, 0, len(s.Periods))
	for _, p := range s.Periods {
		periods = append(periods, dto.PeriodPayload{
			Index:     p.PeriodIndex,
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
		})
	}
	return dto.SchemeResponse{ID: s.SchemeID, Name: s.Name, Periods: periods}
}

func toSemesterResponse(sem *model.Semester) dto.SemesterResponse {
	return dto.SemesterResponse{
		ID:           sem.SemesterID,
		Name:         sem.Name,
		AcademicYear: sem.AcademicYear,
		Term:         sem.Term,
		StartDate:    dateutil.DateKey(sem.StartDate),
		EndDate:      dateutil.DateKey(sem.EndDate),
		SchemeID:     sem.SchemeID,
		IsActive:     sem.IsActive,
		TotalWeeks:   dateutil.TeachingWeek(sem.EndDate, sem.StartDate, sem.EndDate),
	}
}

func defaultTerm(t int) int {
	if t == 0 {
		return 1
	}
	return t
}
