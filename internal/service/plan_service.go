package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"planboard/backend/internal/agenda"
	"planboard/backend/internal/dto"
	"planboard/backend/internal/model"
	"planboard/backend/internal/recurrence"
	"planboard/backend/internal/repository"
	"planboard/backend/pkg/dateutil"
)

// ── 计划模块业务错误 ──

var (
	ErrPlanNotFound    = errors.New("计划不存在")
	ErrPlanInvalidSpan = errors.New("结束日期不能早于开始日期")
)

// ── PlanService 接口 ────────────────────────────────────────
//
// 设计说明：
//   - 计划的每次写入（创建/更新/删除）之后，同步把规则展开结果
//     重投影到 agenda 存储：删除该来源旧条目、重插新条目。
//     投影幂等，规则未变时重复投影不改变存储状态。
//   - TodaySummary 走逐日判定（IsActive），不物化整个窗口。
// ─────────────────────────────────────────────────────────────

// PlanService 计划模块业务接口
type PlanService interface {
	Create(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	Get(ctx context.Context, id string) (*dto.PlanResponse, error)
	// List 按分类过滤，category 为空返回全部
	List(ctx context.Context, category string) ([]dto.PlanResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	Delete(ctx context.Context, id string) error
	// TodaySummary 指定日期的计划概览（按分类计数）
	TodaySummary(ctx context.Context, date time.Time) (*dto.TodaySummaryResponse, error)
	// ResyncAll 全量重投影所有计划（定时任务与手动触发共用）
	ResyncAll(ctx context.Context) error
}

type planService struct {
	repo      *repository.Repository
	projector *agenda.Projector
	logger    *zap.Logger
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(repo *repository.Repository, projector *agenda.Projector, logger *zap.Logger) PlanService {
	return &planService{repo: repo, projector: projector, logger: logger}
}

func (s *planService) Create(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	start, _ := dateutil.ParseDateKey(req.StartDate)
	end, _ := dateutil.ParseDateKey(req.EndDate)
	if end.Before(start) {
		return nil, ErrPlanInvalidSpan
	}

	plan := model.Plan{
		Category:   req.Category,
		Title:      req.Title,
		Content:    req.Content,
		Priority:   defaultPriority(req.Priority),
		Time:       req.Time,
		Color:      req.Color,
		RuleType:   req.Rule.Type,
		Interval:   defaultInterval(req.Rule.Interval),
		Unit:       req.Rule.Unit,
		Days:       model.IntArray(req.Rule.Days),
		DayOfMonth: req.Rule.DayOfMonth,
		Count:      req.Rule.Count,
		StartDate:  start,
		EndDate:    end,
	}

	if err := s.repo.Plan.Create(ctx, &plan); err != nil {
		s.logger.Error("创建计划失败", zap.Error(err))
		return nil, err
	}

	s.project(ctx, &plan)

	resp := toPlanResponse(&plan)
	return &resp, nil
}

func (s *planService) Get(ctx context.Context, id string) (*dto.PlanResponse, error) {
	plan, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPlanResponse(plan)
	return &resp, nil
}

func (s *planService) List(ctx context.Context, category string) ([]dto.PlanResponse, error) {
	plans, err := s.repo.Plan.List(ctx, category)
	if err != nil {
		s.logger.Error("查询计划列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, toPlanResponse(&plans[i]))
	}
	return out, nil
}

func (s *planService) Update(ctx context.Context, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	plan, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPlanUpdate(plan, req)
	if plan.EndDate.Before(plan.StartDate) {
		return nil, ErrPlanInvalidSpan
	}

	if err := s.repo.Plan.Update(ctx, plan); err != nil {
		s.logger.Error("更新计划失败", zap.Error(err))
		return nil, err
	}

	// 规则/窗口/展示字段均可能变化，整体重投影
	s.project(ctx, plan)

	resp := toPlanResponse(plan)
	return &resp, nil
}

func (s *planService) Delete(ctx context.Context, id string) error {
	plan, err := s.getPlan(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Plan.Delete(ctx, plan.PlanID); err != nil {
		s.logger.Error("删除计划失败", zap.Error(err))
		return err
	}
	// 投影空序列即清理该来源的全部 agenda 条目
	if err := s.projector.Remove(ctx, plan.PlanID); err != nil {
		s.logger.Error("清理计划投影失败", zap.String("plan_id", plan.PlanID), zap.Error(err))
	}
	return nil
}

func (s *planService) TodaySummary(ctx context.Context, date time.Time) (*dto.TodaySummaryResponse, error) {
	plans, err := s.repo.Plan.List(ctx, "")
	if err != nil {
		s.logger.Error("查询计划列表失败", zap.Error(err))
		return nil, err
	}

	summary := &dto.TodaySummaryResponse{
		Date:       dateutil.DateKey(date),
		Categories: make(map[string]int),
	}
	for i := range plans {
		p := &plans[i]
		if recurrence.IsActive(p.Rule(), p.Window(), date) {
			summary.Total++
			summary.Categories[p.Category]++
		}
	}
	return summary, nil
}

func (s *planService) ResyncAll(ctx context.Context) error {
	plans, err := s.repo.Plan.List(ctx, "")
	if err != nil {
		return err
	}
	for i := range plans {
		if err := s.projectErr(ctx, &plans[i]); err != nil {
			return err
		}
	}
	return nil
}

// ── 内部辅助 ──

func (s *planService) getPlan(ctx context.Context, id string) (*model.Plan, error) {
	plan, err := s.repo.Plan.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		s.logger.Error("查询计划失败", zap.Error(err))
		return nil, err
	}
	return plan, nil
}

// project 投影失败只记日志不回滚：计划本体已落库，下一次定时重投影会补齐
func (s *planService) project(ctx context.Context, plan *model.Plan) {
	if err := s.projectErr(ctx, plan); err != nil {
		s.logger.Error("计划投影失败", zap.String("plan_id", plan.PlanID), zap.Error(err))
	}
}

func (s *planService) projectErr(ctx context.Context, plan *model.Plan) error {
	dates := recurrence.Generate(plan.Rule(), plan.Window())
	occs := make([]model.AgendaEntry, 0, len(dates))
	for _, d := range dates {
		occs = append(occs, model.AgendaEntry{
			DateKey:    dateutil.DateKey(d),
			Time:       plan.Time,
			Content:    plan.Title,
			Priority:   plan.Priority,
			SourceType: "plan",
		})
	}
	return s.projector.Project(ctx, plan.PlanID, occs)
}

func applyPlanUpdate(plan *model.Plan, req *dto.UpdatePlanRequest) {
	if req.Category != nil {
		plan.Category = *req.Category
	}
	if req.Title != nil {
		plan.Title = *req.Title
	}
	if req.Content != nil {
		plan.Content = *req.Content
	}
	if req.Priority != nil {
		plan.Priority = *req.Priority
	}
	if req.Time != nil {
		plan.Time = *req.Time
	}
	if req.Color != nil {
		plan.Color = *req.Color
	}
	if req.Rule != nil {
		plan.RuleType = req.Rule.Type
		plan.Interval = defaultInterval(req.Rule.Interval)
		plan.Unit = req.Rule.Unit
		plan.Days = model.IntArray(req.Rule.Days)
		plan.DayOfMonth = req.Rule.DayOfMonth
		plan.Count = req.Rule.Count
	}
	if req.StartDate != nil {
		if t, ok := dateutil.ParseDateKey(*req.StartDate); ok {
			plan.StartDate = t
		}
	}
	if req.EndDate != nil {
		if t, ok := dateutil.ParseDateKey(*req.EndDate); ok {
			plan.EndDate = t
		}
	}
}

func toPlanResponse(p *model.Plan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:       p.PlanID,
		Category: p.Category,
		Title:    p.Title,
		Content:  p.Content,
		Priority: p.Priority,
		Time:     p.Time,
		Color:    p.Color,
		Rule: dto.RulePayload{
			Type:       p.RuleType,
			Interval:   p.Interval,
			Unit:       p.Unit,
			Days:       []int(p.Days),
			DayOfMonth: p.DayOfMonth,
			Count:      p.Count,
		},
		StartDate: dateutil.DateKey(p.StartDate),
		EndDate:   dateutil.DateKey(p.EndDate),
	}
}

func defaultPriority(p int) int {
	if p == 0 {
		return 2
	}
	return p
}

func defaultInterval(i int) int {
	if i < 1 {
		return 1
	}
	return i
}
