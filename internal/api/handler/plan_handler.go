package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"planboard/backend/internal/dto"
	"planboard/backend/internal/service"
	"planboard/backend/pkg/dateutil"
	"planboard/backend/pkg/response"
)

// PlanHandler 计划模块 HTTP 处理器
type PlanHandler struct {
	planSvc service.PlanService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// ListPlans 获取计划列表
// GET /api/v1/plans?category=todo
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planSvc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": plans})
}

// GetPlan 获取计划详情
// GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "计划ID不能为空")
		return
	}

	plan, err := h.planSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, plan)
}

// CreatePlan 创建计划
// POST /api/v1/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	plan, err := h.planSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.Created(c, plan)
}

// UpdatePlan 更新计划
// PUT /api/v1/plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "计划ID不能为空")
		return
	}

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	plan, err := h.planSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, plan)
}

// DeletePlan 删除计划
// DELETE /api/v1/plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "计划ID不能为空")
		return
	}

	if err := h.planSvc.Delete(c.Request.Context(), id); err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.NoContent(c)
}

// TodaySummary 今日计划概览
// GET /api/v1/plans/today?date=2026-03-01（date 省略时取今天）
func (h *PlanHandler) TodaySummary(c *gin.Context) {
	date := time.Now()
	if q := c.Query("date"); q != "" {
		t, ok := dateutil.ParseDateKey(q)
		if !ok {
			response.BadRequest(c, 10001, "日期格式非法，应为 YYYY-MM-DD")
			return
		}
		date = t
	}

	summary, err := h.planSvc.TodaySummary(c.Request.Context(), date)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}

// Resync 手动触发计划全量重投影
// POST /api/v1/plans/resync
func (h *PlanHandler) Resync(c *gin.Context) {
	if err := h.planSvc.ResyncAll(c.Request.Context()); err != nil {
		response.InternalError(c)
		return
	}

	response.NoContent(c)
}

func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 12001, "计划不存在")
	case errors.Is(err, service.ErrPlanInvalidSpan):
		response.BadRequest(c, 12002, "结束日期不能早于开始日期")
	default:
		response.InternalError(c)
	}
}
