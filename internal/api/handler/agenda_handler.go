package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"planboard/backend/internal/dto"
	"planboard/backend/internal/service"
	"planboard/backend/pkg/response"
)

// AgendaHandler 日程模块 HTTP 处理器
type AgendaHandler struct {
	agendaSvc service.AgendaService
}

// NewAgendaHandler 创建 AgendaHandler
func NewAgendaHandler(agendaSvc service.AgendaService) *AgendaHandler {
	return &AgendaHandler{agendaSvc: agendaSvc}
}

// GetDay 获取单日日程
// GET /api/v1/agenda/:date
func (h *AgendaHandler) GetDay(c *gin.Context) {
	day, err := h.agendaSvc.GetDay(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.handleAgendaError(c, err)
		return
	}

	response.OK(c, day)
}

// GetRange 获取区间日程
// GET /api/v1/agenda?from=2026-03-01&to=2026-03-07
func (h *AgendaHandler) GetRange(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, 10001, "from/to 不能为空")
		return
	}

	rng, err := h.agendaSvc.GetRange(c.Request.Context(), from, to)
	if err != nil {
		h.handleAgendaError(c, err)
		return
	}

	response.OK(c, rng)
}

// CreateManual 创建手动日程条目
// POST /api/v1/agenda
func (h *AgendaHandler) CreateManual(c *gin.Context) {
	var req dto.CreateManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.agendaSvc.CreateManual(c.Request.Context(), &req)
	if err != nil {
		h.handleAgendaError(c, err)
		return
	}

	response.Created(c, entry)
}

// DeleteManual 删除手动日程条目
// DELETE /api/v1/agenda/entries/:id
func (h *AgendaHandler) DeleteManual(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "条目ID不能为空")
		return
	}

	if err := h.agendaSvc.DeleteManual(c.Request.Context(), id); err != nil {
		h.handleAgendaError(c, err)
		return
	}

	response.NoContent(c)
}

func (h *AgendaHandler) handleAgendaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAgendaEntryNotFound):
		response.NotFound(c, 15001, "日程条目不存在")
	case errors.Is(err, service.ErrAgendaEntryNotOwn):
		response.BadRequest(c, 15002, "投影条目不可手动删除，请修改来源计划/课表")
	case errors.Is(err, service.ErrAgendaRangeInvalid):
		response.BadRequest(c, 15003, "日期区间非法")
	case errors.Is(err, service.ErrAgendaRangeTooWide):
		response.BadRequest(c, 15004, "日期区间过大，最多 366 天")
	default:
		response.InternalError(c)
	}
}
