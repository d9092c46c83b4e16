package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"planboard/backend/internal/dto"
	"planboard/backend/internal/service"
	"planboard/backend/pkg/response"
)

// SemesterHandler 学期与作息方案 HTTP 处理器
type SemesterHandler struct {
	semesterSvc service.SemesterService
}

// NewSemesterHandler 创建 SemesterHandler
func NewSemesterHandler(semesterSvc service.SemesterService) *SemesterHandler {
	return &SemesterHandler{semesterSvc: semesterSvc}
}

// ── 学期 ──

// ListSemesters 获取学期列表
// GET /api/v1/semesters
func (h *SemesterHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.semesterSvc.ListSemesters(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": semesters})
}

// GetCurrentSemester 获取当前激活学期
// GET /api/v1/semesters/current
func (h *SemesterHandler) GetCurrentSemester(c *gin.Context) {
	semester, err := h.semesterSvc.GetCurrent(c.Request.Context())
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, semester)
}

// GetSemester 获取学期详情
// GET /api/v1/semesters/:id
func (h *SemesterHandler) GetSemester(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	semester, err := h.semesterSvc.GetSemester(c.Request.Context(), id)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, semester)
}

// CreateSemester 创建学期
// POST /api/v1/semesters
func (h *SemesterHandler) CreateSemester(c *gin.Context) {
	var req dto.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	semester, err := h.semesterSvc.CreateSemester(c.Request.Context(), &req)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.Created(c, semester)
}

// UpdateSemester 更新学期
// PUT /api/v1/semesters/:id
func (h *SemesterHandler) UpdateSemester(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	var req dto.UpdateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	semester, err := h.semesterSvc.UpdateSemester(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, semester)
}

// ActivateSemester 激活学期
// POST /api/v1/semesters/:id/activate
func (h *SemesterHandler) ActivateSemester(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	semester, err := h.semesterSvc.ActivateSemester(c.Request.Context(), id)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, semester)
}

// DeleteSemester 删除学期
// DELETE /api/v1/semesters/:id
func (h *SemesterHandler) DeleteSemester(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	if err := h.semesterSvc.DeleteSemester(c.Request.Context(), id); err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.NoContent(c)
}

// ── 作息方案 ──

// ListSchemes 获取作息方案列表
// GET /api/v1/schemes
func (h *SemesterHandler) ListSchemes(c *gin.Context) {
	schemes, err := h.semesterSvc.ListSchemes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": schemes})
}

// GetScheme 获取作息方案详情
// GET /api/v1/schemes/:id
func (h *SemesterHandler) GetScheme(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "方案ID不能为空")
		return
	}

	scheme, err := h.semesterSvc.GetScheme(c.Request.Context(), id)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, scheme)
}

// CreateScheme 创建作息方案
// POST /api/v1/schemes
func (h *SemesterHandler) CreateScheme(c *gin.Context) {
	var req dto.CreateSchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	scheme, err := h.semesterSvc.CreateScheme(c.Request.Context(), &req)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.Created(c, scheme)
}

// UpdateScheme 更新作息方案
// PUT /api/v1/schemes/:id
func (h *SemesterHandler) UpdateScheme(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "方案ID不能为空")
		return
	}

	var req dto.UpdateSchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	scheme, err := h.semesterSvc.UpdateScheme(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, scheme)
}

// DeleteScheme 删除作息方案
// DELETE /api/v1/schemes/:id
func (h *SemesterHandler) DeleteScheme(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "方案ID不能为空")
		return
	}

	if err := h.semesterSvc.DeleteScheme(c.Request.Context(), id); err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.NoContent(c)
}

func (h *SemesterHandler) handleSemesterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 13001, "学期不存在")
	case errors.Is(err, service.ErrNoActiveSemester):
		response.NotFound(c, 13002, "当前无激活学期")
	case errors.Is(err, service.ErrSemesterInvalidSpan):
		response.BadRequest(c, 13003, "学期结束日期不能早于开始日期")
	case errors.Is(err, service.ErrSchemeNotFound):
		response.NotFound(c, 13004, "作息方案不存在")
	case errors.Is(err, service.ErrSchemePeriodOrder):
		response.BadRequest(c, 13005, "作息方案节次时间非法")
	default:
		response.InternalError(c)
	}
}
