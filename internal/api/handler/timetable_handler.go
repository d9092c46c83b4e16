package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"planboard/backend/internal/dto"
	"planboard/backend/internal/service"
	"planboard/backend/pkg/response"
)

// TimetableHandler 课表模块 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// ListCourses 获取学期课表
// GET /api/v1/courses?semester_id=xxx
func (h *TimetableHandler) ListCourses(c *gin.Context) {
	semesterID := c.Query("semester_id")
	if semesterID == "" {
		response.BadRequest(c, 10001, "semester_id 不能为空")
		return
	}

	courses, err := h.timetableSvc.ListCourses(c.Request.Context(), semesterID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, gin.H{"list": courses})
}

// GetCourse 获取课表条目详情
// GET /api/v1/courses/:id
func (h *TimetableHandler) GetCourse(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	course, err := h.timetableSvc.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, course)
}

// CreateCourse 创建课表条目
// POST /api/v1/courses?force=true
// 冲突且未 force 时返回 409，响应体携带冲突条目列表
func (h *TimetableHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, conflicts, err := h.timetableSvc.CreateCourse(c.Request.Context(), &req, forceFlag(c))
	if err != nil {
		if errors.Is(err, service.ErrCourseConflict) {
			response.Conflict(c, 14001, "与已有课表条目时间冲突", dto.ConflictListResponse{Conflicts: conflicts})
			return
		}
		h.handleTimetableError(c, err)
		return
	}

	response.Created(c, gin.H{"course": course, "conflicts": conflicts})
}

// UpdateCourse 更新课表条目
// PUT /api/v1/courses/:id?force=true
func (h *TimetableHandler) UpdateCourse(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, conflicts, err := h.timetableSvc.UpdateCourse(c.Request.Context(), id, &req, forceFlag(c))
	if err != nil {
		if errors.Is(err, service.ErrCourseConflict) {
			response.Conflict(c, 14001, "与已有课表条目时间冲突", dto.ConflictListResponse{Conflicts: conflicts})
			return
		}
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, gin.H{"course": course, "conflicts": conflicts})
}

// DeleteCourse 删除课表条目
// DELETE /api/v1/courses/:id
func (h *TimetableHandler) DeleteCourse(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	if err := h.timetableSvc.DeleteCourse(c.Request.Context(), id); err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.NoContent(c)
}

// WeekView 教学周视图
// GET /api/v1/timetable/week?semester_id=xxx&week=3
func (h *TimetableHandler) WeekView(c *gin.Context) {
	semesterID := c.Query("semester_id")
	if semesterID == "" {
		response.BadRequest(c, 10001, "semester_id 不能为空")
		return
	}
	week, err := strconv.Atoi(c.DefaultQuery("week", "1"))
	if err != nil || week < 1 {
		response.BadRequest(c, 10001, "week 必须为正整数")
		return
	}

	view, err := h.timetableSvc.WeekView(c.Request.Context(), semesterID, week)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, view)
}

// ImportICS 导入 ICS 课表
// POST /api/v1/timetable/import
func (h *TimetableHandler) ImportICS(c *gin.Context) {
	var req dto.ImportICSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timetableSvc.ImportICS(c.Request.Context(), &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, result)
}

// Sync 手动触发学期课表重投影
// POST /api/v1/timetable/sync?semester_id=xxx
func (h *TimetableHandler) Sync(c *gin.Context) {
	semesterID := c.Query("semester_id")
	if semesterID == "" {
		response.BadRequest(c, 10001, "semester_id 不能为空")
		return
	}

	if err := h.timetableSvc.SyncSemester(c.Request.Context(), semesterID); err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.NoContent(c)
}

func (h *TimetableHandler) handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 14002, "课表条目不存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 13001, "学期不存在")
	case errors.Is(err, service.ErrCourseInvalidShape):
		response.BadRequest(c, 14003, "课表条目字段不完整")
	case errors.Is(err, service.ErrCourseExamDate):
		response.BadRequest(c, 14004, "考试日期非法")
	case errors.Is(err, service.ErrICSParseFailed):
		response.BadRequest(c, 14005, "ICS 内容解析失败")
	case errors.Is(err, service.ErrICSEmpty):
		response.BadRequest(c, 14006, "ICS 内容中未发现有效课程事件")
	default:
		response.InternalError(c)
	}
}

// forceFlag 解析 ?force=true 查询参数
func forceFlag(c *gin.Context) bool {
	return c.Query("force") == "true"
}
