package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"planboard/backend/internal/service"
	"planboard/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimetable 导出学期课表为 Excel
// GET /api/v1/export/timetable?semester_id=xxx
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	semesterID := c.Query("semester_id")
	if semesterID == "" {
		response.BadRequest(c, 10001, "semester_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), semesterID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportAgendaICS 导出日程区间为 iCalendar 订阅流
// GET /api/v1/export/agenda.ics?from=2026-03-01&to=2026-03-31
func (h *ExportHandler) ExportAgendaICS(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, 10001, "from/to 不能为空")
		return
	}

	data, err := h.exportSvc.ExportAgendaICS(c.Request.Context(), from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=agenda.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(data))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 13001, "学期不存在")
	case errors.Is(err, service.ErrExportNoCourses):
		response.NotFound(c, 16001, "该学期暂无课表条目")
	case errors.Is(err, service.ErrAgendaRangeInvalid):
		response.BadRequest(c, 15003, "日期区间非法")
	case errors.Is(err, service.ErrAgendaRangeTooWide):
		response.BadRequest(c, 15004, "日期区间过大，最多 366 天")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
