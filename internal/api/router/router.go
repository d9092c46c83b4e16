package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"planboard/backend/config"
	"planboard/backend/internal/api/handler"
	"planboard/backend/internal/api/middleware"
	"planboard/backend/pkg/jwt"
	"planboard/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(2 << 20)) // ICS 导入是最大的请求体

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 计划模块
			plans := authorized.Group("/plans")
			{
				plans.GET("", h.Plan.ListPlans)
				plans.GET("/today", h.Plan.TodaySummary)
				plans.GET("/:id", h.Plan.GetPlan)
				plans.POST("", h.Plan.CreatePlan)
				plans.POST("/resync", h.Plan.Resync)
				plans.PUT("/:id", h.Plan.UpdatePlan)
				plans.DELETE("/:id", h.Plan.DeletePlan)
			}

			// 学期模块
			semesters := authorized.Group("/semesters")
			{
				semesters.GET("", h.Semester.ListSemesters)
				semesters.GET("/current", h.Semester.GetCurrentSemester)
				semesters.GET("/:id", h.Semester.GetSemester)
				semesters.POST("", h.Semester.CreateSemester)
				semesters.PUT("/:id", h.Semester.UpdateSemester)
				semesters.POST("/:id/activate", h.Semester.ActivateSemester)
				semesters.DELETE("/:id", h.Semester.DeleteSemester)
			}

			// 作息方案模块
			schemes := authorized.Group("/schemes")
			{
				schemes.GET("", h.Semester.ListSchemes)
				schemes.GET("/:id", h.Semester.GetScheme)
				schemes.POST("", h.Semester.CreateScheme)
				schemes.PUT("/:id", h.Semester.UpdateScheme)
				schemes.DELETE("/:id", h.Semester.DeleteScheme)
			}

			// 课表模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Timetable.ListCourses)
				courses.GET("/:id", h.Timetable.GetCourse)
				courses.POST("", h.Timetable.CreateCourse)
				courses.PUT("/:id", h.Timetable.UpdateCourse)
				courses.DELETE("/:id", h.Timetable.DeleteCourse)
			}
			timetable := authorized.Group("/timetable")
			{
				timetable.GET("/week", h.Timetable.WeekView)
				timetable.POST("/import", h.Timetable.ImportICS)
				timetable.POST("/sync", h.Timetable.Sync)
			}

			// 日程模块
			agenda := authorized.Group("/agenda")
			{
				agenda.GET("", h.Agenda.GetRange)
				agenda.GET("/:date", h.Agenda.GetDay)
				agenda.POST("", h.Agenda.CreateManual)
				agenda.DELETE("/entries/:id", h.Agenda.DeleteManual)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/timetable", h.Export.ExportTimetable)
				export.GET("/agenda.ics", h.Export.ExportAgendaICS)
			}
		}
	}

	return r
}
