package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fastygo/productivity/api/handler"
	"github.com/fastygo/productivity/internal/middleware"
)

type Handlers struct {
	Task          *apiHandler.TaskHandler
	Insight       *apiHandler.InsightHandler
	Notification  *apiHandler.NotificationHandler
	Communication *apiHandler.CommunicationHandler
	Events        *apiHandler.EventsHandler
	Health        *apiHandler.HealthHandler
}

func New(handlers Handlers, guard middleware.Middleware) *router.Router {
	if guard == nil {
		guard = middleware.Passthrough
	}
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	v1 := r.Group("/api/v1")

	v1.GET("/tasks", guard(handlers.Task.GetTasks))
	v1.POST("/tasks", guard(handlers.Task.CreateTask))
	v1.GET("/tasks/overdue", guard(handlers.Task.GetOverdue))
	v1.GET("/tasks/{id}", guard(handlers.Task.GetTask))
	v1.PUT("/tasks/{id}", guard(handlers.Task.UpdateTask))
	v1.DELETE("/tasks/{id}", guard(handlers.Task.DeleteTask))

	v1.GET("/stats", guard(handlers.Task.GetStats))
	v1.GET("/patterns", guard(handlers.Task.GetPatterns))

	v1.GET("/insights", guard(handlers.Insight.GetInsights))
	v1.GET("/insights/history", guard(handlers.Insight.GetHistory))
	v1.POST("/accountability/check", guard(handlers.Insight.TriggerAccountability))

	v1.GET("/notifications", guard(handlers.Notification.List))
	v1.GET("/notifications/unread-count", guard(handlers.Notification.UnreadCount))
	v1.GET("/notifications/settings", guard(handlers.Notification.Settings))
	v1.PUT("/notifications/settings", guard(handlers.Notification.Settings))
	v1.POST("/notifications/{id}/read", guard(handlers.Notification.MarkRead))

	v1.GET("/communication", guard(handlers.Communication.Status))
	v1.POST("/communication/sync", guard(handlers.Communication.Sync))
	v1.POST("/communication/{service}/connect", guard(handlers.Communication.Connect))

	v1.GET("/events", guard(handlers.Events.Stream))

	return r
}
