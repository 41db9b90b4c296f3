package handlers

import (
	"yatube/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Register mounts every route on router. Session resolution must already
// be part of the router's middleware chain.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/health", HealthCheck)
	router.GET("/api/status", Status)

	router.GET("/", h.Index)
	router.GET("/group/:slug/", h.GroupPosts)
	router.GET("/profile/:username/", h.Profile)
	router.GET("/posts/:id/", h.PostDetail)

	protected := router.Group("/", middleware.LoginRequired())
	{
		protected.GET("/create/", h.PostCreate)
		protected.POST("/create/", h.PostCreate)
		protected.GET("/posts/:id/edit/", h.PostEdit)
		protected.POST("/posts/:id/edit/", h.PostEdit)
	}

	auth := router.Group("/auth")
	{
		auth.GET("/signup/", h.Signup)
		auth.POST("/signup/", h.Signup)
		auth.GET("/login/", h.Login)
		auth.POST("/login/", h.Login)
		auth.GET("/logout/", h.Logout)
		auth.POST("/logout/", h.Logout)
	}

	monitor := router.Group("/api/monitor")
	{
		monitor.GET("/status", h.MonitorStatus)
		monitor.GET("/all", h.MonitorAll)
		monitor.GET("/snapshot", h.MonitorSnapshot)
		monitor.GET("/authors", h.MonitorAuthors)
	}

	router.NoRoute(h.NotFound)
}
