package handlers

import (
	"context"
	"log"
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/monitoring"
	"yatube/internal/sessions"
	"yatube/internal/store"
	"yatube/internal/templates"

	"github.com/gin-gonic/gin"
)

type PostStore interface {
	Count(ctx context.Context, filter store.PostFilter) (int, error)
	List(ctx context.Context, filter store.PostFilter, limit, offset int) ([]models.Post, error)
	Get(ctx context.Context, id int) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
}

type GroupStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListAuthors(ctx context.Context, limit, offset int) ([]store.AuthorStat, int, error)
}

// Handler serves the site pages and the JSON status endpoints.
type Handler struct {
	Posts    PostStore
	Groups   GroupStore
	Users    UserStore
	Sessions sessions.Revoker
	Monitor  *monitoring.Service

	// MonitoringKey guards /api/monitor; empty disables it.
	MonitoringKey string
	SecureCookies bool
}

// render executes an HTML page, exposing the logged-in user as "user".
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := middleware.CurrentUser(c); ok {
		data["user"] = user
	}
	c.HTML(status, name, data)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, templates.NotFound, gin.H{"path": c.Request.URL.Path})
}

func (h *Handler) serverError(c *gin.Context, action string, err error) {
	log.Printf("Error %s: %v", action, err)
	h.render(c, http.StatusInternalServerError, templates.ServerErr, nil)
}
