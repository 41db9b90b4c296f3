package handlers

import (
	"errors"
	"log"
	"net/http"

	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/templates"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

// Signup registers a user and logs them in.
func (h *Handler) Signup(c *gin.Context) {
	form := forms.NewSignupForm()
	if c.Request.Method != http.MethodPost {
		h.render(c, http.StatusOK, templates.Signup, gin.H{"form": form})
		return
	}

	if err := c.ShouldBind(form); err != nil || !form.Validate() {
		h.render(c, http.StatusOK, templates.Signup, gin.H{"form": form})
		return
	}

	hashedPassword, err := utils.HashPassword(form.Password1)
	if err != nil {
		h.serverError(c, "hashing password", err)
		return
	}

	user := &models.User{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Password:  hashedPassword,
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			form.AddUsernameTaken()
			h.render(c, http.StatusOK, templates.Signup, gin.H{"form": form})
			return
		}
		h.serverError(c, "creating user", err)
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Login checks credentials and redirects to the local next URL.
func (h *Handler) Login(c *gin.Context) {
	form := forms.NewLoginForm()
	if c.Request.Method != http.MethodPost {
		h.render(c, http.StatusOK, templates.Login, gin.H{"form": form, "next": c.Query("next")})
		return
	}

	next := c.PostForm("next")
	data := gin.H{"form": form, "next": next}
	if err := c.ShouldBind(form); err != nil || !form.Validate() {
		h.render(c, http.StatusOK, templates.Login, data)
		return
	}

	user, err := h.Users.GetByUsername(c.Request.Context(), form.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.serverError(c, "querying user", err)
		return
	}
	if user == nil || !utils.CheckPasswordHash(form.Password, user.Password) {
		form.AddInvalidCredentials()
		h.render(c, http.StatusOK, templates.Login, data)
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.Redirect(http.StatusFound, middleware.SafeNext(next, "/"))
}

// Logout revokes the current session token and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if tokenID, expiresAt, ok := middleware.SessionFromContext(c); ok && h.Sessions != nil {
		if err := h.Sessions.Revoke(c.Request.Context(), tokenID, expiresAt); err != nil {
			log.Printf("Error revoking session: %v", err)
		}
	}
	middleware.ClearSessionCookie(c, h.SecureCookies)
	middleware.SetCurrentUser(c, middleware.SessionUser{})
	h.render(c, http.StatusOK, templates.LoggedOut, nil)
}

func (h *Handler) startSession(c *gin.Context, user *models.User) bool {
	token, _, err := utils.GenerateToken(user.ID, user.Username)
	if err != nil {
		h.serverError(c, "generating token", err)
		return false
	}
	middleware.SetSessionCookie(c, token, h.SecureCookies)
	return true
}
