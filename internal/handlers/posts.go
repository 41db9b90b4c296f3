package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/templates"

	"github.com/gin-gonic/gin"
)

// Index lists every post, newest first.
func (h *Handler) Index(c *gin.Context) {
	page, err := paginatePosts(c.Request.Context(), h.Posts, store.PostFilter{}, c.Query("page"))
	if err != nil {
		h.serverError(c, "listing posts", err)
		return
	}
	h.render(c, http.StatusOK, templates.Index, gin.H{"page_obj": page})
}

// GroupPosts lists the posts of one group.
func (h *Handler) GroupPosts(c *gin.Context) {
	group, err := h.Groups.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, "loading group", err)
		return
	}

	page, err := paginatePosts(c.Request.Context(), h.Posts, store.PostFilter{GroupID: &group.ID}, c.Query("page"))
	if err != nil {
		h.serverError(c, "listing group posts", err)
		return
	}
	h.render(c, http.StatusOK, templates.GroupList, gin.H{
		"group":    group,
		"page_obj": page,
	})
}

// Profile lists the posts of one author.
func (h *Handler) Profile(c *gin.Context) {
	author, err := h.Users.GetByUsername(c.Request.Context(), c.Param("username"))
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, "loading author", err)
		return
	}

	page, err := paginatePosts(c.Request.Context(), h.Posts, store.PostFilter{AuthorID: &author.ID}, c.Query("page"))
	if err != nil {
		h.serverError(c, "listing author posts", err)
		return
	}
	h.render(c, http.StatusOK, templates.Profile, gin.H{
		"author":     author,
		"page_obj":   page,
		"post_count": page.Count,
	})
}

func (h *Handler) PostDetail(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	count, err := h.Posts.Count(c.Request.Context(), store.PostFilter{AuthorID: &post.Author.ID})
	if err != nil {
		h.serverError(c, "counting author posts", err)
		return
	}
	h.render(c, http.StatusOK, templates.PostDetail, gin.H{
		"post":       post,
		"post_count": count,
	})
}

// loadPost resolves the :id parameter, answering 404 itself when the
// post does not exist.
func (h *Handler) loadPost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.NotFound(c)
		return nil, false
	}

	post, err := h.Posts.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(c)
		return nil, false
	}
	if err != nil {
		h.serverError(c, "loading post", err)
		return nil, false
	}
	return post, true
}

// PostCreate shows and processes the new post form. The author is always
// the session user.
func (h *Handler) PostCreate(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	groups, err := h.Groups.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "listing groups", err)
		return
	}

	form := forms.NewPostForm(groups)
	if c.Request.Method != http.MethodPost {
		h.render(c, http.StatusOK, templates.CreatePost, gin.H{"form": form})
		return
	}

	if err := c.ShouldBind(form); err != nil || !form.Validate() {
		h.render(c, http.StatusOK, templates.CreatePost, gin.H{"form": form})
		return
	}

	post := &models.Post{Author: models.User{ID: user.ID, Username: user.Username}}
	form.Apply(post)
	if err := h.Posts.Create(c.Request.Context(), post); err != nil {
		h.serverError(c, "creating post", err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", user.Username))
}

// PostEdit shows and processes the edit form. Only the author may edit;
// anyone else is sent back to the post page.
func (h *Handler) PostEdit(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	detailURL := fmt.Sprintf("/posts/%d/", post.ID)
	if !post.IsAuthoredBy(user.ID) {
		c.Redirect(http.StatusFound, detailURL)
		return
	}

	groups, err := h.Groups.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "listing groups", err)
		return
	}

	form := forms.PostFormFromPost(post, groups)
	data := gin.H{"form": form, "is_edit": true, "post": post}
	if c.Request.Method != http.MethodPost {
		h.render(c, http.StatusOK, templates.CreatePost, data)
		return
	}

	form.Text, form.Group = "", ""
	if err := c.ShouldBind(form); err != nil || !form.Validate() {
		h.render(c, http.StatusOK, templates.CreatePost, data)
		return
	}

	form.Apply(post)
	if err := h.Posts.Update(c.Request.Context(), post); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.NotFound(c)
			return
		}
		h.serverError(c, "updating post", err)
		return
	}
	c.Redirect(http.StatusFound, detailURL)
}
