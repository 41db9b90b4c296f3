package templates

import (
	"embed"
	"fmt"
	"html/template"
	"time"
	"unicode/utf8"

	"yatube/internal/forms"

	"github.com/gin-contrib/multitemplate"
)

//go:embed base.html includes posts users core
var files embed.FS

// Page names as passed to gin's c.HTML.
const (
	Index      = "posts/index.html"
	GroupList  = "posts/group_list.html"
	Profile    = "posts/profile.html"
	PostDetail = "posts/post_detail.html"
	CreatePost = "posts/create_post.html"
	Login      = "users/login.html"
	Signup     = "users/signup.html"
	LoggedOut  = "users/logged_out.html"
	NotFound   = "core/404.html"
	ServerErr  = "core/500.html"
)

var Pages = []string{
	Index,
	GroupList,
	Profile,
	PostDetail,
	CreatePost,
	Login,
	Signup,
	LoggedOut,
	NotFound,
	ServerErr,
}

var funcs = template.FuncMap{
	"formatDate":  formatDate,
	"truncate":    truncate,
	"inputType":   inputType,
	"currentYear": func() int { return time.Now().Year() },
}

// Load parses every page together with the shared layout and partials.
func Load() (multitemplate.Render, error) {
	r := multitemplate.New()
	for _, page := range Pages {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(files, "base.html", "includes/*.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.Add(page, tmpl)
	}
	return r, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}

func inputType(kind forms.FieldKind) string {
	switch kind {
	case forms.PasswordField:
		return "password"
	case forms.EmailField:
		return "email"
	default:
		return "text"
	}
}
