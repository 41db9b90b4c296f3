package handlers

import (
	"context"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/store"
)

const postsPerPage = 10

// Page is one page of a post listing.
type Page struct {
	Posts    []models.Post
	Number   int
	NumPages int
	Count    int
	PerPage  int
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) NextPageNumber() int {
	return p.Number + 1
}

func (p Page) PreviousPageNumber() int {
	return p.Number - 1
}

func (p Page) PageRange() []int {
	pages := make([]int, 0, p.NumPages)
	for i := 1; i <= p.NumPages; i++ {
		pages = append(pages, i)
	}
	return pages
}

// numPages counts an empty listing as a single page.
func numPages(total, perPage int) int {
	if total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// resolvePage maps the raw page parameter to a page number: anything that
// is not an integer means the first page, anything out of range the last.
func resolvePage(raw string, total, perPage int) int {
	pages := numPages(total, perPage)
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if number < 1 || number > pages {
		return pages
	}
	return number
}

func paginatePosts(ctx context.Context, posts PostStore, filter store.PostFilter, rawPage string) (Page, error) {
	total, err := posts.Count(ctx, filter)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Number:   resolvePage(rawPage, total, postsPerPage),
		NumPages: numPages(total, postsPerPage),
		Count:    total,
		PerPage:  postsPerPage,
	}
	if total == 0 {
		page.Posts = []models.Post{}
		return page, nil
	}

	page.Posts, err = posts.List(ctx, filter, postsPerPage, (page.Number-1)*postsPerPage)
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
