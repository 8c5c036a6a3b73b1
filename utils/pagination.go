package utils

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
)

// Pagination describes one page of a list view.
type Pagination struct {
	CurrentPage  int
	ItemsPerPage int
	TotalItems   int64
}

// NewPagination clamps page to the first page when it is not positive.
func NewPagination(page, size int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	return Pagination{CurrentPage: page, ItemsPerPage: size, TotalItems: total}
}

// TotalPages is ceil(TotalItems / ItemsPerPage).
func (p Pagination) TotalPages() int {
	if p.ItemsPerPage <= 0 || p.TotalItems <= 0 {
		return 0
	}
	per := int64(p.ItemsPerPage)
	return int((p.TotalItems + per - 1) / per)
}

// Offset is the number of items skipped before the current page.
func (p Pagination) Offset() int {
	if p.CurrentPage < 1 {
		return 0
	}
	return (p.CurrentPage - 1) * p.ItemsPerPage
}

// HasPrevious reports whether a page exists before the current one.
func (p Pagination) HasPrevious() bool { return p.CurrentPage > 1 }

// HasNext reports whether a page exists after the current one.
func (p Pagination) HasNext() bool { return p.CurrentPage < p.TotalPages() }

// PageSlice returns the items shown on page, or an empty slice past the end.
func PageSlice[T any](items []T, page, size int) []T {
	if size <= 0 {
		return []T{}
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ParsePage reads a page number from a query value, defaulting to 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// PageLinks renders the numbered links under a paginated list.
type PageLinks struct {
	Pagination *Pagination
	// BaseURL is the URL of the current view, including its query string.
	BaseURL string
	// ParamName is the query parameter carrying the page number.
	ParamName string

	ContainerID         string
	ContainerClasses    []string
	LinkClasses         []string
	SelectedLinkClasses []string
}

// Render returns the HTML for the links, or "" when the links cannot be built.
func (l PageLinks) Render() template.HTML {
	if l.Pagination == nil || strings.TrimSpace(l.BaseURL) == "" || strings.TrimSpace(l.ParamName) == "" {
		return ""
	}
	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("<div")
	if l.ContainerID != "" {
		fmt.Fprintf(&b, ` id="%s"`, template.HTMLEscapeString(l.ContainerID))
	}
	if len(l.ContainerClasses) > 0 {
		fmt.Fprintf(&b, ` class="%s"`, template.HTMLEscapeString(strings.Join(l.ContainerClasses, " ")))
	}
	b.WriteString(">")

	for page := 1; page <= l.Pagination.TotalPages(); page++ {
		link := *base
		query := link.Query()
		query.Set(l.ParamName, strconv.Itoa(page))
		link.RawQuery = query.Encode()

		classes := append([]string{}, l.LinkClasses...)
		if page == l.Pagination.CurrentPage {
			classes = append(classes, l.SelectedLinkClasses...)
		}

		b.WriteString("<a")
		if len(classes) > 0 {
			fmt.Fprintf(&b, ` class="%s"`, template.HTMLEscapeString(strings.Join(classes, " ")))
		}
		fmt.Fprintf(&b, ` href="%s">%d</a>`, template.HTMLEscapeString(link.String()), page)
	}

	b.WriteString("</div>")
	return template.HTML(b.String())
}
