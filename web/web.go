// Package web embeds the site's page and email templates.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"time"

	"imex-website/utils"
)

//go:embed templates email static
var files embed.FS

// PageParam is the query parameter carrying the page number on list views.
const PageParam = "page"

// Funcs are the helpers available to every page template.
var Funcs = template.FuncMap{
	"pageLinks": pageLinks,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02.01.2006 15:04")
	},
}

// Templates parses every page template. Each file defines its template under
// its path relative to templates/, e.g. "careers/index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "templates/*/*.html")
}

// EmailFS holds the email layout, readable by services.FSTemplateReader.
func EmailFS() fs.FS { return sub("email") }

// StaticFS holds the stylesheet and the cookie banner script.
func StaticFS() fs.FS { return sub("static") }

func sub(dir string) fs.FS {
	out, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return out
}

func pageLinks(p utils.Pagination, baseURL string) template.HTML {
	return utils.PageLinks{
		Pagination:          &p,
		BaseURL:             baseURL,
		ParamName:           PageParam,
		ContainerID:         "pagination",
		ContainerClasses:    []string{"pagination"},
		LinkClasses:         []string{"page-link"},
		SelectedLinkClasses: []string{"active"},
	}.Render()
}
