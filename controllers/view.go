package controllers

import (
	"net/http"
	"sort"

	"imex-website/middleware"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
)

// View is the data every page template is executed with.
type View struct {
	Title      string
	Model      interface{}
	CurrentURL string
	Errors     utils.FormErrors
	// DisplayErrors asks the template to show the validation summary.
	DisplayErrors bool
	Flash         string

	Authenticated bool
	UserName      string
	Role          string
	CookieConsent bool
	AdminInfo     *AdminInfoWidget
	ControlPanel  *ControlPanelWidget
}

func newView(c *gin.Context, title string, model interface{}) *View {
	v := &View{
		Title:         title,
		Model:         model,
		CurrentURL:    c.Request.URL.RequestURI(),
		Errors:        utils.FormErrors{},
		Authenticated: middleware.IsAuthenticated(c),
		UserName:      c.GetString(middleware.ContextUserName),
		Role:          c.GetString(middleware.ContextRole),
		CookieConsent: c.GetBool("cookieConsent"),
	}
	if w, ok := c.Get(adminInfoKey); ok {
		v.AdminInfo, _ = w.(*AdminInfoWidget)
	}
	if w, ok := c.Get(controlPanelKey); ok {
		v.ControlPanel, _ = w.(*ControlPanelWidget)
	}
	return v
}

func (v *View) withErrors(errs utils.FormErrors) *View {
	v.Errors = errs
	v.DisplayErrors = !errs.Valid()
	return v
}

func render(c *gin.Context, name string, v *View) {
	c.HTML(http.StatusOK, name, v)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// Panel is the model of the paginated administration lists.
type Panel[T any] struct {
	Items          []T
	Pagination     utils.Pagination
	Total          int64
	Unread         int64
	SearchRequest  bool
	SearchCriteria string
}

// newestFirst sorts items by descending id and returns the requested page.
func newestFirst[T any](items []T, id func(T) int, page, size int) ([]T, utils.Pagination) {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return id(sorted[i]) > id(sorted[j]) })

	pagination := utils.NewPagination(page, size, int64(len(sorted)))
	return utils.PageSlice(sorted, pagination.CurrentPage, size), pagination
}
