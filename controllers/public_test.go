package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"imex-website/middleware"
	"imex-website/models"
	"imex-website/repository"
	"imex-website/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHomeIndex(t *testing.T) {
	t.Run("shows latest project", func(t *testing.T) {
		projects := new(MockProjectRepository)
		projects.On("Latest", mock.Anything).Return(&models.Project{ProjectID: 7, Title: "Hala"}, nil)
		log, _ := nullLogger()
		r, rec := newRouter(nil)
		r.GET("/", NewHomeController(projects, log).Index)

		res := get(t, r, "/")

		assert.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "home/index.html", rec.name)
		require.NotNil(t, rec.view.Model.(HomePage).LatestProject)
		assert.Equal(t, 7, rec.view.Model.(HomePage).LatestProject.ProjectID)
	})

	t.Run("no project yet", func(t *testing.T) {
		projects := new(MockProjectRepository)
		projects.On("Latest", mock.Anything).Return(nil, repository.ErrNotFound)
		log, hook := nullLogger()
		r, rec := newRouter(nil)
		r.GET("/", NewHomeController(projects, log).Index)

		res := get(t, r, "/")

		assert.Equal(t, http.StatusOK, res.Code)
		assert.Nil(t, rec.view.Model.(HomePage).LatestProject)
		assert.Empty(t, hook.AllEntries())
	})
}

func TestProjectsIndex(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("Page", mock.Anything, 2, 2).Return([]models.Project{{ProjectID: 2}, {ProjectID: 1}}, nil)
	projects.On("Count", mock.Anything).Return(int64(2), nil)
	log, _ := nullLogger()
	h := NewProjectsController(projects, 9, log)
	h.PageSize = 2
	r, rec := newRouter(nil)
	r.GET("/projects", h.Index)

	res := get(t, r, "/projects?page=2")

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "projects/index.html", rec.name)
	page := rec.view.Model.(ProjectsPage)
	assert.Len(t, page.Projects, 2)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)
	assert.Equal(t, 1, page.Pagination.TotalPages())
	assert.Equal(t, "/projects?page=2", rec.view.CurrentURL)
	projects.AssertExpectations(t)
}

func TestProjectsIndexFailure(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("Page", mock.Anything, 1, 9).Return(nil, errDB)
	log, hook := nullLogger()
	r, _ := newRouter(nil)
	r.GET("/projects", NewProjectsController(projects, 0, log).Index)

	res := get(t, r, "/projects")

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.True(t, strings.HasPrefix(location(res), "/client-info"))
	assert.Len(t, hook.AllEntries(), 1)
	projects.AssertNotCalled(t, "Count", mock.Anything)
}

func TestReadProject(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		setup    func(*MockProjectRepository)
		location string
		info     string
		view     string
	}{
		{
			name:     "id zero goes back to the list",
			path:     "/projects/0",
			location: "/projects",
		},
		{
			name: "missing project",
			path: "/projects/5",
			setup: func(m *MockProjectRepository) {
				m.On("WithPictures", mock.Anything, 5).Return(nil, repository.ErrNotFound)
			},
			location: utils.ClientInfoPath,
			info:     projectNotFoundMessage,
		},
		{
			name: "found",
			path: "/projects/5",
			setup: func(m *MockProjectRepository) {
				m.On("WithPictures", mock.Anything, 5).Return(&models.Project{ProjectID: 5, Title: "Depozit"}, nil)
			},
			view: "projects/read.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := new(MockProjectRepository)
			if tt.setup != nil {
				tt.setup(projects)
			}
			log, _ := nullLogger()
			r, rec := newRouter(nil)
			r.GET("/projects/:id", NewProjectsController(projects, 9, log).ReadProject)

			res := get(t, r, tt.path)

			if tt.view != "" {
				assert.Equal(t, http.StatusOK, res.Code)
				assert.Equal(t, tt.view, rec.name)
				return
			}
			assert.Equal(t, http.StatusSeeOther, res.Code)
			assert.Equal(t, tt.location, strings.SplitN(location(res), "?", 2)[0])
			assert.Equal(t, tt.info, infoOf(t, res))
			if tt.setup == nil {
				projects.AssertNotCalled(t, "WithPictures", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProjectPicture(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("Picture", mock.Anything, 3).Return(&models.Picture{PictureID: 3, ContentType: "image/png", ImageData: []byte("png")}, nil)
	projects.On("Picture", mock.Anything, 4).Return(nil, repository.ErrNotFound)
	log, _ := nullLogger()
	r, _ := newRouter(nil)
	r.GET("/projects/pictures/:id", NewProjectsController(projects, 9, log).Picture)

	res := get(t, r, "/projects/pictures/3")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "image/png", res.Header().Get("Content-Type"))
	assert.Equal(t, "png", res.Body.String())

	res = get(t, r, "/projects/pictures/4")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func policiesRouter(policies *MockPolicyRepository) (http.Handler, *recordingRenderer) {
	log, _ := nullLogger()
	h := NewPoliciesController(policies, log)
	r, rec := newRouter(&identity{userID: 1, role: models.RoleAdmin})
	r.GET("/policies/:id", h.ReadPolicy)
	r.GET("/administration/policies/:id/edit", h.EditPolicy)
	r.POST("/administration/policies/:id", h.UpdatePolicy)
	return r, rec
}

func TestReadPolicy(t *testing.T) {
	policies := new(MockPolicyRepository)
	policies.On("Get", mock.Anything, 2).Return(nil, repository.ErrNotFound)
	policies.On("Get", mock.Anything, 3).Return(&models.Policy{PolicyID: 3, Name: "Confidențialitate"}, nil)
	r, rec := policiesRouter(policies)

	res := get(t, r, "/policies/0")
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.True(t, strings.HasPrefix(location(res), "/client-info"))
	policies.AssertNotCalled(t, "Get", mock.Anything, 0)

	res = get(t, r, "/policies/2")
	assert.True(t, strings.HasPrefix(location(res), "/client-info"))

	res = get(t, r, "/policies/3")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "policies/read.html", rec.name)
	assert.Equal(t, "Confidențialitate", rec.view.Title)
}

func TestEditPolicy(t *testing.T) {
	policies := new(MockPolicyRepository)
	policies.On("Get", mock.Anything, 2).Return(nil, repository.ErrNotFound)
	policies.On("Get", mock.Anything, 3).Return(&models.Policy{PolicyID: 3, Name: "Cookies"}, nil)
	r, rec := policiesRouter(policies)

	res := get(t, r, "/administration/policies/-1/edit")
	assert.True(t, strings.HasPrefix(location(res), "/error-info"))
	policies.AssertNumberOfCalls(t, "Get", 0)

	res = get(t, r, "/administration/policies/2/edit")
	assert.True(t, strings.HasPrefix(location(res), "/error-info"))

	res = get(t, r, "/administration/policies/3/edit")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "policies/edit.html", rec.name)
}

func TestUpdatePolicy(t *testing.T) {
	t.Run("invalid form shows the stored policy", func(t *testing.T) {
		policies := new(MockPolicyRepository)
		stored := &models.Policy{PolicyID: 3, Name: "Cookies", Content: "text"}
		policies.On("Get", mock.Anything, 3).Return(stored, nil).Once()
		r, rec := policiesRouter(policies)

		res := postForm(t, r, "/administration/policies/3", url.Values{"policy_id": {"3"}, "name": {""}})

		assert.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "policies/edit.html", rec.name)
		assert.Same(t, stored, rec.view.Model)
		assert.True(t, rec.view.DisplayErrors)
		policies.AssertNumberOfCalls(t, "Get", 1)
		policies.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("saved", func(t *testing.T) {
		policies := new(MockPolicyRepository)
		policies.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Policy) bool {
			return p.PolicyID == 3 && p.Name == "Cookies" && p.Content == "nou"
		})).Return(nil)
		r, _ := policiesRouter(policies)

		res := postForm(t, r, "/administration/policies/3", url.Values{"policy_id": {"3"}, "name": {"Cookies"}, "content": {"nou"}})

		assert.Equal(t, http.StatusSeeOther, res.Code)
		assert.Equal(t, "/administration/policies/3/edit", location(res))
		policies.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		policies.AssertExpectations(t)
	})

	t.Run("update failure", func(t *testing.T) {
		policies := new(MockPolicyRepository)
		policies.On("Update", mock.Anything, mock.Anything).Return(errDB)
		r, _ := policiesRouter(policies)

		res := postForm(t, r, "/administration/policies/3", url.Values{"policy_id": {"3"}, "name": {"Cookies"}, "content": {"nou"}})

		assert.True(t, strings.HasPrefix(location(res), "/admin-info"))
	})
}

func TestCookieConsent(t *testing.T) {
	r, _ := newRouter(nil)
	r.POST("/api/cookies/consent", NewCookiesController(false).Consent)

	post := func(body string) *httptest.ResponseRecorder {
		return jsonPost(t, r, "/api/cookies/consent", body)
	}

	res := post(`{"consent":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, res.Header().Values("Set-Cookie"))

	res = post(`not json`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = post(`{"consent":"granted"}`)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Header().Get("Set-Cookie"), middleware.ConsentCookie+"=granted")
	assert.JSONEq(t, `{"success":true,"consent":"granted"}`, res.Body.String())

	res = post(`{"consent":"withdrawn"}`)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestInfoPages(t *testing.T) {
	r, rec := newRouter(nil)
	r.GET("/client-info", ClientInfo)
	r.GET("/admin-info", AdminInfo)
	r.GET("/error-info", ErrorInfo)

	get(t, r, utils.ClientInfoURL("Salut"))
	assert.Equal(t, "info/client.html", rec.name)
	assert.Equal(t, "Salut", rec.view.Model.(InfoMessage).Info)

	get(t, r, utils.AdminInfoURL("Gata"))
	assert.Equal(t, "info/admin.html", rec.name)
	assert.Equal(t, "Gata", rec.view.Model.(InfoMessage).Info)

	get(t, r, "/error-info")
	assert.Equal(t, "info/error.html", rec.name)
	assert.Equal(t, defaultErrorMessage, rec.view.Model.(InfoMessage).Info)
}

func TestInfoPagesIgnoreUnsignedText(t *testing.T) {
	r, rec := newRouter(nil)
	r.GET("/client-info", ClientInfo)
	r.GET("/error-info", ErrorInfo)

	get(t, r, "/client-info?info="+url.QueryEscape("Sunați la 0700 000 000 pentru ofertă"))
	assert.Equal(t, "info/client.html", rec.name)
	assert.Empty(t, rec.view.Model.(InfoMessage).Info)

	get(t, r, "/error-info?info=Contul+a+fost+blocat")
	assert.Equal(t, defaultErrorMessage, rec.view.Model.(InfoMessage).Info)
}
