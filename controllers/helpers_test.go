package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"imex-website/middleware"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	ginrender "github.com/gin-gonic/gin/render"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errDB = errors.New("database is down")

const testLayout = `<html><title>{{.Subject}}</title><body>{{.Body}}</body></html>`

// recordingRenderer remembers the last template executed instead of rendering it.
type recordingRenderer struct {
	name string
	view *View
}

func (r *recordingRenderer) Instance(name string, data any) ginrender.Render {
	r.name = name
	r.view, _ = data.(*View)
	return ginrender.Data{ContentType: "text/html; charset=utf-8", Data: []byte(name)}
}

type identity struct {
	userID int
	role   string
}

// newRouter builds a test engine; a non-nil id acts as a signed-in user.
func newRouter(id *identity) (*gin.Engine, *recordingRenderer) {
	rec := &recordingRenderer{}
	r := gin.New()
	r.HTMLRender = rec
	if id != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, id.userID)
			c.Set(middleware.ContextUserName, "admin")
			c.Set(middleware.ContextRole, id.role)
			c.Next()
		})
	}
	return r, rec
}

func nullLogger() (logrus.FieldLogger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logger, hook
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, r http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonPost(t *testing.T, r http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type upload struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func postMultipart(t *testing.T, r http.Handler, target string, form url.Values, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, values := range form {
		for _, v := range values {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func pdfUpload() upload {
	return upload{field: "cv", name: "cv.pdf", contentType: "application/pdf", data: []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")}
}

func pngUpload(field string, i int) upload {
	data := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	return upload{field: field, name: fmt.Sprintf("img%d.png", i), contentType: "image/png", data: data}
}

func pngUploads(field string, n int) []upload {
	out := make([]upload, n)
	for i := range out {
		out[i] = pngUpload(field, i)
	}
	return out
}

func location(rec *httptest.ResponseRecorder) string {
	return rec.Header().Get("Location")
}

// infoOf extracts the info message of a redirect to an info page.
func infoOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	u, err := url.Parse(location(rec))
	require.NoError(t, err)
	return utils.InfoMessage(u.Query().Get("info"))
}
