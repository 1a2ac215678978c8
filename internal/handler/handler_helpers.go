package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"blog/internal/middleware"
	"blog/internal/nlog"
	"blog/internal/pagination"
	"blog/internal/service"
	"blog/internal/view"

	"github.com/gorilla/mux"
)

// Uploads bigger than this are rejected before they reach a service.
const maxUploadSize = 10 << 20

// Pages renders full pages and the error pages shared by every handler.
type Pages struct {
	renderer *view.PageRenderer
	logger   nlog.Logger
}

func NewPages(renderer *view.PageRenderer, logger nlog.Logger) *Pages {
	return &Pages{renderer: renderer, logger: logger}
}

func (p *Pages) Logf(format string, v ...any) {
	p.logger.Logf(format, v...)
}

// Render adds the current actor to data and writes the page with the given status.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["Actor"] = middleware.ActorFrom(r.Context())

	if err := p.renderer.Render(w, status, name, data); err != nil {
		p.Logf("Could not render {%s}: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, http.StatusNotFound, "404.html", map[string]any{"Path": r.URL.Path})
}

func (p *Pages) Forbidden(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, http.StatusForbidden, "403.html", nil)
}

func (p *Pages) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		p.Logf("Internal error on {%s %s}: %v", r.Method, r.URL.Path, err)
	}
	p.Render(w, r, http.StatusInternalServerError, "500.html", nil)
}

func (p *Pages) Unavailable(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, http.StatusServiceUnavailable, "503.html", nil)
}

// Fail answers a service error with the matching page.
func (p *Pages) Fail(w http.ResponseWriter, r *http.Request, err error) {
	switch service.GetErrorCode(err) {
	case service.ErrNotFound:
		p.NotFound(w, r)
	case service.ErrUnauthorized:
		http.Redirect(w, r, middleware.LoginRedirect(r.URL.RequestURI()), http.StatusSeeOther)
	case service.ErrForbidden:
		p.Forbidden(w, r)
	default:
		p.ServerError(w, r, err)
	}
}

func pageNumber(r *http.Request) int {
	return pagination.ParsePageNumber(r.URL.Query().Get("page"))
}

// pathID reads a numeric route variable. Routes only match digits, so a failure
// here means the number does not fit.
func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

// parseForm reads a urlencoded or multipart body, limiting its size.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxUploadSize)
	}
	return r.ParseForm()
}

// readPostForm builds a PostForm from a parsed request.
func readPostForm(r *http.Request) (service.PostForm, error) {
	form := service.PostForm{
		Text:       r.FormValue("text"),
		ClearImage: r.FormValue("image-clear") != "",
	}

	if raw := strings.TrimSpace(r.FormValue("group")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			// Unknown ids fail group validation in the service.
			id = 0
		}
		group := uint(id)
		form.GroupID = &group
	}

	upload, err := readUpload(r, "image")
	if err != nil {
		return form, err
	}
	form.Image = upload
	return form, nil
}

func readUpload(r *http.Request, field string) (*service.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 && header.Filename == "" {
		return nil, nil
	}
	return &service.Upload{Filename: header.Filename, Data: data}, nil
}

// safeNext only accepts local absolute paths, so "next" can never send a user off site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return next
}
