package handler

import (
	"net/http"

	"blog/internal/entity"
	"blog/internal/middleware"
	"blog/internal/service"
)

type PostHandler struct {
	postService  service.PostService
	groupService service.GroupService
	pages        *Pages
}

func NewPostHandler(postService service.PostService, groupService service.GroupService, pages *Pages) *PostHandler {
	return &PostHandler{postService: postService, groupService: groupService, pages: pages}
}

func (h *PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "post_id")
	if !ok {
		h.pages.NotFound(w, r)
		return
	}

	detail, err := h.postService.Detail(r.Context(), id)
	if err != nil {
		h.pages.Fail(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "post_detail.html", map[string]any{
		"Post":            detail.Post,
		"Comments":        detail.Comments,
		"AuthorPostCount": detail.AuthorPostCount,
	})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())

	if r.Method == http.MethodGet {
		h.renderForm(w, r, nil, service.PostForm{}, nil)
		return
	}

	if err := parseForm(w, r); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}
	form, err := readPostForm(r)
	if err != nil {
		http.Error(w, "Error occurred while reading the upload", http.StatusBadRequest)
		return
	}

	if _, err := h.postService.Create(r.Context(), actor, form); err != nil {
		if fields := service.FieldErrors(err); fields != nil {
			h.renderForm(w, r, nil, form, fields)
			return
		}
		h.pages.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(actor.Username), http.StatusFound)
}

func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	id, ok := pathID(r, "post_id")
	if !ok {
		h.pages.NotFound(w, r)
		return
	}

	if r.Method == http.MethodGet {
		post, err := h.postService.Get(r.Context(), id)
		if err != nil {
			h.pages.Fail(w, r, err)
			return
		}
		if !actor.Is(post.Author) {
			http.Redirect(w, r, postURL(id), http.StatusFound)
			return
		}
		h.renderForm(w, r, post, service.PostForm{Text: post.Text, GroupID: post.GroupID}, nil)
		return
	}

	if err := parseForm(w, r); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}
	form, err := readPostForm(r)
	if err != nil {
		http.Error(w, "Error occurred while reading the upload", http.StatusBadRequest)
		return
	}

	post, err := h.postService.Edit(r.Context(), actor, id, form)
	switch {
	case err == nil:
		http.Redirect(w, r, postURL(id), http.StatusFound)
	case service.IsCode(err, service.ErrForbidden):
		http.Redirect(w, r, postURL(id), http.StatusFound)
	case service.IsCode(err, service.ErrInvalidInput):
		h.renderForm(w, r, post, form, service.FieldErrors(err))
	default:
		h.pages.Fail(w, r, err)
	}
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	id, ok := pathID(r, "post_id")
	if !ok {
		h.pages.NotFound(w, r)
		return
	}

	_, err := h.postService.Delete(r.Context(), actor, id)
	switch {
	case err == nil:
		http.Redirect(w, r, profileURL(actor.Username), http.StatusFound)
	case service.IsCode(err, service.ErrForbidden):
		http.Redirect(w, r, postURL(id), http.StatusFound)
	default:
		h.pages.Fail(w, r, err)
	}
}

// renderForm shows create_post.html. A non nil post means the form edits it.
func (h *PostHandler) renderForm(w http.ResponseWriter, r *http.Request, post *entity.Post, form service.PostForm, errs map[string]string) {
	groups, err := h.groupService.List(r.Context())
	if err != nil {
		h.pages.Fail(w, r, err)
		return
	}

	var selected uint
	if form.GroupID != nil {
		selected = *form.GroupID
	}
	h.pages.Render(w, r, http.StatusOK, "create_post.html", map[string]any{
		"Post":          post,
		"IsEdit":        post != nil,
		"Text":          form.Text,
		"SelectedGroup": selected,
		"Groups":        groups,
		"Errors":        errs,
	})
}
