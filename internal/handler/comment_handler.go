package handler

import (
	"net/http"

	"blog/internal/middleware"
	"blog/internal/nlog"
	"blog/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
	pages          *Pages
	logger         nlog.Logger
}

func NewCommentHandler(commentService service.CommentService, pages *Pages, logger nlog.Logger) *CommentHandler {
	return &CommentHandler{commentService: commentService, pages: pages, logger: logger}
}

// Add always ends on the post page; an invalid comment is dropped without feedback.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "post_id")
	if !ok {
		h.pages.NotFound(w, r)
		return
	}

	if err := parseForm(w, r); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}

	form := service.CommentForm{Text: r.FormValue("text")}
	_, err := h.commentService.Add(r.Context(), middleware.ActorFrom(r.Context()), id, form)
	switch {
	case err == nil:
	case service.IsCode(err, service.ErrInvalidInput):
		h.logger.Debugf("Dropped invalid comment on post %d: %v", id, service.FieldErrors(err))
	default:
		h.pages.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, postURL(id), http.StatusFound)
}
