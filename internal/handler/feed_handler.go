package handler

import (
	"net/http"

	"blog/internal/middleware"
	"blog/internal/service"

	"github.com/gorilla/mux"
)

type FeedHandler struct {
	feedService service.FeedService
	pages       *Pages
}

func NewFeedHandler(feedService service.FeedService, pages *Pages) *FeedHandler {
	return &FeedHandler{feedService: feedService, pages: pages}
}

func (h *FeedHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.feedService.Index(r.Context(), pageNumber(r))
	if err != nil {
		h.pages.Fail(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "index.html", map[string]any{
		"Page":      page,
		"ShowGroup": true,
	})
}

func (h *FeedHandler) GroupPosts(w http.ResponseWriter, r *http.Request) {
	group, page, err := h.feedService.Group(r.Context(), mux.Vars(r)["slug"], pageNumber(r))
	if err != nil {
		h.pages.Fail(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "group_list.html", map[string]any{
		"Group":     group,
		"Page":      page,
		"ShowGroup": false,
	})
}

func (h *FeedHandler) Profile(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ActorFrom(r.Context())
	profile, err := h.feedService.Profile(r.Context(), viewer, mux.Vars(r)["username"], pageNumber(r))
	if err != nil {
		h.pages.Fail(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "profile.html", map[string]any{
		"Author":    profile.Author,
		"Page":      profile.Page,
		"Following": profile.Following,
		"IsSelf":    profile.IsSelf,
		"ShowGroup": true,
	})
}

func (h *FeedHandler) FollowIndex(w http.ResponseWriter, r *http.Request) {
	page, err := h.feedService.Following(r.Context(), middleware.ActorFrom(r.Context()), pageNumber(r))
	if err != nil {
		h.pages.Fail(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "follow.html", map[string]any{
		"Page":      page,
		"ShowGroup": true,
	})
}
