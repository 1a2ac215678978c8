package handler

import (
	"net/http"

	"blog/internal/middleware"
	"blog/internal/service"

	"github.com/gorilla/mux"
)

type FollowHandler struct {
	followService service.FollowService
	pages         *Pages
}

func NewFollowHandler(followService service.FollowService, pages *Pages) *FollowHandler {
	return &FollowHandler{followService: followService, pages: pages}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if _, err := h.followService.Follow(r.Context(), middleware.ActorFrom(r.Context()), username); err != nil {
		h.pages.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(username), http.StatusFound)
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if _, err := h.followService.Unfollow(r.Context(), middleware.ActorFrom(r.Context()), username); err != nil {
		h.pages.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(username), http.StatusFound)
}
