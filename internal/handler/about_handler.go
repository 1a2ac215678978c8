package handler

import "net/http"

// AboutHandler serves the static about pages.
type AboutHandler struct {
	pages *Pages
}

func NewAboutHandler(pages *Pages) *AboutHandler {
	return &AboutHandler{pages: pages}
}

func (h *AboutHandler) Author(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "about_author.html", nil)
}

func (h *AboutHandler) Tech(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "about_tech.html", nil)
}
