package handler

import (
	"net/http"

	"blog/internal/entity"
	"blog/internal/middleware"
	"blog/internal/service"

	"github.com/gorilla/sessions"
)

type AuthHandler struct {
	authService service.AuthService
	cookieStore sessions.Store
	pages       *Pages
}

func NewAuthHandler(authService service.AuthService, cookieStore sessions.Store, pages *Pages) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieStore: cookieStore,
		pages:       pages,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.pages.Render(w, r, http.StatusOK, "signup.html", map[string]any{"Form": service.SignupForm{}})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}

	form := service.SignupForm{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Username:  r.FormValue("username"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password1"),
		Password2: r.FormValue("password2"),
	}
	if _, err := h.authService.Register(r.Context(), form); err != nil {
		if fields := service.FieldErrors(err); fields != nil {
			form.Password, form.Password2 = "", ""
			h.pages.Render(w, r, http.StatusOK, "signup.html", map[string]any{"Form": form, "Errors": fields})
			return
		}
		h.pages.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, middleware.LoginURL, http.StatusSeeOther)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.pages.Render(w, r, http.StatusOK, "login.html", map[string]any{"Next": r.URL.Query().Get("next")})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}
	username := r.FormValue("username")
	next := r.FormValue("next")

	user, err := h.authService.Login(r.Context(), username, r.FormValue("password"))
	if err != nil {
		if service.IsCode(err, service.ErrUnauthorized) {
			h.pages.Render(w, r, http.StatusOK, "login.html", map[string]any{
				"Error":    err.Error(),
				"Username": username,
				"Next":     next,
			})
			return
		}
		h.pages.Fail(w, r, err)
		return
	}

	session, _ := h.cookieStore.Get(r, middleware.SessionName)
	session.Values["user_id"] = user.ID
	session.Values["username"] = user.Username
	if err := session.Save(r, w); err != nil {
		h.pages.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, middleware.SessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	// The page below must not greet the user that just left.
	r = r.WithContext(middleware.WithActor(r.Context(), entity.Anonymous))
	h.pages.Render(w, r, http.StatusOK, "logged_out.html", nil)
}
