package input

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"blog/internal"
	"blog/internal/cache"
	"blog/internal/handler"
	"blog/internal/middleware"
	"blog/internal/nlog"
	"blog/internal/service"
	"blog/internal/storage"
	"blog/internal/view"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Prefix of the cache entries holding the global feed.
const indexCachePrefix = "index_page"

type IptConfig struct {
	ServerPort        uint16
	ReadTimeout       int64
	WriteTimeout      int64
	TemplateDirectory string
	StaticDirectory   string
	SecretKey         string
	IndexCacheTTL     time.Duration
}

// Services are the application services the HTTP handlers call into.
type Services struct {
	Auth    service.AuthService
	Group   service.GroupService
	Post    service.PostService
	Feed    service.FeedService
	Comment service.CommentService
	Follow  service.FollowService
}

func (s Services) complete() bool {
	return s.Auth != nil && s.Group != nil && s.Post != nil && s.Feed != nil && s.Comment != nil && s.Follow != nil
}

type InputManager struct { // Manages the HTTP side of the site
	running atomic.Bool
	paused  atomic.Bool

	logger    nlog.Logger
	accessLog *zap.Logger
	server    *http.Server

	stopFromOutsideChan chan struct{}
	doneFromInsideChan  chan struct{}

	services  Services
	pageCache *cache.PageCache
	media     storage.MediaStorage
	pages     *handler.Pages
}

func NewInputManager() *InputManager {
	return &InputManager{
		running:             atomic.Bool{},
		paused:              atomic.Bool{},
		accessLog:           zap.NewNop(),
		stopFromOutsideChan: make(chan struct{}),
		doneFromInsideChan:  make(chan struct{}),
	}
}

func (i *InputManager) IsReady() bool {
	return i.logger != nil && i.services.complete() && i.pageCache != nil && i.media != nil
}

func (i *InputManager) IsRunning() bool {
	return i.running.Load()
}

func (i *InputManager) SetLogger(l nlog.Logger) {
	i.logger = l
}

// SetAccessLogger sets the structured logger used for request and panic logs.
func (i *InputManager) SetAccessLogger(l *zap.Logger) {
	i.accessLog = l
}

func (i *InputManager) SetServices(s Services) {
	i.services = s
}

func (i *InputManager) SetPageCache(c *cache.PageCache) {
	i.pageCache = c
}

func (i *InputManager) SetMediaStorage(m storage.MediaStorage) {
	i.media = m
}

func (i *InputManager) Logf(format string, a ...any) {
	i.logger.Logf(format, a...)
}

func (i *InputManager) SetPause(paused bool) {
	i.paused.Store(paused)
}

func (i *InputManager) IsPaused() bool {
	return i.paused.Load()
}

// PauseMiddleware answers 503 to everything while the site is in maintenance.
func (i *InputManager) PauseMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.IsPaused() {
			w.Header().Set("Retry-After", "60")
			if i.pages != nil {
				i.pages.Unavailable(w, r)
				return
			}
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Router builds the complete HTTP handler of the site.
func (i *InputManager) Router(cfg *IptConfig) (http.Handler, error) {
	if !i.IsReady() {
		return nil, fmt.Errorf("The Input manager is not ready... Missing components")
	}

	cookieStore := sessions.NewCookieStore([]byte(cfg.SecretKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(7 * 24 * time.Hour.Seconds()),
	}

	// Load templates and page renderer
	templates, err := internal.RetrieveWebTemplates(cfg.TemplateDirectory)
	if err != nil {
		return nil, err
	}
	renderer, err := view.NewPageRenderer(templates, i.media.URL)
	if err != nil {
		return nil, err
	}
	i.pages = handler.NewPages(renderer, i.logger)

	// Handlers
	authHandler := handler.NewAuthHandler(i.services.Auth, cookieStore, i.pages)
	feedHandler := handler.NewFeedHandler(i.services.Feed, i.pages)
	postHandler := handler.NewPostHandler(i.services.Post, i.services.Group, i.pages)
	commentHandler := handler.NewCommentHandler(i.services.Comment, i.pages, i.logger)
	followHandler := handler.NewFollowHandler(i.services.Follow, i.pages)
	aboutHandler := handler.NewAboutHandler(i.pages)

	login := middleware.AuthMiddleware

	// Router
	r := mux.NewRouter()
	r.StrictSlash(true)
	r.NotFoundHandler = http.HandlerFunc(i.pages.NotFound)

	// Feeds
	r.HandleFunc("/", middleware.CacheMiddleware(i.pageCache, indexCachePrefix, cfg.IndexCacheTTL, feedHandler.Index)).Methods("GET")
	r.HandleFunc("/group/{slug}/", feedHandler.GroupPosts).Methods("GET")
	r.HandleFunc("/profile/{username}/", feedHandler.Profile).Methods("GET")
	r.HandleFunc("/follow/", login(feedHandler.FollowIndex)).Methods("GET")

	// Posts
	r.HandleFunc("/create/", login(postHandler.Create)).Methods("GET", "POST")
	r.HandleFunc("/posts/{post_id:[0-9]+}/", postHandler.Detail).Methods("GET")
	r.HandleFunc("/posts/{post_id:[0-9]+}/edit/", login(postHandler.Edit)).Methods("GET", "POST")
	r.HandleFunc("/posts/{post_id:[0-9]+}/delete/", login(postHandler.Delete)).Methods("POST")
	r.HandleFunc("/posts/{post_id:[0-9]+}/comment/", login(commentHandler.Add)).Methods("POST")

	// Follows
	r.HandleFunc("/profile/{username}/follow/", login(followHandler.Follow)).Methods("GET", "POST")
	r.HandleFunc("/profile/{username}/unfollow/", login(followHandler.Unfollow)).Methods("GET", "POST")

	// Authentication routes
	r.HandleFunc("/auth/signup/", authHandler.Signup).Methods("GET", "POST")
	r.HandleFunc("/auth/login/", authHandler.Login).Methods("GET", "POST")
	r.HandleFunc("/auth/logout/", authHandler.Logout).Methods("GET", "POST")

	// Static pages and files
	r.HandleFunc("/about/author/", aboutHandler.Author).Methods("GET")
	r.HandleFunc("/about/tech/", aboutHandler.Tech).Methods("GET")
	if cfg.StaticDirectory != "" {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))
	}
	if local, ok := i.media.(*storage.LocalStorage); ok {
		r.PathPrefix(storage.LocalURLPrefix).Handler(local.Handler())
	}

	var h http.Handler = r
	h = middleware.SessionMiddleware(cookieStore)(h)
	h = i.PauseMiddleware(h)
	h = middleware.LoggingMiddleware(i.accessLog)(h)
	h = middleware.RecoveryMiddleware(i.accessLog, func(w http.ResponseWriter, r *http.Request) {
		i.pages.ServerError(w, r, nil)
	})(h)
	return h, nil
}

func (i *InputManager) Run(ctx context.Context, cfg *IptConfig) error {
	i.Logf("Input service started...")

	router, err := i.Router(cfg)
	if err != nil {
		return err
	}

	i.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:        router,
		ReadTimeout:    time.Duration(cfg.ReadTimeout * int64(time.Second)),
		WriteTimeout:   time.Duration(cfg.WriteTimeout * int64(time.Second)),
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		select {
		case <-ctx.Done():
			i.Logf("Received stop signal. Shutting down...")
		case <-i.stopFromOutsideChan:
			i.Logf("Server was asked to stop. Shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := i.server.Shutdown(shutdownCtx); err != nil {
			i.Logf("Error during shutdown... %v", err)
		}
		close(i.doneFromInsideChan)
	}()

	i.Logf("Http server starting on port {%d}", cfg.ServerPort)
	i.running.Store(true)
	defer i.running.Store(false)

	if err := i.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		i.Logf("FATAL: HTTP Server error{%v}", err)
		return err
	}
	<-i.doneFromInsideChan
	return nil
}

// Stop asks a running server to shut down and waits until it has.
func (i *InputManager) Stop() {
	close(i.stopFromOutsideChan)
	<-i.doneFromInsideChan
	i.running.Store(false)
}
