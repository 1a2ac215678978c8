package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog/internal/cache"
	"blog/internal/entity"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func echoActor(w http.ResponseWriter, r *http.Request) {
	actor := ActorFrom(r.Context())
	fmt.Fprintf(w, "%d:%s", actor.ID, actor.Username)
}

func TestSessionMiddlewareLoadsActor(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))
	handler := SessionMiddleware(store)(http.HandlerFunc(echoActor))

	login := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	session, err := store.Get(req, SessionName)
	require.NoError(t, err)
	session.Values["user_id"] = uint(3)
	session.Values["username"] = "leo"
	require.NoError(t, session.Save(req, login))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "3:leo", rec.Body.String())
}

func TestSessionMiddlewareAnonymous(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))
	handler := SessionMiddleware(store)(http.HandlerFunc(echoActor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionName, Value: "forged"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0:", rec.Body.String())
}

func TestAuthMiddlewareRedirectsAnonymous(t *testing.T) {
	called := false
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/posts/4/comment/?x=1", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login/?next=%2Fposts%2F4%2Fcomment%2F%3Fx%3D1", rec.Header().Get("Location"))
}

func TestAuthMiddlewareLetsActorThrough(t *testing.T) {
	handler := AuthMiddleware(echoActor)

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req = req.WithContext(WithActor(req.Context(), entity.Actor{ID: 1, Username: "leo"}))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1:leo", rec.Body.String())
}

func TestCacheMiddleware(t *testing.T) {
	pageCache := cache.NewPageCache()
	counter := 0
	handler := CacheMiddleware(pageCache, "index", 20*time.Second, func(w http.ResponseWriter, r *http.Request) {
		counter++
		fmt.Fprintf(w, "render %d", counter)
	})

	get := func(target string, actor entity.Actor) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req = req.WithContext(WithActor(req.Context(), actor))
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec.Body.String()
	}

	assert.Equal(t, "render 1", get("/", entity.Anonymous))
	assert.Equal(t, "render 1", get("/", entity.Anonymous))
	assert.Equal(t, "render 2", get("/?page=2", entity.Anonymous))
	assert.Equal(t, "render 3", get("/", entity.Actor{ID: 9, Username: "leo"}))
	assert.Equal(t, 3, pageCache.Len())

	assert.Equal(t, "render 1", get("/?page=1", entity.Anonymous))
	assert.Equal(t, "render 1", get("/?utm=x", entity.Anonymous))
	assert.Equal(t, "render 2", get("/?page=02&junk=1", entity.Anonymous))
	assert.Equal(t, 3, pageCache.Len())

	pageCache.Clear()
	assert.Equal(t, "render 4", get("/", entity.Anonymous))
}

func TestCacheKeyIgnoresUnrelatedQuery(t *testing.T) {
	key := func(target string) string {
		return CacheKey("index", httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, "index|0|/?page=1", key("/"))
	assert.Equal(t, key("/"), key("/?junk=123"))
	assert.Equal(t, key("/?page=abc"), key("/?page=-4"))
	assert.NotEqual(t, key("/?page=2"), key("/?page=3"))
}

func TestJunkQueriesStayBounded(t *testing.T) {
	pageCache := cache.NewBoundedPageCache(50)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	pageCache.SetClock(func() time.Time { return now })

	handler := CacheMiddleware(pageCache, "index", 20*time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 4096))
	})
	get := func(target string) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	for n := range 5000 {
		get(fmt.Sprintf("/?junk=%d", n))
		get(fmt.Sprintf("/?page=%d", n+1))
	}
	assert.LessOrEqual(t, pageCache.Size(), 50)

	now = now.Add(time.Hour)
	get("/")
	assert.Equal(t, 1, pageCache.Size())
}

func TestCacheMiddlewareSkipsErrors(t *testing.T) {
	pageCache := cache.NewPageCache()
	handler := CacheMiddleware(pageCache, "index", time.Minute, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, pageCache.Len())

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Zero(t, pageCache.Len())
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := LoggingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about/tech/", nil))

	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/about/tech/", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := RecoveryMiddleware(zap.New(core), func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "custom 500", http.StatusInternalServerError)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "custom 500")
	assert.Equal(t, 1, logs.Len())
}
