package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"blog/internal/cache"
	"blog/internal/pagination"
)

// CacheMiddleware serves whole pages from the cache. Only successful GET responses
// are stored. Entries are keyed per viewer, so the navigation bar of one user never
// reaches another, and per path and page number. Other query values do not change
// the page and do not get entries of their own.
func CacheMiddleware(pageCache *cache.PageCache, prefix string, ttl time.Duration, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || ttl <= 0 {
			next(w, r)
			return
		}

		key := CacheKey(prefix, r)
		if body, ok := pageCache.Get(key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("X-Page-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}

		rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if rec.status == http.StatusOK {
			pageCache.Set(key, rec.body.Bytes(), ttl)
		}
	}
}

func CacheKey(prefix string, r *http.Request) string {
	viewer := ActorFrom(r.Context()).ID
	page := pagination.ParsePageNumber(r.URL.Query().Get("page"))
	return fmt.Sprintf("%s|%d|%s?page=%d", prefix, viewer, r.URL.EscapedPath(), page)
}

// recordingWriter passes the response through while keeping a copy of the body.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}
