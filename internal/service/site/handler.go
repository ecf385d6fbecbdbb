package site

import (
	"bytes"
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ollielynas/reanimator-site/internal/domain/release"
	"github.com/ollielynas/reanimator-site/internal/logger"
	"github.com/ollielynas/reanimator-site/internal/page"
)

// Resolver is the resolution step the page depends on.
type Resolver interface {
	ResolveDefault(ctx context.Context) (*release.Release, *release.Asset, error)
	DefaultRepository() release.Repository
}

// handler renders the download page.
type handler struct {
	// resolver fetches the release on every page load.
	resolver Resolver
}

// NewHandler returns the HTTP handler of the site.
func NewHandler(ctx context.Context, resolver Resolver) http.Handler {
	h := &handler{resolver: resolver}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.serveIndex)
	mux.HandleFunc("GET /healthz", serveHealth)

	return withRequestLogger(ctx, mux)
}

// serveIndex resolves the release, then redirects or renders the page.
func (h *handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	latest, selected, err := h.resolver.ResolveDefault(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Resolve latest release failed", "error", err)
		http.Error(w, "unable to load the latest release", http.StatusBadGateway)

		return
	}

	query := r.URL.Query()
	if target, ok := page.RedirectTarget(query, selected); ok {
		logger.InfoKV(ctx, "Redirecting to installer", "tag", latest.TagName, "url", target)
		http.Redirect(w, r, target, http.StatusFound)

		return
	}

	if query.Has(page.DownloadLatestParam) {
		logger.WarnKV(ctx, "Download requested but no installer found", "tag", latest.TagName)
	}

	var buf bytes.Buffer
	if err = page.Render(&buf, page.Apply(h.resolver.DefaultRepository(), latest, selected)); err != nil {
		logger.ErrorKV(ctx, "Render page failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// withRequestLogger attaches a logger carrying a request id to every request.
func withRequestLogger(ctx context.Context, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		reqCtx := logger.ToContext(r.Context(), logger.FromContext(ctx))
		reqCtx = logger.WithKV(reqCtx, "request_id", requestID, "path", r.URL.Path)
		logger.DebugKV(reqCtx, "Request received", "method", r.Method, "remote", r.RemoteAddr)

		next.ServeHTTP(w, r.WithContext(reqCtx))
	})
}
