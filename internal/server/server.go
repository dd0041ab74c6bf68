package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/metrics-calculator/internal/indicator"
	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/internal/session"
	"github.com/iwvelando/metrics-calculator/pkg/constants"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// Options tunes the handler returned by NewHandler.
type Options struct {
	MaxBodySize    int64
	SessionTTL     time.Duration
	CurrencySymbol string
	Version        string
}

type handler struct {
	logger         *zap.Logger
	catalog        *indicator.Catalog
	store          *session.Store
	maxBodySize    int64
	currencySymbol string
	version        string
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// calculator API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}

	symbol := strings.TrimSpace(opts.CurrencySymbol)
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		catalog:        indicator.Default,
		store:          session.NewStore(opts.SessionTTL, session.WithLogger(logger)),
		maxBodySize:    opts.MaxBodySize,
		currencySymbol: symbol,
		version:        trimmedVersion,
	}

	router := httprouter.New()

	// Indicator catalog and calculation
	router.HandlerFunc(http.MethodGet, "/api/indicators", h.handleIndicators)
	router.HandlerFunc(http.MethodPost, "/api/calculate", h.handleCalculate)

	// Results registry of the caller's session
	router.HandlerFunc(http.MethodGet, "/api/results", h.handleListResults)
	router.HandlerFunc(http.MethodDelete, "/api/results", h.handleClearResults)
	router.HandlerFunc(http.MethodGet, "/api/results/:name", h.handleGetResult)
	router.HandlerFunc(http.MethodPut, "/api/results/:name", h.handlePutResult)
	router.HandlerFunc(http.MethodDelete, "/api/results/:name", h.handleDeleteResult)
	router.HandlerFunc(http.MethodGet, "/api/export", h.handleExport)
	router.HandlerFunc(http.MethodGet, "/api/chart", h.handleChart)

	// Version endpoint for UI metadata
	router.HandlerFunc(http.MethodGet, "/api/version", h.handleVersion)

	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	router.NotFound = http.FileServer(http.FS(sub))

	return requestLogger(logger, instrument(CompressionMiddleware(router)))
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) newSession(w http.ResponseWriter) string {
	id := h.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// withRegistry runs fn against the caller's registry. A request without a
// live session gets a new one, and exactly one session cookie.
func (h *handler) withRegistry(w http.ResponseWriter, r *http.Request, fn func(reg *registry.Registry) error) error {
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		if err := h.store.With(cookie.Value, fn); !errors.Is(err, session.ErrUnknownSession) {
			return err
		}
	}
	return h.store.With(h.newSession(w), fn)
}

// decodeJSON reads a size-limited JSON body into dst. It writes the error
// response itself and reports whether decoding succeeded.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.respondFieldError(w, status, msg, "", op)
}

func (h *handler) respondFieldError(w http.ResponseWriter, status int, msg string, field string, op string) {
	if h.logger != nil {
		level := h.logger.Warn
		if status >= http.StatusInternalServerError {
			level = h.logger.Error
		}
		level("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	payload := map[string]string{"error": msg}
	if field != "" {
		payload["field"] = field
	}
	h.writeJSON(w, status, payload)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
