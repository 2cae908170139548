// Package columns exposes the column service over a JSON HTTP API.
package columns

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	cols "rnacolumns/internal/columns"
	"rnacolumns/internal/core"
	"rnacolumns/pkg/domain"
)

// Handler routes column and configuration requests to a core.Service.
type Handler struct {
	Service *core.Service
	Logger  *slog.Logger
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler

	router chi.Router
}

// Option customizes a Handler.
type Option func(*Handler)

// WithLogger sets the access logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.Logger = logger
		}
	}
}

// WithMetricsHandler mounts a metrics exposition handler at /metrics.
func WithMetricsHandler(m http.Handler) Option {
	return func(h *Handler) { h.Metrics = m }
}

// NewHandler constructs the API handler.
func NewHandler(svc *core.Service, opts ...Option) *Handler {
	h := &Handler{
		Service: svc,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.router = h.routes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(h.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/strategies", h.handleStrategies)
		r.Get("/samples", h.handleSamples)
		r.Route("/workspaces/{ws}", func(r chi.Router) {
			r.Get("/columns", h.handleColumns)
			r.Post("/columns", h.handleColumns)
			r.Get("/configurations", h.handleListConfigurations)
			r.Post("/configurations/{name}/copy", h.handleCopyConfiguration)
			r.Post("/configurations/{name}/rename", h.handleRenameConfiguration)
			r.Delete("/configurations/{name}", h.handleDeleteConfiguration)
		})
	})
	return r
}

func (h *Handler) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	strategies := h.Service.Strategies()
	out := make([]strategyDTO, len(strategies))
	for i, s := range strategies {
		out[i] = strategyDTO{Name: s.String(), Description: s.Description()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"strategies": out})
}

func (h *Handler) handleSamples(w http.ResponseWriter, r *http.Request) {
	raw, err := parseBool(r.URL.Query().Get("raw"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid raw flag")
		return
	}
	samples, err := h.Service.Samples(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]sampleDTO, len(samples))
	for i, s := range samples {
		out[i] = newSampleDTO(s)
	}
	writeJSON(w, http.StatusOK, map[string]any{"samples": out})
}

// columnsRequest is the POST body of the columns endpoint. GET requests carry
// the same fields as query parameters.
type columnsRequest struct {
	Configuration string   `json:"configuration"`
	Primary       []string `json:"primary"`
	Secondary     string   `json:"secondary"`
	Strategy      string   `json:"strategy"`
	Delete        *int     `json:"delete"`
	Sort          *int     `json:"sort"`
	Reset         bool     `json:"reset"`
	Raw           bool     `json:"raw"`
	Qualifier     string   `json:"qualifier"`
	Filter        string   `json:"filter"`
	Range         string   `json:"range"`
	Order         string   `json:"order"`
}

func (h *Handler) handleColumns(w http.ResponseWriter, r *http.Request) {
	var body columnsRequest
	var err error
	if r.Method == http.MethodPost {
		err = decodeBody(r, &body)
	} else {
		body, err = columnsRequestFromQuery(r.URL.Query())
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := body.toRequest(chi.URLParam(r, "ws"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.Service.Apply(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newColumnsResponse(out))
}

func (b columnsRequest) toRequest(workspace string) (core.Request, error) {
	req := core.NewRequest(workspace)
	req.Configuration = b.Configuration
	req.Primary = b.Primary
	req.Secondary = b.Secondary
	req.Reset = b.Reset
	req.Raw = b.Raw
	if b.Delete != nil {
		req.DeleteIndex = *b.Delete
	}
	if b.Sort != nil {
		req.SortIndex = *b.Sort
	}
	strategy, err := cols.ParseStrategy(b.Strategy)
	if err != nil {
		return core.Request{}, &domain.ConfigError{Op: "strategy", Message: "unknown column strategy " + strconv.Quote(b.Strategy), Err: err}
	}
	req.Strategy = strategy
	if req.Qualifier, err = cols.ParseQualifier(b.Qualifier); err != nil {
		return core.Request{}, err
	}
	if req.Filter, err = cols.ParseRowFilter(b.Filter); err != nil {
		return core.Request{}, err
	}
	if req.Limits, err = cols.ParseRangeLimits(b.Range); err != nil {
		return core.Request{}, err
	}
	if req.Order, err = cols.ParseFeatureOrder(b.Order); err != nil {
		return core.Request{}, err
	}
	return req, nil
}

func columnsRequestFromQuery(q url.Values) (columnsRequest, error) {
	body := columnsRequest{
		Configuration: q.Get("configuration"),
		Primary:       q["primary"],
		Secondary:     q.Get("secondary"),
		Strategy:      q.Get("strategy"),
		Qualifier:     q.Get("qualifier"),
		Filter:        q.Get("filter"),
		Range:         q.Get("range"),
		Order:         q.Get("order"),
	}
	var err error
	if body.Delete, err = optionalInt(q, "delete"); err != nil {
		return columnsRequest{}, err
	}
	if body.Sort, err = optionalInt(q, "sort"); err != nil {
		return columnsRequest{}, err
	}
	if body.Reset, err = parseBool(q.Get("reset")); err != nil {
		return columnsRequest{}, errors.New("invalid reset flag")
	}
	if body.Raw, err = parseBool(q.Get("raw")); err != nil {
		return columnsRequest{}, errors.New("invalid raw flag")
	}
	return body, nil
}

func (h *Handler) handleListConfigurations(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Configurations(r.Context(), chi.URLParam(r, "ws"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"configurations": list})
}

type copyRequest struct {
	Target string `json:"target"`
}

func (h *Handler) handleCopyConfiguration(w http.ResponseWriter, r *http.Request) {
	var body copyRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.Service.SaveAs(r.Context(), chi.URLParam(r, "ws"), chi.URLParam(r, "name"), body.Target)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"columns": n})
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleRenameConfiguration(w http.ResponseWriter, r *http.Request) {
	var body renameRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, err := h.Service.RenameConfiguration(r.Context(), chi.URLParam(r, "ws"), chi.URLParam(r, "name"), body.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name})
}

func (h *Handler) handleDeleteConfiguration(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.DeleteConfigurations(r.Context(), chi.URLParam(r, "ws"), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "configuration not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps user errors to 400 and everything else to 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsUserError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.Logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method, "path", r.URL.Path, "error", err, "request_id", core.RequestIDFrom(r.Context()))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errors.New("invalid request payload")
	}
	return nil
}

func optionalInt(q url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("invalid " + key + " index")
	}
	return &n, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
