package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MaxGubin/LiteRT/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Infer(ctx context.Context, req types.InferRequest) (types.InferResponse, error)
	Submit(req types.InferRequest) (string, error)
	Job(id string) (types.JobResponse, error)
	Unload(id string) error
	Ready() bool
}

type api struct {
	svc Service
}

// NewMux builds the daemon's router over svc.
func NewMux(svc Service) http.Handler {
	a := &api{svc: svc}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", a.handleModels)
	r.Delete("/models/{id}", a.handleUnload)
	r.Get("/status", a.handleStatus)
	r.Post("/infer", a.handleInfer)
	r.Post("/jobs", a.handleSubmitJob)
	r.Get("/jobs/{id}", a.handleGetJob)
	r.Get("/healthz", a.handleHealthz)
	r.Get("/readyz", a.handleReadyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// handleModels godoc
// @Summary List registered models
// @Produce json
// @Success 200 {object} types.ModelsResponse
// @Router /models [get]
func (a *api) handleModels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: a.svc.ListModels()}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// handleUnload godoc
// @Summary Drain and unload a compiled model
// @Param id path string true "model id"
// @Produce json
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /models/{id} [delete]
func (a *api) handleUnload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.svc.Unload(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStatus godoc
// @Summary Runtime and cache status
// @Produce json
// @Success 200 {object} types.StatusResponse
// @Router /status [get]
func (a *api) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.svc.Status()); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// handleInfer godoc
// @Summary Run one synchronous inference
// @Accept json
// @Produce json
// @Param request body types.InferRequest true "inference request"
// @Success 200 {object} types.InferResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 422 {object} types.ErrorResponse
// @Failure 429 {object} types.ErrorResponse
// @Failure 503 {object} types.ErrorResponse
// @Router /infer [post]
func (a *api) handleInfer(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeInferRequest(w, r)
	if !ok {
		return
	}

	lvl := requestLogLevel(r)
	start := time.Now()
	if lvl >= LevelInfo {
		z := zlog.Info().Str("path", r.URL.Path).Str("model", req.Model)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("infer start")
	}

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if sec := inferTimeout; sec > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, time.Duration(sec)*time.Second)
		defer tcancel()
	}

	resp, err := a.svc.Infer(ctx, req)
	if err != nil {
		// client disconnect or shutdown; nothing useful to write
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		status := writeServiceError(w, err)
		logInferEnd(r, lvl, status, start, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	logInferEnd(r, lvl, http.StatusOK, start, nil)
}

// handleSubmitJob godoc
// @Summary Submit an asynchronous inference job
// @Accept json
// @Produce json
// @Param request body types.InferRequest true "inference request"
// @Success 202 {object} types.JobResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /jobs [post]
func (a *api) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeInferRequest(w, r)
	if !ok {
		return
	}
	id, err := a.svc.Submit(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(types.JobResponse{ID: id, State: types.JobStateRunning})
}

// handleGetJob godoc
// @Summary Poll an asynchronous inference job
// @Param id path string true "job id"
// @Produce json
// @Success 200 {object} types.JobResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /jobs/{id} [get]
func (a *api) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jr, err := a.svc.Job(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(jr); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (a *api) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if a.svc.Ready() {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte("shutting down"))
}

// decodeInferRequest enforces content type, body size, and minimal shape.
func decodeInferRequest(w http.ResponseWriter, r *http.Request) (types.InferRequest, bool) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return types.InferRequest{}, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.InferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return types.InferRequest{}, false
	}
	if len(req.Inputs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "inputs are required")
		return types.InferRequest{}, false
	}
	for i, t := range req.Inputs {
		if len(t.Data) == 0 {
			writeJSONError(w, http.StatusBadRequest, "input "+itoa(i)+" has no data")
			return types.InferRequest{}, false
		}
	}
	return req, true
}

func logInferEnd(r *http.Request, lvl LogLevel, status int, start time.Time, err error) {
	if lvl < LevelInfo {
		return
	}
	z := zlog.Info().Int("status", status).Dur("dur", time.Since(start))
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("infer end")
}
