// Package api provides the HTTP endpoints of the prediction server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/orbitarch/orbitarch-service-go/log"
	"github.com/orbitarch/orbitarch-service-go/pkg/predict"
	"github.com/orbitarch/orbitarch-service-go/version"
)

const (
	RequestIDHeader = "X-Request-Id"
	maxBodyBytes    = 1 << 20
)

type (
	Predictor interface {
		Predict(ctx context.Context, req predict.Request) (*predict.Response, error)
	}
	Handler struct {
		predictor Predictor
		l         *log.Logger
	}
	Option func(*Handler)

	errorResponse struct {
		Error string `json:"error"`
	}
)

func WithLogger(l *log.Logger) Option {
	return func(h *Handler) {
		h.l = l
	}
}

func NewHandler(p Predictor, opts ...Option) *Handler {
	ret := &Handler{
		predictor: p,
		l:         log.Default().Named("api"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Register adds the routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.predict)
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /version", h.version)
}

func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err == nil {
		var resp *predict.Response
		if resp, err = h.predictor.Predict(r.Context(), req); err == nil {
			h.writeJSON(w, http.StatusOK, resp)
			return
		}
	}
	var ve *predict.ValidationError
	if errors.As(err, &ve) {
		h.l.Debug("invalid request",
			log.String("requestId", predict.RequestID(r.Context())),
			log.ErrorField(err))
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error()})
		return
	}
	h.l.Error("prediction failed",
		log.String("requestId", predict.RequestID(r.Context())),
		log.ErrorField(err))
	h.writeJSON(w, http.StatusInternalServerError,
		errorResponse{Error: "internal server error"})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.l.Warn("could not write response", log.ErrorField(err))
	}
}

// RequestID takes the request id from the X-Request-Id header or creates a
// new one, stores it in the request context and echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(predict.WithRequestID(r.Context(), id)))
	})
}
