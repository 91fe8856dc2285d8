// Package server exposes the answer orchestrator and the tag catalog over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/expert-answers/internal/answer"
	"github.com/sells-group/expert-answers/internal/catalog"
	"github.com/sells-group/expert-answers/internal/model"
	"github.com/sells-group/expert-answers/internal/timestamp"
)

// Version is reported by the root endpoint.
const Version = "0.1.0"

const defaultAnswerCount = 5

// Answerer is the orchestrator surface the API serves.
type Answerer interface {
	Answer(ctx context.Context, req answer.Request) (*model.Response, error)
	SearchExperts(ctx context.Context, q answer.ExpertQuery) ([]model.ExpertAnswer, error)
}

// TagSource lists tagged catalog questions.
type TagSource interface {
	Tags(ctx context.Context) ([]model.TagCount, error)
	QuestionsByTag(ctx context.Context, tag string) ([]model.TaggedQuestion, error)
}

// Options configures the router.
type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
}

type handler struct {
	answers Answerer
	tags    TagSource
}

// NewRouter builds the API routes.
func NewRouter(answers Answerer, tags TagSource, opts Options) chi.Router {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &handler{answers: answers, tags: tags}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Expert Answers API",
			"version": Version,
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/answers/v1", h.answer)
		r.Get("/answers", h.searchExperts)
		r.Get("/tags", h.listTags)
		r.Get("/tags/{tag}/questions", h.questionsByTag)
	})

	return r
}

func (h *handler) answer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	count, err := intParam(q.Get("count"), defaultAnswerCount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "count must be an integer")
		return
	}
	includeRelated := false
	if v := q.Get("include_related"); v != "" {
		includeRelated, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "include_related must be a boolean")
			return
		}
	}

	resp, err := h.answers.Answer(r.Context(), answer.Request{
		Question:       q.Get("question"),
		Count:          count,
		IncludeRelated: includeRelated,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) searchExperts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	count, err := intParam(q.Get("count"), answer.DefaultExpertCount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "count must be an integer")
		return
	}

	results, err := h.answers.SearchExperts(r.Context(), answer.ExpertQuery{
		Topic:     q.Get("topic"),
		Author:    q.Get("author"),
		DateRange: q.Get("dateRange"),
		Count:     count,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if results == nil {
		results = []model.ExpertAnswer{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *handler) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.Tags(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *handler) questionsByTag(w http.ResponseWriter, r *http.Request) {
	questions, err := h.tags.QuestionsByTag(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// fail maps err to a status code. Validation errors are the caller's fault;
// a missing tagged catalog is reported as 404 on the tag routes.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case eris.Is(err, answer.ErrInvalidInput), eris.Is(err, timestamp.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case eris.Is(err, catalog.ErrNotFound) && strings.HasPrefix(r.URL.Path, "/api/tags"):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		zap.L().Error("server: request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func intParam(raw string, def int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
