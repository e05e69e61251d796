package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/stats"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// api serves one immutable snapshot.
type api struct {
	env *exploreEnv
}

func buildRouter(env *exploreEnv) http.Handler {
	h := &api{env: env}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	if secs := cfg.Server.RequestTimeoutSecs; secs > 0 {
		r.Use(chimiddleware.Timeout(time.Duration(secs) * time.Second))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboards", h.leaderboards)
		r.Post("/compare/{mode}", h.compare)
		r.Get("/compare/{mode}/suggestions", h.suggestions)

		// Static table routes take precedence over the profile slugs.
		for _, kind := range model.Kinds {
			r.Route("/"+string(kind), func(r chi.Router) {
				r.Get("/columns", h.columns(kind))
				r.Get("/columns/{id}/values", h.values(kind))
				r.Post("/query", h.query(kind))

				switch kind {
				case model.KindPlayers:
					r.Get("/{slug}", h.playerProfile)
					r.Get("/{slug}/impact", h.impact)
				case model.KindTeams:
					r.Get("/{slug}", h.teamProfile)
				}
			})
		}
	})

	return r
}

func (h *api) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"source":    h.env.Data.Source,
		"loaded_at": h.env.Data.LoadedAt,
		"teams":     h.env.Data.Teams.Len(),
		"players":   h.env.Data.Players.Len(),
		"transfers": h.env.Data.Transfers.Len(),
	})
}

func (h *api) columns(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"kind":    kind,
			"columns": h.env.Columns[kind],
		})
	}
}

func (h *api) values(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		vals, err := columnValues(h.env, kind, id)
		if err != nil {
			respondError(w, http.StatusNotFound, "unknown column", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"column": id,
			"values": vals,
		})
	}
}

func (h *api) query(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q tableQuery
		if !decodeBody(w, r, &q) {
			return
		}
		res, err := runQuery(h.env, kind, q)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid query", err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

// leaderboards accepts season, top, and optionally kind+stat for a single
// board.
func (h *api) leaderboards(w http.ResponseWriter, r *http.Request) {
	q := leadersQuery{
		Season: r.URL.Query().Get("season"),
		Stat:   r.URL.Query().Get("stat"),
		Top:    parseIntParam(r, "top", 0),
	}
	if q.Stat != "" {
		kind, err := statKind(orDefault(r.URL.Query().Get("kind"), string(model.KindPlayers)))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid kind", err)
			return
		}
		q.Kind = kind
	}
	boards, err := runLeaders(h.env, q)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid leaderboard", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"boards":  boards,
		"seasons": h.seasons(),
	})
}

func (h *api) compare(w http.ResponseWriter, r *http.Request) {
	kind, err := statKind(chi.URLParam(r, "mode"))
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown compare mode", err)
		return
	}
	var q compareQuery
	if !decodeBody(w, r, &q) {
		return
	}
	cmp, err := runCompare(h.env, kind, q)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comparison", err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}

func (h *api) suggestions(w http.ResponseWriter, r *http.Request) {
	kind, err := statKind(chi.URLParam(r, "mode"))
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown compare mode", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"suggestions": stats.Suggestions(kind, h.env.Data.Of(kind).Records, r.URL.Query().Get("q")),
	})
}

func (h *api) playerProfile(w http.ResponseWriter, r *http.Request) {
	p, err := runPlayerProfile(h.env, chi.URLParam(r, "slug"), r.URL.Query().Get("stat"))
	if err != nil {
		respondLookupError(w, "player", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *api) teamProfile(w http.ResponseWriter, r *http.Request) {
	p, err := runTeamProfile(h.env, chi.URLParam(r, "slug"), r.URL.Query().Get("stat"), r.URL.Query().Get("season"))
	if err != nil {
		respondLookupError(w, "team", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *api) impact(w http.ResponseWriter, r *http.Request) {
	rep, err := runImpact(h.env, chi.URLParam(r, "slug"))
	if err != nil {
		respondLookupError(w, "player", err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// seasons lists every season present in either stat set, oldest first.
func (h *api) seasons() []string {
	all := append(append([]model.Record{}, h.env.Data.Players.Records...), h.env.Data.Teams.Records...)
	return stats.AvailableSeasons(all)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

func parseIntParam(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return n
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func respondLookupError(w http.ResponseWriter, what string, err error) {
	if eris.Is(err, errNotFound) {
		respondError(w, http.StatusNotFound, what+" not found", err)
		return
	}
	respondError(w, http.StatusBadRequest, "invalid "+what+" request", err)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	if err != nil {
		resp.Message = message + ": " + err.Error()
		if status >= http.StatusInternalServerError {
			zap.L().Error(message, zap.Error(err))
		} else {
			zap.L().Debug(message, zap.Error(err))
		}
	}
	respondJSON(w, status, resp)
}

// requestLogger logs one line per request through zap.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		reqID := chimiddleware.GetReqID(r.Context())
		if reqID == "" {
			reqID = uuid.NewString()
		}
		zap.L().Info("http request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
