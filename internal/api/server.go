// Package api exposes the progression engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridclash/backend/internal/cache"
	"github.com/gridclash/backend/internal/metrics"
	"github.com/gridclash/backend/internal/progression"
	"github.com/gridclash/backend/internal/store"
	"github.com/gridclash/backend/internal/ws"
)

const maxBodySize = 1 << 20 // 1MB

// Server wires the store, cache, and broadcaster behind the HTTP routes.
type Server struct {
	store       *store.Store
	cache       cache.Cache
	broadcaster *ws.Broadcaster
	season      progression.Season

	// now is swappable in tests to pin the selection date.
	now func() time.Time
}

// NewServer creates a Server. broadcaster may be nil when WebSocket fan-out
// is not wanted (tests, one-shot tools).
func NewServer(st *store.Store, c cache.Cache, b *ws.Broadcaster, season progression.Season) *Server {
	return &Server{
		store:       st,
		cache:       c,
		broadcaster: b,
		season:      season,
		now:         time.Now,
	}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Use(s.requireUserID)
		r.Get("/missions", s.getMissions)
		r.Get("/missions/daily", s.getDailySelection)
		r.Get("/rewards", s.getRewards)
		r.Get("/progress", s.getProgress)
		r.Post("/missions/{code}/progress", s.postMissionProgress)
		r.Post("/rewards/{rewardID}/claim", s.postClaimReward)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	if s.broadcaster != nil {
		r.Get("/ws", s.broadcaster.HandleWS)
	}
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// requireUserID rejects requests whose userID path segment is not a UUID.
func (s *Server) requireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if _, err := uuid.Parse(userID); err != nil {
			respondError(w, http.StatusBadRequest, "userID must be a valid UUID")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type missionsResponse struct {
	UserID   string              `json:"userId"`
	Missions progression.Buckets `json:"missions"`
}

func (s *Server) getMissions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	showCompleted := r.URL.Query().Get("show_completed") == "true"

	missions, err := s.store.MissionsForUser(userID)
	if err != nil {
		log.Printf("listing missions for %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "failed to load missions")
		return
	}

	buckets := progression.ClassifyAndSort(missions, userID, showCompleted, s.season, s.now())
	respondJSON(w, http.StatusOK, missionsResponse{UserID: userID, Missions: buckets})
}

type dailyResponse struct {
	UserID string   `json:"userId"`
	Date   string   `json:"date"`
	Codes  []string `json:"codes"`
}

func (s *Server) getDailySelection(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	now := s.now().UTC()
	key := progression.DayKey(userID, now)

	var codes []string
	if err := cache.GetJSON(r.Context(), s.cache, key, &codes); err == nil {
		metrics.DailySelectionCacheHits.WithLabelValues("hit").Inc()
		respondJSON(w, http.StatusOK, dailyResponse{UserID: userID, Date: now.Format("2006-01-02"), Codes: codes})
		return
	} else if !errors.Is(err, cache.ErrNotFound) {
		log.Printf("daily selection cache read for %s: %v", userID, err)
	}
	metrics.DailySelectionCacheHits.WithLabelValues("miss").Inc()

	missions, err := s.store.MissionsForUser(userID)
	if err != nil {
		log.Printf("listing missions for %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "failed to load missions")
		return
	}

	var pool []string
	for _, m := range missions {
		if m.Kind == progression.KindDaily {
			pool = append(pool, m.Code)
		}
	}
	codes = progression.PickDaily(userID, pool, now)
	if codes == nil {
		codes = []string{}
	}

	if err := cache.SetJSON(r.Context(), s.cache, key, codes, untilNextUTCMidnight(now)); err != nil {
		log.Printf("daily selection cache write for %s: %v", userID, err)
	}
	respondJSON(w, http.StatusOK, dailyResponse{UserID: userID, Date: now.Format("2006-01-02"), Codes: codes})
}

// untilNextUTCMidnight bounds the cache entry to the current selection day.
func untilNextUTCMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(now)
}

func (s *Server) getRewards(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rows, err := s.store.RewardRows(userID)
	if err != nil {
		log.Printf("listing rewards for %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "failed to load rewards")
		return
	}
	prog, err := s.store.Progress(userID)
	if err != nil {
		log.Printf("loading progress for %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	premium, err := s.store.PremiumActive(userID)
	if err != nil {
		log.Printf("loading entitlement for %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "failed to load entitlement")
		return
	}

	track := progression.ResolveTrack(rows, prog.Level, premium)
	respondJSON(w, http.StatusOK, track)
}

type progressResponse struct {
	Progress store.Progress         `json:"progress"`
	Level    progression.LevelState `json:"level"`
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	prog, err := s.store.Progress(userID)
	if err != nil {
		log.Printf("loading progress for %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	respondJSON(w, http.StatusOK, progressResponse{
		Progress: prog,
		Level:    progression.LevelProgress(prog.XP, prog.Level),
	})
}

type incrementRequest struct {
	Amount int `json:"amount"`
}

func (s *Server) postMissionProgress(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	code := chi.URLParam(r, "code")

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	req := incrementRequest{Amount: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}
	if req.Amount < 0 {
		respondError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	upd, err := s.store.IncrementMission(userID, code, req.Amount)
	if errors.Is(err, store.ErrUnknownMission) {
		respondError(w, http.StatusNotFound, "unknown mission code")
		return
	}
	if err != nil {
		log.Printf("incrementing mission %s for %s: %v", code, userID, err)
		respondError(w, http.StatusInternalServerError, "failed to record progress")
		return
	}

	kind := string(upd.Mission.Kind)
	metrics.MissionProgressEvents.WithLabelValues(kind).Inc()
	if upd.JustCompleted {
		metrics.MissionsCompleted.WithLabelValues(kind).Inc()
	}
	if upd.XPAwarded > 0 {
		metrics.XPGranted.Add(float64(upd.XPAwarded))
	}

	s.publishMissionUpdate(userID, upd)
	respondJSON(w, http.StatusOK, upd)
}

func (s *Server) publishMissionUpdate(userID string, upd store.MissionUpdate) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Publish(ws.Message{
		Type:   ws.MsgMissionUpdate,
		UserID: userID,
		Payload: ws.MissionUpdatePayload{
			Mission:       upd.Mission,
			JustCompleted: upd.JustCompleted,
			XPAwarded:     upd.XPAwarded,
		},
	})
	if upd.XPAwarded > 0 {
		s.broadcaster.Publish(ws.Message{
			Type:   ws.MsgProgress,
			UserID: userID,
			Payload: ws.ProgressPayload{
				Progress:  upd.Progress,
				Level:     progression.LevelProgress(upd.Progress.XP, upd.Progress.Level),
				LeveledUp: upd.LeveledUp,
			},
		})
	}
}

func (s *Server) postClaimReward(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	rewardID := chi.URLParam(r, "rewardID")

	item, err := s.store.ClaimReward(userID, rewardID)
	if errors.Is(err, store.ErrUnknownReward) {
		respondError(w, http.StatusNotFound, "unknown reward")
		return
	}
	if errors.Is(err, store.ErrNotClaimable) {
		respondError(w, http.StatusConflict, "reward is not claimable")
		return
	}
	if err != nil {
		log.Printf("claiming reward %s for %s: %v", rewardID, userID, err)
		respondError(w, http.StatusInternalServerError, "failed to claim reward")
		return
	}

	metrics.RewardsClaimed.WithLabelValues(string(item.Tier)).Inc()
	if s.broadcaster != nil {
		s.broadcaster.Publish(ws.Message{
			Type:    ws.MsgRewardUnlocked,
			UserID:  userID,
			Payload: ws.RewardUnlockedPayload{Reward: item},
		})
	}
	respondJSON(w, http.StatusOK, item)
}

// ListenAndServe runs the HTTP server until ctx is canceled, then shuts it
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
