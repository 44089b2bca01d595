package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/DoyleJ11/typerace-backend/internal/history"
	"github.com/DoyleJ11/typerace-backend/internal/hub"
	"github.com/DoyleJ11/typerace-backend/internal/session"
	"github.com/DoyleJ11/typerace-backend/internal/store"
)

const (
	qrSize       = 320
	queryTimeout = 2 * time.Second
	defaultLimit = 20
	maxLimit     = 100
)

// MatchLister reads finished matches, newest first.
type MatchLister interface {
	Recent(ctx context.Context, limit int) ([]history.Match, error)
}

// Leaderboard ranks the best single-match WPMs.
type Leaderboard interface {
	Leaderboard(ctx context.Context, limit int) ([]history.LeaderboardEntry, error)
}

type healthResponse struct {
	Status string `json:"status"`
	session.Stats
}

func Healthz(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()

		stats, err := h.Stats(ctx)
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Stats: stats})
	}
}

// RoomQR serves a PNG QR code that opens the client on the room's join link.
func RoomQR(h *hub.Hub, publicURL string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := store.Normalize(chi.URLParam(r, "code"))

		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()
		info, err := h.Room(ctx, code)
		if err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		if info == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		link := publicURL + "/?room=" + url.QueryEscape(info.Code)
		png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
		if err != nil {
			log.Error("qr generation failed", zap.String("room", info.Code), zap.Error(err))
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(png)
	}
}

func RecentMatches(lister MatchLister, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := lister.Recent(r.Context(), limitParam(r))
		if err != nil {
			log.Error("recent matches", zap.Error(err))
			http.Error(w, "failed to load matches", http.StatusInternalServerError)
			return
		}
		if matches == nil {
			matches = []history.Match{}
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func TopScores(board Leaderboard, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := board.Leaderboard(r.Context(), limitParam(r))
		if err != nil {
			log.Error("leaderboard", zap.Error(err))
			http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []history.LeaderboardEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultLimit
	}
	return min(n, maxLimit)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
