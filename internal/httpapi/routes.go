package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/DoyleJ11/typerace-backend/internal/hub"
	"github.com/DoyleJ11/typerace-backend/internal/ws"
)

type Deps struct {
	Hub         *hub.Hub
	WS          ws.Config
	PublicURL   string
	CORSOrigins []string
	// History is optional; the match routes are mounted only when set.
	History MatchLister
	Logger  *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/ws", ws.Handler(d.Hub, d.WS))
	r.Get("/healthz", Healthz(d.Hub))
	r.Get("/health", Healthz(d.Hub))
	r.Get("/rooms/{code}/qr", RoomQR(d.Hub, d.PublicURL, log))

	if d.History != nil {
		r.Get("/matches/recent", RecentMatches(d.History, log))
		if board, ok := d.History.(Leaderboard); ok {
			r.Get("/leaderboard", TopScores(board, log))
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}).Handler(r)
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debug("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
