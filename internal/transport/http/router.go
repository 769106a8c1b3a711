package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	apppublic "bingo-hall/internal/app/public"
	"bingo-hall/internal/config"
	"bingo-hall/internal/hall"
	"bingo-hall/internal/mcpserver"
	"bingo-hall/internal/store"
	"bingo-hall/internal/ws"
)

// NewRouter wires every HTTP surface over h. st may be nil when no database
// is configured.
func NewRouter(h *hall.Hall, st *store.Store, cfg config.ServerConfig) *chi.Mux {
	publicSvc := apppublic.NewService(h)
	publicHandlers := NewPublicHandlers(publicSvc)
	adminHandlers := NewAdminHandlers(publicSvc, st)
	wsSrv := ws.NewServer(h)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	if cfg.MCPEnabled {
		mcpSrv := mcpserver.New(publicSvc)
		r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
		})
		r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", mcpSrv.Handler())
		r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", mcpSrv.Handler())
		r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", mcpSrv.Handler())
	}

	// No request logger here: the upgrade needs the raw hijackable writer.
	r.Get("/ws/games/{game_id}", wsSrv.HandleGame)

	captureBody := BodyCaptureMiddleware(4096)

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/rooms", publicHandlers.Rooms())
		r.Get("/rooms/{room_id}/games", publicHandlers.Games())
		r.Get("/games/{game_id}", publicHandlers.Game())
		r.With(captureBody).Post("/games/{game_id}/join", publicHandlers.Join())
		r.Get("/games/{game_id}/cards", publicHandlers.PlayerCards())
		r.Get("/games/{game_id}/live", publicHandlers.Live())
		r.Get("/games/{game_id}/events", EventsSSEHandler(h))
		r.With(captureBody).Post("/cards/{card_id}/mark", publicHandlers.Mark())
		r.Get("/patterns", publicHandlers.Patterns())

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.With(captureBody).Post("/games/{game_id}/force-start", adminHandlers.ForceStart())
			r.Get("/archive/{game_id}", adminHandlers.ArchivedGame())
			r.Get("/payouts", adminHandlers.Payouts())

			r.Route("/debug", func(r chi.Router) {
				r.Use(captureBody)
				r.Get("/vars", expvar.Handler().ServeHTTP)
			})
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
