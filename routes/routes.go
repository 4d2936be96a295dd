package routes

import (
	"github.com/drewtwitchell/openrink-playoffs/handlers"
	"github.com/drewtwitchell/openrink-playoffs/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes wires the HTTP surface. Reads are public; every mutation is
// gated behind an admin or league-manager token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	teamHandler *handlers.TeamHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/brackets", func(r chi.Router) {
		r.Get("/league/{leagueID}/season/{seasonID}", bracketHandler.ListHandler)
		r.Get("/league/{leagueID}/season/{seasonID}/active", bracketHandler.GetActiveHandler)
		r.Get("/{bracketID}", bracketHandler.GetDetailHandler)
		r.Get("/{bracketID}/standings", bracketHandler.GetStandingsHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize("admin", "league_manager"))

			r.Post("/", bracketHandler.CreateHandler)
			r.Post("/{bracketID}/playoffs", bracketHandler.SeedPlayoffHandler)
			r.Put("/{bracketID}/activate", bracketHandler.ActivateHandler)
			r.Delete("/{bracketID}", bracketHandler.DeleteHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize("admin", "league_manager"))

			r.Put("/{matchID}", matchHandler.RecordResultHandler)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", teamHandler.GetHandler)
		r.Get("/league/{leagueID}", teamHandler.ListByLeagueHandler)
	})

	router.Get("/ws/brackets/{bracketID}", webSocketHandler.ServeBracket)
}
