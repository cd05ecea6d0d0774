package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/handlers"
	"github.com/teris-io/shortid"

	"github.com/campfire-rpg/campfire/internal/config"
	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/membership"
	"github.com/campfire-rpg/campfire/internal/policy"
	"github.com/campfire-rpg/campfire/internal/stats"
)

type CampfireApp struct {
	log        *log.Logger
	db         database.CampfireRepository
	members    *membership.Service
	policy     *policy.Evaluator
	stats      stats.StatsProvider
	mux        *http.Server
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// overridable in tests
	generateJoinCode func() (string, error)
}

func NewCampfireApp(logger *log.Logger, db database.CampfireRepository, sp stats.StatsProvider, cfg *config.Config) *CampfireApp {
	s := &CampfireApp{
		log:              logger,
		db:               db,
		members:          membership.NewService(db),
		policy:           policy.NewEvaluator(db),
		stats:            sp,
		signingKey:       cfg.SigningKey,
		accessTTL:        cfg.AccessTokenTTL,
		refreshTTL:       cfg.RefreshTokenTTL,
		generateJoinCode: shortid.Generate,
	}

	if sp != nil {
		sp.RegisterMetric(stats.AccountsRegistered)
		sp.RegisterMetric(stats.CampaignsCreated)
		sp.RegisterMetric(stats.CampaignsArchived)
		sp.RegisterMetric(stats.JoinRequestsCreated)
		sp.RegisterMetric(stats.JoinRequestsDecided)
		sp.RegisterMetric(stats.ChatMessagesSent)
	}

	r := chi.NewRouter()

	r.Get("/healthz", s.healthCheck)
	if su, ok := sp.(*stats.StatsUpdater); ok {
		r.Get("/debug/vars", su.ExpvarHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts/register", s.createAccount)
		r.Post("/accounts/login", s.login)
		r.Post("/accounts/logout", s.logout)
		r.Post("/accounts/token/refresh", s.refreshToken)
		r.Get("/accounts/me", s.authMiddleware(s.getAccount))
		r.Patch("/accounts/me", s.authMiddleware(s.updateAccount))
		r.Post("/accounts/me/change-password", s.authMiddleware(s.changePassword))

		r.Get("/campaigns/public", s.searchPublicCampaigns)
		r.Get("/campaigns", s.authMiddleware(s.listCampaigns))
		r.Post("/campaigns", s.authMiddleware(s.createCampaign))
		r.Get("/campaigns/{id}", s.authMiddleware(s.getCampaign))
		r.Patch("/campaigns/{id}", s.authMiddleware(s.updateCampaign))
		r.Delete("/campaigns/{id}", s.authMiddleware(s.deleteCampaign))

		r.Get("/campaign-requests", s.authMiddleware(s.listJoinRequests))
		r.Post("/campaign-requests", s.authMiddleware(s.createJoinRequest))
		r.Post("/campaign-requests/{id}/approve", s.authMiddleware(s.approveJoinRequest))
		r.Post("/campaign-requests/{id}/reject", s.authMiddleware(s.rejectJoinRequest))

		r.Get("/classes", s.authMiddleware(s.listClasses))

		r.Get("/characters", s.authMiddleware(s.listCharacters))
		r.Post("/characters", s.authMiddleware(s.createCharacter))
		r.Get("/characters/{id}", s.authMiddleware(s.getCharacter))
		r.Patch("/characters/{id}", s.authMiddleware(s.updateCharacter))
		r.Delete("/characters/{id}", s.authMiddleware(s.deleteCharacter))

		r.Get("/sessions", s.authMiddleware(s.listSessions))
		r.Post("/sessions", s.authMiddleware(s.createSession))
		r.Get("/sessions/{id}", s.authMiddleware(s.getSession))
		r.Patch("/sessions/{id}", s.authMiddleware(s.updateSession))
		r.Delete("/sessions/{id}", s.authMiddleware(s.deleteSession))

		r.Get("/dm-notes", s.authMiddleware(s.listDMNotes))
		r.Post("/dm-notes", s.authMiddleware(s.createDMNote))
		r.Get("/dm-notes/{id}", s.authMiddleware(s.getDMNote))
		r.Patch("/dm-notes/{id}", s.authMiddleware(s.updateDMNote))
		r.Delete("/dm-notes/{id}", s.authMiddleware(s.deleteDMNote))

		r.Get("/campaign-notes", s.authMiddleware(s.listCampaignNotes))
		r.Post("/campaign-notes", s.authMiddleware(s.createCampaignNote))
		r.Get("/campaign-notes/{id}", s.authMiddleware(s.getCampaignNote))
		r.Patch("/campaign-notes/{id}", s.authMiddleware(s.updateCampaignNote))
		r.Delete("/campaign-notes/{id}", s.authMiddleware(s.deleteCampaignNote))

		r.Get("/storylines", s.authMiddleware(s.listStorylines))
		r.Post("/storylines", s.authMiddleware(s.createStoryline))
		r.Get("/storylines/{id}", s.authMiddleware(s.getStoryline))
		r.Patch("/storylines/{id}", s.authMiddleware(s.updateStoryline))
		r.Delete("/storylines/{id}", s.authMiddleware(s.deleteStoryline))

		r.Get("/story-outcomes", s.authMiddleware(s.listStoryOutcomes))
		r.Post("/story-outcomes", s.authMiddleware(s.createStoryOutcome))
		r.Get("/story-outcomes/{id}", s.authMiddleware(s.getStoryOutcome))
		r.Patch("/story-outcomes/{id}", s.authMiddleware(s.updateStoryOutcome))
		r.Delete("/story-outcomes/{id}", s.authMiddleware(s.deleteStoryOutcome))

		r.Get("/chat-messages", s.authMiddleware(s.listChatMessages))
		r.Post("/chat-messages", s.authMiddleware(s.createChatMessage))
		r.Delete("/chat-messages/{id}", s.authMiddleware(s.deleteChatMessage))
	})

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
		handlers.AllowCredentials(),
	)(r)

	h = handlers.LoggingHandler(os.Stdout, h)
	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *CampfireApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *CampfireApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

func (s *CampfireApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *CampfireApp) incrStat(name string) {
	if s.stats != nil {
		s.stats.Incr(name)
	}
}

// writeError logs server faults and sends the rest through unchanged.
func (s *CampfireApp) writeError(w http.ResponseWriter, err error) {
	errResp := apiErrorFrom(err)
	if errResp.StatusCode == http.StatusInternalServerError {
		s.log.Printf("internal error: %v", errResp.Err)
	}
	s.writeJson(w, errResp.StatusCode, errResp)
}

func (s *CampfireApp) healthCheck(w http.ResponseWriter, _ *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Printf("health check: %v", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
