package rest

import (
	"net/http"

	"onboardhq-backend/application/commands/bus"
	commandhandlers "onboardhq-backend/application/commands/handlers"
	querybus "onboardhq-backend/application/queries/bus"
	"onboardhq-backend/interfaces/http/rest/handlers"
	"onboardhq-backend/interfaces/http/rest/middleware"
	"onboardhq-backend/pkg/auth"
	pkgerrors "onboardhq-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Handlers carries the entity-returning application handlers the HTTP
// layer calls directly; everything else goes through the buses.
type Handlers struct {
	PreHires *handlers.PreHireHandler
	Tickets  *handlers.TicketHandler
	Bundles  *handlers.BundleHandler
	Events   *handlers.EventHandler
	Venues   *handlers.VenueHandler
	Notes    *handlers.NoteHandler
}

// Router creates and configures the HTTP router
type Router struct {
	handlers     Handlers
	jwtValidator *auth.JWTValidator
	rateLimiter  auth.RateLimiter
	enableCORS   bool
	logger       *zap.Logger
}

// Options configures a Router
type Options struct {
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	JWTValidator *auth.JWTValidator
	RateLimiter  auth.RateLimiter
	EnableCORS   bool
	Debug        bool
	Logger       *zap.Logger

	// Application handlers for operations that return the affected entity
	CreatePreHire    *commandhandlers.CreatePreHireHandler
	OpenTicket       *commandhandlers.OpenTicketHandler
	TransitionTicket *commandhandlers.TransitionTicketHandler
	BundleCommands   *commandhandlers.BundleHandler
	ScheduleEvent    *commandhandlers.ScheduleEventHandler
	VenueCommands    *commandhandlers.VenueHandler
	NoteCommands     *commandhandlers.NoteHandler
}

// NewRouter creates a new router instance
func NewRouter(opts Options) *Router {
	errs := pkgerrors.NewErrorHandler(opts.Logger, opts.Debug)

	return &Router{
		handlers: Handlers{
			PreHires: handlers.NewPreHireHandler(opts.CommandBus, opts.QueryBus, opts.CreatePreHire, errs, opts.Logger),
			Tickets:  handlers.NewTicketHandler(opts.CommandBus, opts.QueryBus, opts.OpenTicket, opts.TransitionTicket, errs, opts.Logger),
			Bundles:  handlers.NewBundleHandler(opts.CommandBus, opts.QueryBus, opts.BundleCommands, errs, opts.Logger),
			Events:   handlers.NewEventHandler(opts.CommandBus, opts.QueryBus, opts.ScheduleEvent, errs, opts.Logger),
			Venues:   handlers.NewVenueHandler(opts.CommandBus, opts.QueryBus, opts.VenueCommands, errs, opts.Logger),
			Notes:    handlers.NewNoteHandler(opts.CommandBus, opts.QueryBus, opts.NoteCommands, errs, opts.Logger),
		},
		jwtValidator: opts.JWTValidator,
		rateLimiter:  opts.RateLimiter,
		enableCORS:   opts.EnableCORS,
		logger:       opts.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.onboardhq.io"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(apiVersion("v1"))
		r.Use(middleware.Authenticate(rt.jwtValidator, rt.logger))
		r.Use(middleware.RateLimit(rt.rateLimiter, rt.logger))

		r.Route("/prehires", func(r chi.Router) {
			h := rt.handlers.PreHires
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{prehireID}", h.Get)
			r.Delete("/{prehireID}", h.Delete)
			r.Get("/{prehireID}/status", h.Status)
			r.Get("/{prehireID}/tickets", h.Tickets)
			r.Post("/{prehireID}/advance", h.Advance)
			r.Post("/{prehireID}/bundle", h.AssignBundle)
			r.Put("/{prehireID}/manager", h.AssignManager)
			r.Put("/{prehireID}/start-date", h.Reschedule)
			r.Post("/{prehireID}/withdraw", h.Withdraw)
		})

		r.Route("/tickets", func(r chi.Router) {
			h := rt.handlers.Tickets
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{ticketID}", h.Get)
			r.Post("/{ticketID}/transition", h.Transition)
			r.Post("/{ticketID}/reassign", h.Reassign)
		})

		r.Route("/bundles", func(r chi.Router) {
			h := rt.handlers.Bundles
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Post("/import-catalog", h.ImportCatalog)
			r.Get("/{bundleID}", h.Get)
			r.Post("/{bundleID}/items", h.AddItem)
			r.Delete("/{bundleID}/items/{sku}", h.RemoveItem)
			r.Post("/{bundleID}/retire", h.Retire)
		})

		r.Route("/events", func(r chi.Router) {
			h := rt.handlers.Events
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{eventID}", h.Get)
			r.Put("/{eventID}/schedule", h.Reschedule)
			r.Post("/{eventID}/cancel", h.Cancel)
			r.Post("/{eventID}/attendees", h.RegisterAttendee)
			r.Delete("/{eventID}/attendees/{prehireID}", h.UnregisterAttendee)
			r.Get("/{eventID}/notes", h.Notes)
		})

		r.Route("/venues", func(r chi.Router) {
			h := rt.handlers.Venues
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{venueID}", h.Get)
			r.Put("/{venueID}", h.Update)
			r.Post("/{venueID}/deactivate", h.Deactivate)
		})

		r.Route("/notes", func(r chi.Router) {
			h := rt.handlers.Notes
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{noteID}", h.Get)
			r.Get("/{noteID}/render", h.Render)
			r.Put("/{noteID}", h.Update)
			r.Post("/{noteID}/recap", h.DecideRecap)
			r.Delete("/{noteID}", h.Delete)
		})
	})

	return router
}

// apiVersion stamps responses with the API version they were served by
func apiVersion(version string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-API-Version", version)
			next.ServeHTTP(w, r)
		})
	}
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
