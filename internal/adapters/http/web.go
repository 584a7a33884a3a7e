// Package web wires the HTTP surface: the public booking API the wizard
// submits to, and the authenticated back office for organizers.
package web

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"html"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"yatra/internal/adapters/email"
	"yatra/internal/adapters/http/middleware"
	"yatra/internal/adapters/http/perf"
	"yatra/internal/adapters/objectstore"
	accountStore "yatra/internal/adapters/storage/account"
	offeringStore "yatra/internal/adapters/storage/offering"
	registrationStore "yatra/internal/adapters/storage/registration"
	domainAccount "yatra/internal/domain/account"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	OfferingStore     offeringStore.Store
	RegistrationStore registrationStore.Store
}

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderDescription converts an offering's Markdown description to HTML.
func renderDescription(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "<p>" + html.EscapeString(md) + "</p>"
	}
	return buf.String()
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global upload store instance (set by NewMux)
var uploads objectstore.Store

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// loadCSRFKey decodes the hex-encoded 32-byte CSRF secret. In production the
// key MUST be set; in development a random key is generated per startup.
func loadCSRFKey(keyHex string, production bool) []byte {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("YATRA_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if production {
		log.Fatal("YATRA_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set YATRA_CSRF_KEY for production.")
	return key
}

// MuxOptions carries the knobs NewMux needs beyond the stores.
type MuxOptions struct {
	StaticDir  string
	CSRFKeyHex string
	Production bool
}

// NewMux wires HTTP handlers for the app.
func NewMux(opts MuxOptions, s *Stores, files objectstore.Store, collector *perf.Collector) http.Handler {
	stores = s
	uploads = files
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.Production

	csrfKey := loadCSRFKey(opts.CSRFKeyHex, opts.Production)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	r := chi.NewRouter()
	r.Use(middleware.Timing(collector))
	r.Use(middleware.RateLimit(limiter))
	r.Use(middleware.Auth(sessions))
	r.Use(middleware.CSRF(csrfKey))
	r.Use(middleware.SecurityHeaders)

	registerRoutes(r)

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}
	return r
}

// registerRoutes attaches all API routes to the router.
func registerRoutes(r chi.Router) {
	r.Get("/healthz", handleHealth)

	// Public booking API — what the registration wizard talks to.
	r.Route("/api", func(r chi.Router) {
		r.Get("/offerings", handleListOfferings)
		r.Get("/offerings/{offeringID}", handleGetOffering)
		r.Post("/offerings/{offeringID}/registrations", handleSubmitRegistration)

		r.Post("/login", handleLogin)
		r.Post("/logout", handleLogout)

		// Back office — organizers and admins only.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(domainAccount.RoleAdmin, domainAccount.RoleOrganizer))

			r.Get("/dashboard", handleDashboard)

			r.Get("/offerings", handleAdminListOfferings)
			r.Post("/offerings", handleCreateOffering)
			r.Get("/offerings/{offeringID}", handleAdminGetOffering)
			r.Put("/offerings/{offeringID}", handleUpdateOffering)
			r.Post("/offerings/{offeringID}/publish", handlePublishOffering)
			r.Post("/offerings/{offeringID}/close", handleCloseOffering)
			r.Delete("/offerings/{offeringID}", handleDeleteOffering)

			r.Get("/offerings/{offeringID}/registrations", handleListRegistrations)
			r.Get("/registrations/{registrationID}", handleGetRegistration)
			r.Post("/registrations/{registrationID}/status", handleUpdateRegistrationStatus)

			r.Get("/uploads/{path}", handleGetUpload)
			r.Get("/perf", handlePerf)
		})
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON serializes v to the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err.Error())
	}
}

// writeError sends an error response in the shape clients read messages from.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
