package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "yatra/internal/adapters/email"
	web "yatra/internal/adapters/http"
	"yatra/internal/adapters/http/perf"
	"yatra/internal/adapters/objectstore"
	"yatra/internal/adapters/storage"
	accountStorePkg "yatra/internal/adapters/storage/account"
	offeringStorePkg "yatra/internal/adapters/storage/offering"
	registrationStorePkg "yatra/internal/adapters/storage/registration"
	"yatra/internal/application/orchestrators"
	"yatra/internal/config"
	"yatra/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logging.Setup(cfg.LogLevel)
	slog.Info("starting", "version", version, "env", cfg.Env)

	// Open database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStorePkg.NewSQLiteStore(timedDB)
	offStore := offeringStorePkg.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:      acctStore,
		OfferingStore:     offStore,
		RegistrationStore: registrationStorePkg.NewSQLiteStore(timedDB),
	}

	// Seed default admin account if no accounts exist
	seedInput := orchestrators.SeedAdminInput{Email: cfg.AdminEmail, Password: cfg.AdminPassword}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedInput, orchestrators.SeedAdminDeps{AccountStore: acctStore}); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed a sample offering for development only
	if !cfg.IsProduction() {
		if err := orchestrators.ExecuteSeedOfferings(context.Background(), orchestrators.SeedOfferingsDeps{OfferingStore: offStore}); err != nil {
			log.Fatalf("failed to seed offerings: %v", err)
		}
	}

	// Configure email sender
	if cfg.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom), cfg.EmailFrom, cfg.EmailReplyTo)
		slog.Info("email_sender_configured", "provider", "resend")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.EmailFrom, cfg.EmailReplyTo)
		if cfg.IsProduction() {
			slog.Warn("email_delivery_disabled", "reason", "YATRA_RESEND_KEY not set")
		} else {
			slog.Info("email_sender_configured", "provider", "noop")
		}
	}

	files, err := objectstore.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare upload directory: %v", err)
	}

	mux := web.NewMux(web.MuxOptions{
		StaticDir:  "static",
		CSRFKeyHex: cfg.CSRFKey,
		Production: cfg.IsProduction(),
	}, stores, files, collector)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("listening", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
