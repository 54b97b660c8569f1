package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "asistencia/internal/adapters/email"
	web "asistencia/internal/adapters/http"
	"asistencia/internal/adapters/storage"
	accountStore "asistencia/internal/adapters/storage/account"
	activityStore "asistencia/internal/adapters/storage/activity"
	participationStore "asistencia/internal/adapters/storage/participation"
	personStore "asistencia/internal/adapters/storage/person"
	"asistencia/internal/application/orchestrators"
	"asistencia/pkg/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	logging.Setup()

	// Database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("ASISTENCIA_DB", "asistencia.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
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

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Wrap DB with slow-query instrumentation
	timedDB := storage.NewTimedDB(db)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:       acctStore,
		ActivityStore:      activityStore.NewSQLiteStore(timedDB),
		PersonStore:        personStore.NewSQLiteStore(timedDB),
		ParticipationStore: participationStore.NewSQLiteStore(timedDB),
	}

	// Seed the operator account if it does not exist yet
	adminUser := envOrDefault("ASISTENCIA_ADMIN_USER", "admin")
	adminPassword := envOrDefault("ASISTENCIA_ADMIN_PASSWORD", "cambiar esta clave")
	seedDeps := orchestrators.SeedAdminDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminUser, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender for import summaries
	resendKey := os.Getenv("ASISTENCIA_RESEND_KEY")
	emailFrom := envOrDefault("ASISTENCIA_RESEND_FROM", "Asistencia <noreply@asistencia.local>")
	adminEmail := os.Getenv("ASISTENCIA_ADMIN_EMAIL")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), adminEmail)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), adminEmail)
		log.Println("Email sender configured (noop — set ASISTENCIA_RESEND_KEY for real delivery)")
	}

	mux := web.NewMux(envOrDefault("ASISTENCIA_STATIC_DIR", "static"), stores)

	addr := envOrDefault("ASISTENCIA_ADDR", ":3000")
	log.Printf("Asistencia %s starting on %s (env=%s)", version, addr, envOrDefault("ASISTENCIA_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
