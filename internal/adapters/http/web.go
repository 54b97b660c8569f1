package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"asistencia/internal/adapters/email"
	"asistencia/internal/adapters/http/middleware"
	accountStore "asistencia/internal/adapters/storage/account"
	activityStore "asistencia/internal/adapters/storage/activity"
	participationStore "asistencia/internal/adapters/storage/participation"
	personStore "asistencia/internal/adapters/storage/person"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore       accountStore.Store
	ActivityStore      activityStore.Store
	PersonStore        personStore.Store
	ParticipationStore participationStore.Store
}

// loadCSRFKey reads the CSRF secret from ASISTENCIA_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("ASISTENCIA_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("ASISTENCIA_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("ASISTENCIA_ENV") == "production" {
		log.Fatal("ASISTENCIA_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set ASISTENCIA_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// adminEmailAddress receives the import summary notifications.
var adminEmailAddress string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, adminEmail string) {
	emailSender = sender
	adminEmailAddress = adminEmail
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("ASISTENCIA_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
