package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"sayabantu/internal/config"
	"sayabantu/internal/database"
	"sayabantu/internal/logging"
	"sayabantu/internal/services"
	"sayabantu/internal/store"
	"sayabantu/internal/utils"
)

// Deps are the process-wide resources the handlers need.
type Deps struct {
	Config  *config.Config
	Logger  *log.Logger
	DB      *database.Database
	Store   *store.Store
	JWT     *utils.JWTUtil
	Reset   *services.PasswordResetService
	Uploads *Uploader
}

// NewRouter wires every route behind CORS and panic recovery.
func NewRouter(d Deps) http.Handler {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(d.Logger.WithPrefix("http")))

	db, st := d.DB, d.Store
	resetLimiter := NewIPRateLimiter(d.Config.Reset.RatePerMinute, d.Config.Reset.RateBurst)

	// Public routes
	router.HandleFunc("/health", Health(db)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/register", Register(db, st)).Methods("POST")
	router.HandleFunc("/login", Login(db, st, d.JWT)).Methods("POST")
	router.HandleFunc("/auth/request-reset", RateLimitMiddleware(resetLimiter)(RequestPasswordReset(d.Reset))).Methods("POST")
	router.HandleFunc("/auth/reset-password", RateLimitMiddleware(resetLimiter)(ResetPassword(d.Reset))).Methods("POST")
	router.HandleFunc("/public/site", PublicSite(db, st)).Methods("GET")
	router.HandleFunc("/public/services", PublicServices(db, st)).Methods("GET")
	router.PathPrefix(uploadURLPath).Handler(d.Uploads.FileServer()).Methods("GET", "HEAD")

	// Authenticated routes
	authed := router.NewRoute().Subrouter()
	authed.Use(JWTMiddleware(d.JWT))
	authed.HandleFunc("/admin", AdminWelcome()).Methods("GET")

	// Admin routes
	admin := router.NewRoute().Subrouter()
	admin.Use(JWTMiddleware(d.JWT), AdminOnly)
	{
		admin.HandleFunc("/settings", GetSettings(db)).Methods("GET")
		admin.HandleFunc("/settings", UpdateSettings(db, d.Uploads)).Methods("PUT")
		admin.HandleFunc("/settings/whatsapp", UpdateWhatsApp(db)).Methods("PUT")
		admin.HandleFunc("/settings/logo", DeleteLogo(db)).Methods("DELETE")
		admin.HandleFunc("/settings/whatsapp", DeleteWhatsApp(db)).Methods("DELETE")

		admin.HandleFunc("/services", ListServices(db, st)).Methods("GET")
		admin.HandleFunc("/services", CreateService(db, st, d.Uploads)).Methods("POST")
		admin.HandleFunc("/services/{id:[0-9]+}", UpdateService(db, st, d.Uploads)).Methods("PUT")
		admin.HandleFunc("/services/{id:[0-9]+}", DeleteService(db, st)).Methods("DELETE")

		emails := emailResource(st)
		admin.HandleFunc("/emails", emails.List(db)).Methods("GET")
		admin.HandleFunc("/emails", emails.Create(db)).Methods("POST")
		admin.HandleFunc("/emails/{id:[0-9]+}", emails.Update(db)).Methods("PUT")
		admin.HandleFunc("/emails/{id:[0-9]+}", emails.Delete(db)).Methods("DELETE")

		addresses := addressResource(st)
		admin.HandleFunc("/addresses", addresses.List(db)).Methods("GET")
		admin.HandleFunc("/addresses", addresses.Create(db)).Methods("POST")
		admin.HandleFunc("/addresses/{id:[0-9]+}", addresses.Update(db)).Methods("PUT")
		admin.HandleFunc("/addresses/{id:[0-9]+}", addresses.Delete(db)).Methods("DELETE")

		socials := socialResource(st)
		admin.HandleFunc("/socials", socials.List(db)).Methods("GET")
		admin.HandleFunc("/socials", socials.Create(db)).Methods("POST")
		admin.HandleFunc("/socials/{id:[0-9]+}", socials.Update(db)).Methods("PUT")
		admin.HandleFunc("/socials/{id:[0-9]+}", socials.Delete(db)).Methods("DELETE")

		admin.HandleFunc("/users", ListUsers(db, st)).Methods("GET")
		admin.HandleFunc("/users", CreateUser(db, st)).Methods("POST")
		admin.HandleFunc("/users/{id:[0-9]+}", UpdateUser(db, st)).Methods("PUT")
		admin.HandleFunc("/users/{id:[0-9]+}", DeleteUser(db, st)).Methods("DELETE")

		admin.HandleFunc("/upload", Upload(d.Uploads)).Methods("POST")
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	recovery := ghandlers.RecoveryHandler(
		ghandlers.RecoveryLogger(logging.PrintlnAdapter{Logger: d.Logger}),
		ghandlers.PrintRecoveryStack(false),
	)
	return corsHandler.Handler(recovery(router))
}
