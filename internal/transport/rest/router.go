package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"hellosleep/internal/cache"
	"hellosleep/internal/service"
	"hellosleep/internal/transport/rest/handler"
	"hellosleep/internal/transport/rest/middleware"
	"hellosleep/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService           *service.AuthService
	QuestionnaireService  *service.QuestionnaireService
	TagService            *service.TagService
	BookletService        *service.BookletService
	RecommendationService *service.RecommendationService
	Patterns              *cache.PatternCache
	Content               handler.ContentReader
	WSHub                 *ws.Hub
	Log                   *zap.Logger

	CORSOrigins   string
	NearThreshold float64
	CleanupMaxAge time.Duration
	CleanupMinUse int
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.QuestionnaireService, c.TagService, c.BookletService)
	catalogHandler := handler.NewCatalogHandler(c.TagService, c.BookletService)
	recommendationHandler := handler.NewRecommendationHandler(c.RecommendationService, c.QuestionnaireService)
	adminHandler := handler.NewAdminHandler(c.Patterns, c.Content, c.NearThreshold, c.CleanupMaxAge, c.CleanupMinUse)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Log)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions", assessmentHandler.Questions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions/visible", assessmentHandler.Visible).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/evaluate", assessmentHandler.Evaluate).Methods("POST", "OPTIONS")
	v1.HandleFunc("/tags", catalogHandler.Tags).Methods("GET", "OPTIONS")
	v1.HandleFunc("/booklets/{id}", catalogHandler.Booklet).Methods("GET", "OPTIONS")
	v1.HandleFunc("/recommendations", recommendationHandler.Recommend).Methods("POST", "OPTIONS")

	// WebSocket route (admin token in query param)
	v1.HandleFunc("/ws/pipeline", wsHandler.PipelineWS).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/cache/stats", adminHandler.CacheStats).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/cache/entries/{hash}", adminHandler.Entry).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/cache/similar", adminHandler.Similar).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/cache/cleanup", adminHandler.Cleanup).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/catalog/gaps", adminHandler.CatalogGaps).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
