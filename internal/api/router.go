package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpHandlers "github.com/platelog/platelog-backend/internal/api/http"
	"github.com/platelog/platelog-backend/internal/api/recovery"
	"github.com/platelog/platelog-backend/internal/auth"
	"github.com/platelog/platelog-backend/internal/config"
	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/services"
)

// NewRouter creates the HTTP router with all API routes. The store is shared
// by every service; the analyzer backs the AI meal analysis endpoint.
func NewRouter(cfg *config.Config, store docstore.Store, analyzer services.Analyzer) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	// Create domain services
	diaryService := services.NewDiaryService(store, cfg.MergeConcurrency)
	identityService := services.NewIdentityService(store, cfg.MergeConcurrency)
	quotaService := services.NewQuotaService(store, cfg.DailyAnalysisLimit)
	analysisService := services.NewAnalysisService(diaryService, quotaService, analyzer)

	// Create handlers
	pinger, _ := store.(httpHandlers.Pinger)
	healthHandler := httpHandlers.NewHealthHandler(pinger)
	diaryHandler := httpHandlers.NewDiaryHandler(diaryService)
	accountHandler := httpHandlers.NewAccountHandler(identityService, diaryService)
	analysisHandler := httpHandlers.NewAnalysisHandler(analysisService, quotaService)

	// Unauthenticated endpoints
	router.HandleFunc("/v0/health", healthHandler.CheckHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Everything else runs as the caller; the bearer token is forwarded to
	// the document store on each call.
	authed := router.PathPrefix("/v0").Subrouter()
	authed.Use(auth.Middleware(auth.NewAuthorizer(cfg)))

	// Diary entry endpoints
	authed.HandleFunc("/entries", diaryHandler.CreateEntry).Methods("POST")
	authed.HandleFunc("/entries/{entryId}", diaryHandler.GetEntry).Methods("GET")
	authed.HandleFunc("/entries/{entryId}", diaryHandler.DeleteEntry).Methods("DELETE")
	authed.HandleFunc("/entries/{entryId}/bookmark", diaryHandler.SetBookmark).Methods("PATCH")

	// Analysis endpoints
	authed.HandleFunc("/entries/{entryId}/analysis", analysisHandler.Analyze).Methods("POST")
	authed.HandleFunc("/analysis/quota", analysisHandler.QuotaStatus).Methods("GET")

	// Account lifecycle endpoints
	authed.HandleFunc("/account/merge", accountHandler.Merge).Methods("POST")
	authed.HandleFunc("/account/wipe", accountHandler.Wipe).Methods("POST")

	return router
}
