package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dawnlab-io/dreamweave/internal/api/handlers"
	mw "github.com/dawnlab-io/dreamweave/internal/api/middleware"
	"github.com/dawnlab-io/dreamweave/internal/config"
	"github.com/dawnlab-io/dreamweave/internal/domain"
	"github.com/dawnlab-io/dreamweave/internal/embedding"
	"github.com/dawnlab-io/dreamweave/internal/image"
	"github.com/dawnlab-io/dreamweave/internal/index"
	"github.com/dawnlab-io/dreamweave/internal/llm"
	"github.com/dawnlab-io/dreamweave/internal/moderation"
	"github.com/dawnlab-io/dreamweave/internal/service"
	"github.com/dawnlab-io/dreamweave/internal/stt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the session manager for lifecycle management.
type App struct {
	Router       *chi.Mux
	Sessions     *service.SessionManager
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(idx *index.Index, logger *zap.Logger) (*App, error) {
	apiKey := config.OpenAIAPIKey()

	llmClient, err := llm.NewClient(config.LLMProvider(), apiKey)
	if err != nil {
		return nil, err
	}
	logger.Info("LLM client initialized", zap.String("provider", config.LLMProvider()))

	sttClient, err := stt.NewClient(config.STTProvider(), apiKey, config.TranscriptionLanguage())
	if err != nil {
		return nil, err
	}
	logger.Info("STT client initialized", zap.String("provider", config.STTProvider()))

	moderationClient, err := moderation.NewClient(config.ModerationProvider(), apiKey)
	if err != nil {
		return nil, err
	}
	logger.Info("Moderation client initialized", zap.String("provider", config.ModerationProvider()))

	imageClient, err := image.NewClient(config.ImageProvider(), apiKey)
	if err != nil {
		return nil, err
	}
	logger.Info("Image client initialized", zap.String("provider", config.ImageProvider()))

	// Services
	reportSvc := service.NewReportService(idx, llmClient, logger, config.ReportLanguage(), config.RetrievalTopK())
	synthesisSvc := service.NewSynthesisService(llmClient, logger, config.ReportLanguage())
	orchestrator := service.NewOrchestrator(sttClient, moderationClient, reportSvc, synthesisSvc, imageClient, logger)
	manager := service.NewSessionManager()

	// Handlers
	sessionHandler := handlers.NewSessionHandler(manager, orchestrator)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Sessions:  manager,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	// Health
	r.Get("/health", healthHandler(idx))

	// Metrics
	r.Get("/metrics", app.metricsHandler())

	// Sessions
	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetByID)
			r.Delete("/", sessionHandler.Delete)
			r.Post("/audio", sessionHandler.SubmitAudio)
			r.Post("/report", sessionHandler.GenerateReport)
			r.Post("/nightmare", sessionHandler.RenderNightmare)
			r.Post("/reconstruction", sessionHandler.RenderReconstruction)
			r.Post("/reset", sessionHandler.Reset)
		})
	})

	return app, nil
}

func healthHandler(idx *index.Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "ok",
			"index_passages": idx.Count(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"sessions":       app.Sessions.Count(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure clients satisfy interfaces at compile time.
var (
	_ domain.EmbeddingClient     = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient     = (*embedding.MockClient)(nil)
	_ domain.GenerationClient    = (*llm.OpenAIClient)(nil)
	_ domain.GenerationClient    = (*llm.MockClient)(nil)
	_ domain.TranscriptionClient = (*stt.OpenAIClient)(nil)
	_ domain.TranscriptionClient = (*stt.MockClient)(nil)
	_ domain.ModerationClient    = (*moderation.OpenAIClient)(nil)
	_ domain.ModerationClient    = (*moderation.MockClient)(nil)
	_ domain.ImageClient         = (*image.OpenAIClient)(nil)
	_ domain.ImageClient         = (*image.MockClient)(nil)
	_ service.Retriever          = (*index.Index)(nil)
)
