package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	applog "github.com/Vovarama1992/channel_adapter/internal/logger"

	"github.com/Vovarama1992/channel_adapter/internal/config"
	"github.com/Vovarama1992/channel_adapter/internal/delivery"
	"github.com/Vovarama1992/channel_adapter/internal/domain"
	"github.com/Vovarama1992/channel_adapter/internal/error_notificator"
	"github.com/Vovarama1992/channel_adapter/internal/forward"
	"github.com/Vovarama1992/channel_adapter/internal/infra"
	"github.com/Vovarama1992/channel_adapter/internal/ports"
	"github.com/Vovarama1992/channel_adapter/internal/speech"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {

	// =========================================================================
	// ENV / DB INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	defer db.Close()

	baseLogger, err := applog.New()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	s3Client, err := infra.NewS3Client()
	if err != nil {
		log.Fatalf("failed to init s3: %v", err)
	}

	targets, err := config.LoadTargets(os.Getenv("TARGETS_FILE"))
	if err != nil {
		log.Fatalf("failed to load forward targets: %v", err)
	}

	// =========================================================================
	// REPOSITORIES
	// =========================================================================

	conversionRepo := infra.NewConversionRepo(db)

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	errInfra := error_notificator.NewInfra()
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// SPEECH ENGINES (STT / TTS)
	// =========================================================================

	var sttEngines []ports.STTClient
	if deepgram, err := speech.NewDeepgramClient(); err == nil {
		sttEngines = append(sttEngines, deepgram)
	} else {
		log.Printf("deepgram disabled: %v", err)
	}
	if whisper, err := speech.NewWhisperClient(); err == nil {
		sttEngines = append(sttEngines, whisper)
	} else {
		log.Printf("whisper disabled: %v", err)
	}

	stt, err := speech.NewFallbackSTT(sttEngines...)
	if err != nil {
		log.Fatalf("no stt engine configured: %v", err)
	}

	var ttsEngines []ports.TTSClient
	if openaiTTS, err := speech.NewOpenAITTSClient(); err == nil {
		ttsEngines = append(ttsEngines, openaiTTS)
	} else {
		log.Printf("openai tts disabled: %v", err)
	}
	if elevenlabs, err := speech.NewElevenLabsClient(); err == nil {
		ttsEngines = append(ttsEngines, elevenlabs)
	} else {
		log.Printf("elevenlabs disabled: %v", err)
	}
	// edge-tts бесплатный и без ключей — всегда замыкает цепочку
	ttsEngines = append(ttsEngines, speech.NewEdgeTTSClient())

	tts, err := speech.NewFallbackTTS(ttsEngines...)
	if err != nil {
		log.Fatalf("no tts engine configured: %v", err)
	}

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	s3Service := domain.NewS3Service(s3Client)
	historyService := domain.NewHistoryService(conversionRepo, zl)

	speechService := speech.NewService(
		stt,
		tts,
		speech.Catalog(ttsEngines),
		s3Service,
		historyService,
		errService,
	)

	forwardService := forward.NewService(
		speechService,
		forward.NewClient(),
		targets,
		historyService,
		errService,
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// HANDLERS
	speechHandler := delivery.NewSpeechHandler(speechService, zl)
	forwardHandler := delivery.NewForwardHandler(forwardService, zl)
	historyHandler := delivery.NewHistoryHandler(historyService, zl)

	// ROUTES
	delivery.RegisterRoutes(r, speechHandler, forwardHandler, historyHandler)

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			ctx := context.Background()
			removed, err := historyService.DeleteOlderThan(ctx, 30*24*time.Hour)
			if err != nil {
				log.Printf("[cleanup-history] error: %v", err)
			} else {
				log.Printf("[cleanup-history] removed %d old conversions", removed)
			}
		}
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: ports.ServiceName,
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
