package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"neochat/internal/chat"
	"neochat/internal/config"
	"neochat/internal/embedding"
	"neochat/internal/llm"
	"neochat/internal/rag/loaders"
	"neochat/internal/rag/pipeline"
	"neochat/internal/rag/splitters"
	"neochat/internal/rag/vectorstore"
	"neochat/internal/search"
	"neochat/internal/server"
	"neochat/internal/session"
	"neochat/internal/voice"
	"neochat/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger
	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New("neochat", "")
	appLogger.Info("Starting neochat service...")

	if err := os.MkdirAll(cfg.RAG.UploadDir, 0o755); err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create upload directory: %v", err))
	}

	ctx := context.Background()

	// 3. Initialize Dependencies
	embedder, err := embedding.NewFromConfig(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to initialize embedding provider: %v", err))
	}

	splitter, err := splitters.NewRecursiveSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Invalid chunking configuration: %v", err))
	}

	store := vectorstore.NewStore(cfg.RAG.VectorStoreDir, embedder, appLogger)
	loader := loaders.NewFallbackLoader(appLogger)
	indexer := pipeline.NewIndexer(loader, splitter, embedder, store, appLogger)
	retriever := pipeline.NewRetriever(store, appLogger)

	sessions, err := session.NewStore(cfg.Session.DBPath, cfg.Session.ExportDir)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to open session store: %v", err))
	}
	defer sessions.Close()

	chatModel, err := llm.NewFromConfig(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to initialize chat model: %v", err))
	}

	// Search and voice are optional; the service runs without them.
	searcher, err := search.NewFromConfig(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Web search disabled: no provider configured")
		searcher = nil
	}

	var transcriber voice.Transcriber
	var synthesizer voice.Synthesizer
	voiceClient, err := voice.NewOpenAIVoice(
		cfg.Credentials.OpenAIAPIKey,
		cfg.Voice.STTModel,
		cfg.Voice.TTSModel,
		cfg.Voice.TTSVoice,
		cfg.Voice.OutputDir,
	)
	if err != nil {
		appLogger.Warn(fmt.Sprintf("Voice disabled: %v", err))
	} else {
		transcriber = voiceClient
		synthesizer = voiceClient
	}

	orchestrator := chat.NewOrchestrator(sessions, retriever, chatModel, searcher, cfg.RAG.TopK, cfg.Search.NumResults, appLogger)

	// 4. Start HTTP Server
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := server.NewHandler(orchestrator, indexer, store, sessions, transcriber, synthesizer, cfg.RAG.UploadDir, appLogger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		appLogger.Info(fmt.Sprintf("HTTP server listening at %s", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(fmt.Sprintf("Failed to serve HTTP: %v", err))
		}
	}()

	// 5. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("Forced shutdown: %v", err))
	}
	appLogger.Info("Server gracefully stopped")
}
