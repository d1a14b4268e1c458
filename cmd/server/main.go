package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gemini-chat/internal/config"
	"gemini-chat/internal/handlers"
	"gemini-chat/internal/logger"
	"gemini-chat/internal/router"
	"gemini-chat/internal/services"
	"gemini-chat/internal/session"
	"gemini-chat/web"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	log.Info("starting gemini-chat", zap.String("env", cfg.Env))
	for _, key := range cfg.MissingKeys() {
		log.Error("required environment variable is not set; chat requests will fail", zap.String("key", key))
	}

	// ──── Step 2: Initialize Gemini Client ────
	var model session.Model
	geminiService, err := services.NewGeminiService(context.Background(), services.GeminiConfig{
		APIKey:       cfg.GeminiAPIKey,
		Model:        cfg.GeminiModel,
		Temperature:  cfg.GeminiTemperature,
		SystemPrompt: cfg.GeminiSystemPrompt,
	}, log)
	if err != nil {
		log.Error("✗ Gemini client initialization failed", zap.Error(err))
		model = services.UnavailableModel{Reason: err}
	} else {
		defer geminiService.Close()
		model = geminiService
		log.Info("✓ Gemini client initialized", zap.String("model", cfg.GeminiModel))
	}

	// ──── Step 3: Initialize Session Manager ────
	manager := session.NewManager(model, cfg.ChatMaxTurns, log)
	log.Info("✓ Session manager ready", zap.Int("max_turns", cfg.ChatMaxTurns))

	// ──── Step 4: Initialize Handlers ────
	pageHandler, err := handlers.NewPageHandler(web.Templates(), "Gemini Chat", cfg.GeminiModel, log)
	if err != nil {
		log.Fatal("✗ Chat page unavailable", zap.Error(err))
	}
	chatHandler := handlers.NewChatHandler(manager, log)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(log, pageHandler, chatHandler, web.Static())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info(fmt.Sprintf("✓ Gemini Chat ready on http://localhost:%s", cfg.Port))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
