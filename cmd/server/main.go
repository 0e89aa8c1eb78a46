package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"chronicle-backend/internal/config"
	"chronicle-backend/internal/handlers"
	"chronicle-backend/internal/providers"
	"chronicle-backend/internal/router"
	"chronicle-backend/internal/services"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.Env)
	logger.Info().Str("env", cfg.Env).Msg("starting chronicle backend")

	contentService, err := services.NewContentService()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load content datasets")
	}

	// Provider credentials are optional: a missing key turns into a
	// per-request response instead of a startup failure.
	var completer services.ChatCompleter
	if cfg.OpenAIAPIKey != "" {
		completer = providers.NewOpenAIChatClient(cfg.OpenAIAPIKey)
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, chat will return setup instructions")
	}
	chatService := services.NewChatService(completer, logger)

	xaiConfigured := cfg.XAIAPIKey != ""
	imageService := services.NewImageService(providers.NewXAIClient(cfg.XAIAPIKey, logger), logger)
	if !xaiConfigured {
		logger.Warn().Msg("XAI_API_KEY not set, image transform disabled")
	}
	if cfg.GeminiAPIKey != "" {
		captioner, err := providers.NewGeminiCaptioner(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini captioner unavailable, continuing without it")
		} else {
			defer captioner.Close()
			imageService.UseCaptionFallback(captioner)
		}
	}

	voiceConfigured := cfg.ElevenLabsAPIKey != ""
	voiceService := services.NewVoiceService(providers.NewElevenLabsClient(cfg.ElevenLabsAPIKey, logger), logger)
	if !voiceConfigured {
		logger.Warn().Msg("ELEVENLABS_API_KEY not set, voice synthesis disabled")
	}

	r := router.New(
		handlers.NewChatHandler(chatService),
		handlers.NewImageHandler(imageService, xaiConfigured),
		handlers.NewVoiceHandler(voiceService, voiceConfigured),
		handlers.NewContentHandler(contentService),
		logger,
		cfg.FrontendURL,
		cfg.AIRequestsPerMin,
	)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// The image transform chain can legitimately run for minutes
		// (two 120 s edit budgets plus vision probes), so the write
		// timeout must sit above the worst case.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info().Str("port", cfg.Port).Msg("chronicle backend ready")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
