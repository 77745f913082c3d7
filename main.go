package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/serenity-chat/server/internal/agent/graph"
	"github.com/serenity-chat/server/internal/agent/graph/conversations"
	"github.com/serenity-chat/server/internal/agent/graph/responses"
	"github.com/serenity-chat/server/internal/agent/model"
	"github.com/serenity-chat/server/internal/agent/repo"
	"github.com/serenity-chat/server/internal/core"
	"github.com/serenity-chat/server/internal/encouragement"
	"github.com/serenity-chat/server/internal/metrics"
	"github.com/serenity-chat/server/internal/server"
	logx "github.com/serenity-chat/server/pkg/logger"
	pkgredis "github.com/serenity-chat/server/pkg/redis"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// AppConfig defines all configurable parameters for the service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`

	// Infrastructure
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`
	Redis          pkgredis.Config
	Server         server.Config

	// Responder configs
	Conversation  model.ConversationConfig
	Responder     model.ResponderConfig
	Encouragement model.EncouragementConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	dotenvErr := godotenv.Load(".env")

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		logx.Init()
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}

	logx.Init(logx.LoggerOpts{Environment: envCfg.Environment, Level: envCfg.LogLevel})
	if dotenvErr != nil {
		logx.Debug().Err(dotenvErr).Msg("Could not load .env file")
	}

	ttl, err := envCfg.Conversation.ParsedTTL()
	if err != nil {
		logx.Fatal().Err(err).Msg("Invalid conversation config")
	}

	mtr := metrics.New()
	var serverOpts []server.Option
	serverOpts = append(serverOpts, server.WithMetrics(mtr))

	// ====================================================
	// Conversation storage
	var conversationRepo model.ConversationRepository
	switch envCfg.StorageBackend {
	case StorageRedis:
		rdb, err := envCfg.Redis.New(ctx)
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()
		logx.Info().Msg("Connected to Redis successfully")

		conversationRepo = repo.NewRedisConversationRepository(rdb, ttl)
		serverOpts = append(serverOpts, server.WithHealthCheck("redis", pkgredis.HealthCheck(rdb)))
	case StorageMemory:
		conversationRepo = repo.NewMemoryConversationRepository()
	default:
		logx.Fatal().Str("storage_backend", envCfg.StorageBackend).Msg("Unknown STORAGE_BACKEND (want memory or redis)")
	}

	// ====================================================
	// Build graph config entirely from env
	mm := conversations.NewMessagesManager(conversationRepo, envCfg.Conversation, conversations.WithMetrics(mtr))
	runner, err := graph.BuildResponseGraph(ctx, graph.Config{
		Conversations: mm,
		Selector:      responses.NewSelector(responses.NewRand(envCfg.Responder.Seed)),
		Conversation:  envCfg.Conversation,
		Metrics:       mtr,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build graph")
	}

	encourager := encouragement.NewGenerator(envCfg.Encouragement, nil, mtr)

	srvCfg := envCfg.Server
	srvCfg.MaxMessageLength = envCfg.Conversation.MaxMessageLength
	srvCfg.StorageBackend = envCfg.StorageBackend
	srv := server.NewServer(srvCfg, mm, runner, encourager, serverOpts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logx.Error().Err(err).Msg("Server stopped unexpectedly")
		}
	case <-ctx.Done():
		logx.Info().Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
