package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/clients/gemini"
	"github.com/BraydenJenkins/chatbot-showdown/internal/common/clock"
	"github.com/BraydenJenkins/chatbot-showdown/internal/common/logging"
	"github.com/BraydenJenkins/chatbot-showdown/internal/common/uuid"
	"github.com/BraydenJenkins/chatbot-showdown/internal/handlers/ws"
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"github.com/BraydenJenkins/chatbot-showdown/internal/repositories/history"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/collector"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/content"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/dialogue"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/fragments"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/session"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	logger := logging.New(&logging.Config{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "console"),
	})

	rnd := random.New(&random.Config{Seed: int64(getEnvInt(logger, "RANDOM_SEED", 0))})

	// Initialize content bank
	contentSvc, err := content.New(&content.Config{Path: getEnv("CONTENT_PATH", "")}, rnd)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load content bank")
	}

	mixer, err := fragments.New(&fragments.Config{
		RequiredFragments: contentSvc.RequiredFragments(),
		ExampleAnswers:    contentSvc.ExampleAnswers(models.QuestionKindFree),
		Random:            rnd,
		Logger:            &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create fragment mixer")
	}

	// Initialize dialogue generation
	generator := newGenerator(logger)
	dialogueSvc, err := dialogue.New(&dialogue.Config{
		Generator: generator,
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create dialogue service")
	}

	// Initialize round history
	historyRepo, redisClient := newHistory(logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	host, err := session.New(&session.Config{
		Content:  contentSvc,
		Mixer:    mixer,
		Dialogue: dialogueSvc,
		Random:   rnd,
		Clock:    &clock.DefaultClock{},
		UUID:     uuid.New(),
		History:  historyRepo,
		Rules: session.Rules{
			QuestionDuration:   getEnvSeconds(logger, "QUESTION_SECONDS", 30),
			BotCreationTimeout: getEnvSeconds(logger, "BOT_CREATION_SECONDS", 0),
			VotingTimeout:      getEnvSeconds(logger, "VOTING_SECONDS", 0),
			ScoreThreshold:     getEnvInt(logger, "SCORE_THRESHOLD", 10),
			SubmissionPolicy:   submissionPolicy(getEnv("SUBMISSION_POLICY", "last_wins")),
		},
		TickInterval: time.Duration(getEnvInt(logger, "TICK_MS", 100)) * time.Millisecond,
		Logger:       &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create session host")
	}

	server, err := ws.New(&ws.Config{
		Addr:             getEnv("LISTEN_ADDR", ws.DefaultAddr),
		Session:          host,
		ActionsPerSecond: float64(getEnvInt(logger, "ACTIONS_PER_SECOND", ws.DefaultActionsPerSecond)),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "")),
		Logger:           &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create websocket server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	hostDone := make(chan error, 1)
	go func() {
		hostDone <- host.Run(ctx)
	}()

	if err := server.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start websocket server")
	}
	logger.Info().Str("session_id", host.ID()).Msg("Host is now running. Press CTRL-C to exit.")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error stopping websocket server")
	}
	if err := <-hostDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Session host stopped with error")
	}

	logger.Info().Msg("Host has been shut down")
}

// newGenerator picks the Gemini backend, or the static one for offline play
func newGenerator(logger zerolog.Logger) dialogue.Generator {
	if getEnvBool(logger, "FAKE_GENERATOR", false) {
		logger.Warn().Msg("Using static conversation generator")
		return dialogue.StaticGenerator{}
	}

	apiKey := getEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		logger.Fatal().Msg("GEMINI_API_KEY environment variable is required unless FAKE_GENERATOR is set")
	}

	rps, err := strconv.ParseFloat(getEnv("GEMINI_RPS", "1"), 64)
	if err != nil {
		logger.Fatal().Err(err).Msg("GEMINI_RPS must be a number")
	}

	client, err := gemini.New(&gemini.Config{
		APIKey:            apiKey,
		Model:             getEnv("GEMINI_MODEL", gemini.DefaultModel),
		RequestsPerSecond: rps,
		Logger:            &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	return client
}

// newHistory connects to Redis when REDIS_ADDR is set and keeps history in
// process otherwise
func newHistory(logger zerolog.Logger) (history.Repository, *redis.Client) {
	addr := getEnv("REDIS_ADDR", "")
	if addr == "" {
		logger.Info().Msg("REDIS_ADDR not set, keeping round history in memory")
		return history.NewMemory(), nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("Failed to connect to Redis")
	}

	repo, err := history.NewRedis(&history.Config{
		RedisClient: redisClient,
		Expiration:  time.Duration(getEnvInt(logger, "HISTORY_TTL_HOURS", 24)) * time.Hour,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create history repository")
	}
	return repo, redisClient
}

func submissionPolicy(name string) collector.Policy {
	if strings.EqualFold(name, "accumulate") {
		return collector.PolicyAccumulate
	}
	return collector.PolicyLastWins
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(logger zerolog.Logger, key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Fatal().Err(err).Str("key", key).Msg("Environment variable must be an integer")
	}
	return n
}

func getEnvSeconds(logger zerolog.Logger, key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(logger, key, defaultValue)) * time.Second
}

func getEnvBool(logger zerolog.Logger, key string, defaultValue bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logger.Fatal().Err(err).Str("key", key).Msg("Environment variable must be a boolean")
	}
	return b
}
