package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"walletchat/internal/action"
	"walletchat/internal/analytics"
	"walletchat/internal/config"
	"walletchat/internal/httpapi"
	"walletchat/internal/intent"
	"walletchat/internal/llm"
	"walletchat/internal/notify"
	"walletchat/internal/pipeline"
	"walletchat/internal/scheduler"
	"walletchat/internal/session"
	"walletchat/internal/storage"
	"walletchat/internal/synth"
	"walletchat/internal/telegram"
	"walletchat/internal/wallet"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	logger := newLogger(cfg.Debug)
	defer func() { _ = logger.Sync() }()

	store := newSessionStore(cfg, logger)

	factory := llm.NewFactory(cfg)
	var llmClient llm.Client
	if cfg.NaturalResponses {
		llmClient, err = factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
		if err != nil {
			logger.Fatal("failed to create llm client", zap.Error(err))
		}
	}

	var classifier *intent.Classifier
	if llmClient != nil {
		classifier = intent.NewClassifier(llmClient, logger)
	}
	resolver := intent.NewResolver(store, classifier, cfg.NaturalResponses, cfg.SessionMaxTurns, logger)

	var notifier notify.Notifier = notify.NewLog(logger)
	if cfg.GmailCredentialsJSON != "" {
		gm, err := notify.NewGmail(context.Background(), cfg.GmailCredentialsJSON, cfg.GmailTokenPath)
		if err != nil {
			logger.Warn("gmail notifier unavailable", zap.Error(err))
		} else {
			notifier = gm
		}
	}

	registry := action.NewRegistry(logger)
	ledger := wallet.NewLedger()
	action.RegisterBuiltin(registry, ledger, notifier, logger)

	if cfg.MCPServerPath != "" {
		backend := action.NewMCPBackend(logger)
		if err := backend.Connect(context.Background(), cfg.MCPServerPath); err != nil {
			logger.Warn("MCP action server unavailable", zap.Error(err))
		} else {
			defer func() { _ = backend.Close() }()
			for _, tool := range cfg.MCPTools {
				if tool == "" {
					continue
				}
				registry.Register(tool, backend.Handler(tool))
				logger.Info("registered MCP intent", zap.String("intent", tool))
			}
		}
	}

	var synthesizer *synth.Synthesizer
	if llmClient != nil {
		synthesizer = synth.New(llmClient, cfg.PreserveIntents, logger)
	}

	var recorder storage.Recorder
	if cfg.LogFilePath != "" {
		rec, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			logger.Warn("interaction recorder unavailable", zap.Error(err))
		} else {
			recorder = rec
		}
	}

	pipe := pipeline.New(resolver, registry, synthesizer, recorder, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bot, err := telegram.New(cfg.TelegramBotToken, pipe, cfg.IsAllowed, logger)
	if err != nil {
		logger.Fatal("failed to init telegram bot", zap.Error(err))
	}

	startScheduler(cfg, store, recorder, bot, logger)

	if cfg.HTTPAddr != "" {
		api := httpapi.NewHandler(pipe, logger)
		srv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Router()}
		go func() {
			logger.Info("http api listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("http api stopped", zap.Error(err))
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("bot started",
		zap.Bool("natural_responses", cfg.NaturalResponses),
		zap.String("session_backend", cfg.SessionBackend))
	bot.Start(ctx)
}

func newLogger(debug bool) *zap.Logger {
	zc := zap.NewProductionConfig()
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}

func newSessionStore(cfg *config.Config, logger *zap.Logger) session.Store {
	var store session.Store
	switch cfg.SessionBackend {
	case "sqlite":
		s, err := session.NewSQLite(cfg.SessionDBPath)
		if err != nil {
			logger.Fatal("failed to open session db", zap.Error(err))
		}
		store = s
	default:
		store = session.NewMemory()
	}
	if cfg.SessionCache {
		store = session.NewCached(store)
	}
	if cfg.SessionSerialize {
		store = session.NewSerialized(store)
	}
	return store
}

func startScheduler(cfg *config.Config, store session.Store, recorder storage.Recorder, bot *telegram.Bot, logger *zap.Logger) {
	sched := scheduler.New(logger)

	if cfg.SessionTTL > 0 {
		ttl := cfg.SessionTTL
		if err := sched.Add("0 * * * *", "session_sweep", func(ctx context.Context) error {
			n, err := store.DeleteIdle(ctx, time.Now().UTC().Add(-ttl))
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("expired sessions removed", zap.Int("count", n))
			}
			return nil
		}); err != nil {
			logger.Warn("failed to register session sweep", zap.Error(err))
		}
	}

	if recorder != nil && cfg.AdminUserID != 0 {
		if err := sched.Add("0 21 * * *", "daily_report", func(ctx context.Context) error {
			events, err := recorder.LoadInteractions()
			if err != nil {
				return err
			}
			stats := analytics.AnalyzeDailyLogs(events, time.Now().UTC())
			bot.SendTo(cfg.AdminUserID, stats.GenerateReportSummary())
			return nil
		}); err != nil {
			logger.Warn("failed to register daily report", zap.Error(err))
		}
	}

	if sched.IsRunning() {
		sched.Start()
	}
}
