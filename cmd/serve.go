package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/learnpulse/internal/config"
	"github.com/abhisek/learnpulse/internal/insight"
	"github.com/abhisek/learnpulse/internal/narrative"
	"github.com/abhisek/learnpulse/internal/pipeline"
	"github.com/abhisek/learnpulse/internal/server"
	"github.com/abhisek/learnpulse/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP prediction service",
	Long: "Serves POST /v1/predict, GET /healthz and GET /metrics. Configuration\n" +
		"comes from LEARNPULSE_-prefixed env vars and an optional YAML file\n" +
		"pointed at by LEARNPULSE_CONFIG.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger, err := buildLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		dbPath := cfg.DBPath
		if dbPath == "" {
			dbPath, err = resolveDBPath(cmd)
			if err != nil {
				return err
			}
		} else if err := store.EnsureDir(dbPath); err != nil {
			return err
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		metrics := server.NewMetrics()

		var p *pipeline.Pipeline
		artifacts, err := st.ArtifactRepo().Latest(cmd.Context())
		switch {
		case err == nil:
			resolver := serveResolver(cmd, cfg, st, metrics, logger)
			p, err = pipeline.New(artifacts, resolver)
			if err != nil {
				return err
			}
			logger.Info("model artifacts loaded",
				zap.Int("k", artifacts.K),
				zap.Strings("features", artifacts.FeatureNames))
		case errors.Is(err, store.ErrNoArtifacts):
			logger.Warn("no model artifacts stored; /v1/predict will answer 503 until trained")
		default:
			return fmt.Errorf("load artifacts: %w", err)
		}

		srv := server.New(logger, p, metrics)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx, cfg.Addr, cfg.ShutdownGrace)
	},
}

// serveResolver wires the LLM narrator from config or discovered API keys,
// logging narrative requests to the store and counting fallbacks.
func serveResolver(cmd *cobra.Command, cfg *config.Config, st *store.Store, metrics *server.Metrics, logger *zap.Logger) *insight.Resolver {
	opts := []insight.ResolverOption{
		insight.WithTimeout(cfg.NarrativeTimeout),
		insight.WithFallbackHook(metrics.CountNarrativeFallback),
	}

	ncfg := narrative.ConfigFromEnv()
	if cfg.NarrativeProvider != "" {
		ncfg.Provider = cfg.NarrativeProvider
	}
	if err := ncfg.Validate(); err != nil {
		discovered, ok := narrative.DiscoverConfig()
		if !ok {
			logger.Info("no narrative provider configured, using fallback messages")
			return insight.NewResolver(nil, opts...)
		}
		ncfg = discovered
	}

	provider, err := narrative.NewProvider(cmd.Context(), ncfg, st.NarrativeLog())
	if err != nil {
		logger.Warn("narrative provider unavailable, using fallback messages", zap.Error(err))
		return insight.NewResolver(nil, opts...)
	}

	logger.Info("narrative provider ready",
		zap.String("provider", ncfg.Provider),
		zap.String("model", provider.ModelID()))
	return insight.NewResolver(narrative.NewNarrator(provider), opts...)
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
