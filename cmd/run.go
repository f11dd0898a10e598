package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abhisek/langdrill/internal/app"
	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/config"
	"github.com/abhisek/langdrill/internal/evaluate"
	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/fixture"
	"github.com/abhisek/langdrill/internal/journal"
	"github.com/abhisek/langdrill/internal/llm"
	"github.com/abhisek/langdrill/internal/logger"
	"github.com/abhisek/langdrill/internal/progress"
	"github.com/abhisek/langdrill/internal/screens/home"
	"github.com/abhisek/langdrill/internal/screens/practice"
	"github.com/abhisek/langdrill/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// environment holds everything a practice run needs. close releases it
// in reverse order of construction.
type environment struct {
	cfg       config.Config
	log       *logger.Logger
	store     *store.Store
	registry  *exercise.Registry
	catalog   *fixture.Catalog
	tracker   *progress.Tracker
	evaluator evaluate.Evaluator
	journal   *journal.Journal

	closers []io.Closer
}

func (e *environment) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			e.log.Warn("close failed", "error", err)
		}
	}
	e.log.Sync()
}

// buildEnv opens the store and loads fixtures, progress and the evaluator.
// Missing optional services (LLM provider, transcriber, Redis) are reported
// on stderr and left out.
func buildEnv(cmd *cobra.Command, logToFile bool) (*environment, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, cfg, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, logToFile)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init logger: %w", err)
	}
	env := &environment{cfg: cfg, log: log, store: st, closers: []io.Closer{st}}

	if err := env.load(ctx); err != nil {
		env.close()
		return nil, err
	}
	return env, nil
}

func (e *environment) load(ctx context.Context) error {
	reg, err := exercise.Builtin()
	if err != nil {
		return fmt.Errorf("load exercise kinds: %w", err)
	}
	e.registry = reg

	cat, err := loadCatalog(reg, e.cfg.FixturesDir)
	if cat == nil {
		return err
	}
	for _, pe := range fixture.ParseErrors(err) {
		e.log.Warn("skipped fixture record", "kind", pe.Kind, "id", pe.ID, "error", pe.Reason)
	}
	e.catalog = cat

	tracker, closer, err := newTracker(ctx, e.cfg.Progress, e.store, e.log)
	if err != nil {
		return err
	}
	if closer != nil {
		e.closers = append(e.closers, closer)
	}
	e.tracker = tracker

	deps := evaluate.Deps{Logger: e.log}
	if e.cfg.Evaluator.Mode == "llm" {
		resolved, err := llmConfig(e.cfg.LLM).Resolve(os.Getenv)
		if err == nil {
			deps.Provider, err = llm.NewProvider(ctx, resolved, e.store.EventRepo(), e.log)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Open responses will not be scored.")
		} else {
			e.log.Info("llm provider ready", "provider", resolved.Provider, "model", resolved.Model)
		}
		if resolved.Provider == "openai" {
			deps.OpenAIKey, deps.OpenAIBaseURL = resolved.APIKey, resolved.BaseURL
		}
	}
	if e.cfg.Evaluator.Mode != "llm" || deps.Provider != nil {
		ev, closer, err := evaluate.New(ctx, e.cfg.Evaluator, deps)
		if err != nil {
			return fmt.Errorf("init evaluator: %w", err)
		}
		e.evaluator = ev
		e.closers = append(e.closers, closer)
	}

	e.journal = &journal.Journal{
		Tracker:   e.tracker,
		Events:    e.store.EventRepo(),
		SessionID: uuid.New().String(),
		Log:       e.log,
	}
	return nil
}

// llmConfig maps the llm config section onto a provider config. Backoff
// timings keep the provider defaults.
func llmConfig(c config.LLMConfig) llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.Provider
	cfg.Model = c.Model
	cfg.APIKey = c.APIKey
	cfg.BaseURL = c.BaseURL
	cfg.Retry.MaxAttempts = c.MaxAttempts
	cfg.Retry.Timeout = c.Timeout
	return cfg
}

// loadCatalog returns a nil catalog only when nothing could be loaded.
func loadCatalog(reg *exercise.Registry, dir string) (*fixture.Catalog, error) {
	if dir == "" {
		return fixture.LoadEmbedded(reg)
	}
	cat, err := fixture.LoadDir(reg, dir)
	if cat == nil {
		return nil, fmt.Errorf("load fixtures: %w", err)
	}
	return cat, err
}

// newTracker builds a progress tracker on the configured backend. The
// closer is nil for the SQLite backend, which the store owns.
func newTracker(ctx context.Context, cfg config.ProgressConfig, st *store.Store, log *logger.Logger) (*progress.Tracker, io.Closer, error) {
	if cfg.Backend != "redis" {
		return progress.NewTracker(st.ProgressRepo(), log), nil, nil
	}
	rb, err := progress.NewRedisBlobs(ctx, progress.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect progress store: %w", err)
	}
	return progress.NewTracker(rb, log), rb, nil
}

// practiceEnv wires the environment into the practice screens.
func (e *environment) practiceEnv() practice.Env {
	return practice.Env{
		Catalog:   e.catalog,
		Evaluator: e.evaluator,
		Player:    capture.DetectPlayer(e.log),
		Journal:   e.journal,
		Logger:    e.log,
		NewRecorder: func() capture.Recorder {
			return capture.NewCommandRecorder(e.log)
		},
	}
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	env, err := buildEnv(cmd, true)
	if err != nil {
		return err
	}
	defer env.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	all, err := env.tracker.All(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		env.log.Warn("load progress", "error", err)
	}

	return app.Run(app.Options{
		Home: home.Deps{
			Practice: env.practiceEnv(),
			Tracker:  env.tracker,
			Events:   env.store.EventRepo(),
		},
		Logger:       env.log,
		Version:      version,
		CheckUpdates: version != "(devel)",
		FirstRun:     err == nil && len(all) == 0,
	})
}
