package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"speakcoach/evaluator/config"
	"speakcoach/evaluator/internal/db"
	"speakcoach/evaluator/internal/evaluation"
	"speakcoach/evaluator/internal/scoring"
)

// app is everything a command needs once configuration is loaded.
type app struct {
	cfg      config.Config
	log      *logrus.Logger
	store    db.Store
	pipeline *evaluation.Orchestrator
	closers  []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.WithError(err).Warn("close failed")
		}
	}
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	log, err := config.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	a.store, err = a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	scorer, err := newScorer(ctx, cfg.Scoring)
	if err != nil {
		a.Close()
		return nil, err
	}

	entry := logrus.NewEntry(log)
	a.pipeline = evaluation.NewOrchestrator(evaluation.OrchestratorDeps{
		Store:     a.store,
		Segmenter: evaluation.NewSegmenter(scorer, entry.WithField("stage", "segment")),
		Voice:     evaluation.NewVoiceMetricsEvaluator(scorer, entry.WithField("stage", "voice")),
		Topics:    evaluation.NewTopicAnalyzer(scorer, entry.WithField("stage", "topics")),
		Logger:    entry.WithField("component", "orchestrator"),
	})
	log.WithFields(logrus.Fields{
		"store":    cfg.Store.Driver,
		"provider": cfg.Scoring.Provider,
		"model":    cfg.Scoring.Model,
	}).Info("evaluator configured")
	return a, nil
}

func (a *app) openStore(ctx context.Context) (db.Store, error) {
	entry := logrus.NewEntry(a.log).WithField("component", "store")
	switch a.cfg.Store.Driver {
	case config.StoreSupabase:
		client, err := config.NewSupabaseClient(a.cfg.Supabase)
		if err != nil {
			return nil, err
		}
		return db.NewPostgrestStore(client, a.cfg.Store.Table, entry), nil
	case config.StorePostgres:
		conn, err := db.OpenPostgres(ctx, a.cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)
		store := db.NewPostgresStore(conn, a.cfg.Store.Table)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreBadger:
		store, err := db.OpenBadgerStore(db.BadgerOptions{Dir: a.cfg.Store.BadgerDir, Logger: entry})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
}

func newScorer(ctx context.Context, cfg config.ScoringConfig) (scoring.Scorer, error) {
	var s scoring.Scorer
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := scoring.NewGeminiScorer(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		s = g
	case config.ProviderOpenAI:
		s = scoring.NewOpenAIScorer(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown scoring provider %q", cfg.Provider)
	}
	return scoring.WithTimeout(s, cfg.Timeout), nil
}
