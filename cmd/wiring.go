// File: cmd/wiring.go
package cmd

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/internal/analysis"
	"github.com/xkilldash9x/trackscope-cli/internal/browser"
	"github.com/xkilldash9x/trackscope-cli/internal/capture"
	"github.com/xkilldash9x/trackscope-cli/internal/config"
	"github.com/xkilldash9x/trackscope-cli/internal/investigator"
	"github.com/xkilldash9x/trackscope-cli/internal/llmclient"
	"github.com/xkilldash9x/trackscope-cli/internal/store"
)

// components holds the wired application graph for one command invocation.
type components struct {
	investigator *investigator.Investigator
	history      *store.Store // nil without a database URL
	pool         *pgxpool.Pool
}

func (c *components) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// buildComponents wires the investigator and its collaborators from config.
// The database is optional; the hosted-model client is required and its
// absence surfaces later as a stream error, not here.
func buildComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*components, error) {
	deps := investigator.Deps{
		NewSession: func() investigator.Session {
			return browser.NewSession(cfg, logger, capture.NewStore(cfg.Browser.MaxNetworkRequests))
		},
	}

	if cfg.LLM.Configured() {
		client, err := llmclient.NewGeminiClient(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize model client: %w", err)
		}
		deps.Detector = analysis.NewOverlayDetector(client, logger)
		deps.Extractor = analysis.NewConsentExtractor(client, logger)
		deps.Scripts = analysis.NewScriptClassifier(client, logger)
		deps.Reports = analysis.NewNarrativeGenerator(client, logger)
	}

	c := &components{}
	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		history, err := store.New(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to investigation history: %w", err)
		}
		if err := history.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to prepare investigation history: %w", err)
		}
		c.pool = pool
		c.history = history
		deps.History = history
		logger.Info("Investigation history enabled.")
	} else {
		logger.Debug("No database URL configured; history persistence disabled.")
	}

	c.investigator = investigator.New(cfg, deps, logger)
	return c, nil
}
