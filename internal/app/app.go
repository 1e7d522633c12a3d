package app

import (
	"context"
	"fmt"
	"net/http"

	"answerdb/internal/retention"
	"answerdb/pkg/config"
	"answerdb/pkg/engine"
	"answerdb/pkg/provider"
	"answerdb/pkg/store"
	"answerdb/pkg/validation"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	eng *engine.Engine
	srv *http.Server
}

// New initializes resources that do not require a running context (DB,
// validation rules, engine). It does not start the HTTP server or the
// retention runner; call Run to start those and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	initValidation(eff)

	if err := store.Open(eff.DBPath); err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
	}

	p := provider.NewChatClient(provider.Config{
		Endpoint:       eff.Config.Provider.Endpoint,
		Model:          eff.Config.Provider.Model,
		APIKeyEnv:      eff.Config.Provider.APIKeyEnv,
		MaxTokens:      eff.Config.Provider.MaxTokens,
		TimeoutSeconds: eff.Config.Provider.TimeoutSeconds,
	})
	eng := engine.New(engine.Config{
		PromoteThreshold: eff.Config.Cache.PromoteThreshold,
		TopLimit:         eff.Config.Cache.TopLimit,
		ContextMessages:  eff.Config.Cache.ContextMessages,
	}, p)

	return &App{eff: eff, version: version, commit: commit, buildDate: buildDate, eng: eng}, nil
}

// Run starts the retention runner (if enabled) and the HTTP server, and
// blocks until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	stopRetention, err := retention.Start(ctx, a.eff)
	if err != nil {
		return err
	}
	defer stopRetention()

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		return a.stop()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// stop shuts the HTTP server down gracefully and closes the store.
func (a *App) stop() error {
	if a.srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = a.srv.Shutdown(sctx)
	}
	return store.Close()
}

// initValidation installs the payload bounds from config.
func initValidation(eff config.EffectiveConfigResult) {
	maxAnswer, _ := eff.Config.Validate.MaxAnswerBytes()
	validation.SetRules(validation.Rules{
		MaxQueryLen:   eff.Config.Validate.MaxQueryLen,
		MaxAnswerLen:  maxAnswer,
		MaxSessionLen: eff.Config.Validate.MaxSessionLen,
	})
}
