// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/personas/internal/aggregate"
	"github.com/pdiddy/personas/internal/kv"
	"github.com/pdiddy/personas/internal/logger"
	"github.com/pdiddy/personas/internal/metrics"
	"github.com/pdiddy/personas/internal/results"
	"github.com/pdiddy/personas/internal/secrets"
	"github.com/pdiddy/personas/internal/source"
	"github.com/pdiddy/personas/pkg/types"
)

// app holds the wired components for one command run.
type app struct {
	cfg    types.Config
	logger *zap.Logger
	store  kv.Store
	reg    *prometheus.Registry
	rec    *metrics.Recorder
	svc    *aggregate.Service
}

// loadConfig decodes the viper settings into types.Config.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// newApp opens storage and wires the catalog and result store. Sources are
// not loaded; call loadSources when a command needs them.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Driver == types.StorageRedis {
		cfg.Storage.RedisPassword, err = secrets.Resolve(cfg.Storage.RedisPassword, cfg.Storage.SecretsDir, secrets.RedisPassword, log)
		if err != nil {
			return nil, err
		}
	}

	store, err := kv.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	client := &http.Client{Timeout: cfg.Sources.Timeout}
	catalog := aggregate.NewCatalog(log, rec,
		&source.LocalLoader{Store: store, Key: cfg.Storage.PersonasKey},
		&source.JSONLoader{Client: client, URL: cfg.Sources.JSONURL(), UserAgent: cfg.Sources.UserAgent},
		&source.XMLLoader{Client: client, URL: cfg.Sources.XMLURL(), UserAgent: cfg.Sources.UserAgent},
	)
	resultStore := results.NewStore(store, cfg.Storage.ResultsKey, log, results.WithObserver(rec))

	a := &app{
		cfg:    cfg,
		logger: log,
		store:  store,
		reg:    reg,
		rec:    rec,
		svc:    aggregate.NewService(catalog, resultStore, rec, log),
	}

	if _, err := resultStore.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// loadSources loads all three sets.
func (a *app) loadSources(ctx context.Context) {
	a.svc.Catalog().Load(ctx)
}

// Close releases storage and flushes the logger.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}
