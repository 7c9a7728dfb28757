package container

import (
	"net/http"

	"go-fingerprint-service/internal/config"
	"go-fingerprint-service/internal/matching"
	"go-fingerprint-service/internal/processor"
	"go-fingerprint-service/internal/storage"
	"go-fingerprint-service/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config    *config.Config
	fetcher   storage.ImageFetcher
	processor *processor.Processor
	engine    *matching.Engine
	handler   http.Handler
}

// NewContainer builds the dependency graph from a loaded configuration
func NewContainer(cfg *config.Config) (*Container, error) {
	fetcher := storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout)
	proc := processor.New(cfg)
	engine := matching.NewEngine(matching.Config{
		MatchThreshold:       cfg.MatchThreshold,
		MaxDistanceThreshold: cfg.MaxDistanceThreshold,
		OrientationTolerance: cfg.OrientationTolerance,
	})
	handler := transport.NewHandler(proc, engine, fetcher, cfg)

	return &Container{
		config:    cfg,
		fetcher:   fetcher,
		processor: proc,
		engine:    engine,
		handler:   handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases resources held by the container
func (c *Container) Close() {
	c.engine.Close()
}
