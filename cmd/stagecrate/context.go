package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"stagecrate/internal/catalog"
	"stagecrate/internal/config"
	"stagecrate/internal/logging"
	"stagecrate/internal/scene"
	"stagecrate/internal/usdc"
)

// commandContext carries lazily loaded configuration and the per-run
// session id shared by every command.
type commandContext struct {
	configFlag *string
	sessionID  string

	cfg    *config.Config
	logger *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		sessionID:  uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	c.logger = logger.With(slog.String("session", c.sessionID))
	return c.logger, nil
}

// decodeResult is one fully decoded file plus its bookkeeping.
type decodeResult struct {
	Stage       scene.Stage
	Reader      *usdc.Reader
	FileSize    int64
	Fingerprint string
	Duration    time.Duration
}

// decodeFile reads, decodes, and reconstructs one Crate file, then records
// the run in the catalog when enabled.
func (c *commandContext) decodeFile(path string) (*decodeResult, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	logger = logging.WithComponent(logger, "decode")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	reader := usdc.NewReader(data, usdc.Config{
		NumThreads:         cfg.Decoder.NumThreads,
		MaxFieldValuePairs: cfg.Decoder.MaxFieldValuePairs,
		MaxElementSize:     cfg.Decoder.MaxElementSize,
		MaxPrimNestLevel:   cfg.Decoder.MaxPrimNestLevel,
	})

	result := &decodeResult{
		Reader:      reader,
		FileSize:    int64(len(data)),
		Fingerprint: fmt.Sprintf("%x", sha256.Sum256(data))[:16],
	}

	start := time.Now()
	decodeErr := reader.ReadCrate()
	if decodeErr == nil {
		decodeErr = reader.ReconstructStage(&result.Stage)
	}
	result.Duration = time.Since(start)

	if warning := reader.Warning(); warning != "" {
		logger.Warn("decoder warnings", slog.String("file", path), slog.String("detail", warning))
	}

	c.recordDecode(path, result, decodeErr == nil)

	if decodeErr != nil {
		logger.Error("decode failed", slog.String("file", path), slog.String("error", reader.Error()))
		return nil, fmt.Errorf("decode %s: %w", path, decodeErr)
	}

	logger.Info("decoded stage",
		slog.String("file", path),
		slog.Int("prims", result.Stage.PrimCount()),
		slog.Duration("elapsed", result.Duration))
	return result, nil
}

func (c *commandContext) recordDecode(path string, result *decodeResult, succeeded bool) {
	cfg := c.cfg
	if cfg == nil || !cfg.Catalog.Enabled {
		return
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return
	}

	store, err := catalog.Open(cfg.Catalog.Path, logger)
	if err != nil {
		logger.Warn("catalog unavailable", slog.String("error", err.Error()))
		return
	}
	defer store.Close()

	warningCount := 0
	if w := result.Reader.Warning(); w != "" {
		for _, ch := range w {
			if ch == '\n' {
				warningCount++
			}
		}
	}

	entry := catalog.Entry{
		SessionID:    c.sessionID,
		FilePath:     path,
		FileSize:     result.FileSize,
		Fingerprint:  result.Fingerprint,
		PrimCount:    result.Stage.PrimCount(),
		SpecCount:    result.Reader.SpecCount(),
		WarningCount: warningCount,
		Succeeded:    succeeded,
		Duration:     result.Duration,
	}
	if _, err := store.Record(context.Background(), entry); err != nil {
		logger.Warn("failed to record decode", slog.String("error", err.Error()))
	}
}
