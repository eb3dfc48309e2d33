package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"tripplan/pkg/utils"
)

type ModelGatewayInterface interface {
	// Generate sends one prompt and returns the raw reply text.
	Generate(ctx context.Context, prompt string, maxOutputTokens int, temperature float32) (string, error)
	// Repair asks the model to fix malformed JSON. It returns "" when the reply still
	// holds no JSON object.
	Repair(ctx context.Context, broken string) (string, error)
}

type GatewayConfig struct {
	Timeout         time.Duration
	RepairTimeout   time.Duration
	MaxOutputTokens int
}

type ModelGateway struct {
	generator utils.TextGenerator
	builder   *PromptBuilder
	cfg       GatewayConfig
	logger    *zap.Logger
}

func NewModelGateway(generator utils.TextGenerator, builder *PromptBuilder, cfg GatewayConfig, logger *zap.Logger) ModelGatewayInterface {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RepairTimeout <= 0 {
		cfg.RepairTimeout = 30 * time.Second
	}
	return &ModelGateway{
		generator: generator,
		builder:   builder,
		cfg:       cfg,
		logger:    logger,
	}
}

func (g *ModelGateway) Generate(ctx context.Context, prompt string, maxOutputTokens int, temperature float32) (string, error) {
	return g.call(ctx, g.cfg.Timeout, prompt, utils.GenerateOptions{
		MaxOutputTokens: maxOutputTokens,
		Temperature:     temperature,
		JSONOutput:      true,
	})
}

func (g *ModelGateway) Repair(ctx context.Context, broken string) (string, error) {
	out, err := g.call(ctx, g.cfg.RepairTimeout, g.builder.BuildRepairPrompt(broken), utils.GenerateOptions{
		MaxOutputTokens: g.cfg.MaxOutputTokens,
		Temperature:     0,
		JSONOutput:      true,
	})
	if err != nil {
		return "", err
	}
	if !utils.HasJSONObject(out) {
		g.logger.Warn("repair reply holds no JSON object")
		return "", nil
	}
	return utils.ExtractJSON(out), nil
}

func (g *ModelGateway) call(ctx context.Context, timeout time.Duration, prompt string, opts utils.GenerateOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := g.generator.GenerateText(ctx, prompt, opts)
	if err != nil {
		if !errors.Is(err, utils.ErrExternalService) {
			err = fmt.Errorf("%w: %v", utils.ErrExternalService, err)
		}
		return "", err
	}

	g.logger.Debug("model call finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("reply_chars", len(out)))
	return out, nil
}
