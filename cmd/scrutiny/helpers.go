package main

import (
	"context"
	"fmt"
	"log/slog"

	"scrutiny/internal/align"
	"scrutiny/internal/auditor"
	"scrutiny/internal/config"
	"scrutiny/internal/history"
	"scrutiny/internal/media"
	"scrutiny/internal/notifications"
	"scrutiny/internal/pipeline"
	"scrutiny/internal/policy"
	"scrutiny/internal/services/diarize"
	"scrutiny/internal/services/embed"
	"scrutiny/internal/services/whisperx"
)

func newEmbedClient(cfg *config.Config) *embed.Client {
	return embed.NewClient(embed.Config{
		APIKey:         cfg.Embedding.APIKey,
		BaseURL:        cfg.Embedding.BaseURL,
		Model:          cfg.Embedding.Model,
		TimeoutSeconds: cfg.Embedding.TimeoutSeconds,
	})
}

func openPolicyIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*policy.Index, error) {
	return policy.Open(ctx, policy.Options{
		DocumentPath: cfg.Policy.DocumentPath,
		IndexPath:    cfg.Policy.IndexPath,
		ChunkSize:    cfg.Policy.ChunkSize,
		ChunkOverlap: cfg.Policy.ChunkOverlap,
	}, newEmbedClient(cfg), logger)
}

func newAligner(cfg *config.Config, logger *slog.Logger) *align.Aligner {
	transcriber := whisperx.NewService(whisperx.Config{
		Model:       cfg.WhisperX.Model,
		CUDAEnabled: cfg.WhisperX.CUDAEnabled,
		VADMethod:   cfg.WhisperX.VADMethod,
		HFToken:     cfg.WhisperX.HFToken,
	})
	diarizer := diarize.NewService(diarize.Config{
		Model:       cfg.Diarizer.Model,
		CUDAEnabled: cfg.WhisperX.CUDAEnabled,
	})
	resampler := media.NewResampler(cfg.FFmpegBinary(), cfg.Diarizer.TargetSampleRate)
	return align.New(transcriber, diarizer, resampler, logger)
}

func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, *history.Store, error) {
	index, err := openPolicyIndex(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}

	audClient := auditor.NewClient(auditor.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	p := pipeline.New(
		cfg,
		newAligner(cfg, logger),
		index,
		audClient,
		store,
		notifications.NewService(cfg),
		logger,
	)
	return p, store, nil
}

func formatScore(score *float64) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f/100", *score)
}
