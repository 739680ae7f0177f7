package main

import (
	"context"
	"errors"

	"turnavg/internal/config"
	"turnavg/internal/logging"
	"turnavg/internal/prompt"
	"turnavg/internal/record"

	"go.uber.org/zap"
)

// promptAndRecord asks for a value, then adds it to the stored record.
// Nothing is written when the prompt is cancelled or the answer is invalid.
func promptAndRecord(ctx context.Context, store *record.Store) (record.Record, error) {
	log := logging.For(logger, logging.CategoryPrompt)

	p, err := newPrompter()
	if err != nil {
		return record.Record{}, err
	}

	askCtx := ctx
	if timeout := cfg.PromptTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		askCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	v, err := prompt.AskValue(askCtx, p, prompt.RequestFromConfig(cfg.Prompt))
	if err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			log.Info("prompt cancelled, nothing recorded")
		}
		return record.Record{}, err
	}

	rec, err := store.Record(ctx, v)
	if err != nil {
		return record.Record{}, err
	}

	logging.For(logger, logging.CategoryStore).Info("value recorded",
		zap.Int64("value", v),
		zap.Int64("amount", rec.Amount),
		zap.Int64("total", rec.Total),
		zap.String("path", store.Path()))
	return rec, nil
}

func newPrompter() (prompt.Prompter, error) {
	if cfg.Prompt.Backend == config.BackendStatic {
		return prompt.Static(value), nil
	}
	return prompt.New(cfg.Prompt, logging.For(logger, logging.CategoryPrompt))
}
