// Package prompt collects a single integer value from the user.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"turnavg/internal/config"
	"turnavg/internal/record"

	"go.uber.org/zap"
)

var (
	// ErrCancelled is returned when the user dismisses the prompt.
	ErrCancelled = errors.New("prompt cancelled")
	// ErrNotANumber is returned for answers that are not base-10 integers.
	ErrNotANumber = errors.New("not a number")
)

// Request describes what to ask.
type Request struct {
	Title       string
	Text        string
	Placeholder string
}

// RequestFromConfig builds a Request from the prompt config.
func RequestFromConfig(cfg config.PromptConfig) Request {
	return Request{
		Title:       cfg.Title,
		Text:        cfg.Text,
		Placeholder: "0",
	}
}

// Prompter blocks until the user answers or cancels.
type Prompter interface {
	Ask(ctx context.Context, req Request) (string, error)
}

// New returns the prompter for the configured backend.
// The static backend has no answer of its own; use Static instead.
func New(cfg config.PromptConfig, logger *zap.Logger) (Prompter, error) {
	switch cfg.Backend {
	case config.BackendTUI:
		return NewTUI(), nil
	case config.BackendDialog:
		return NewDialog(cfg.DialogCommand, logger)
	case config.BackendStatic:
		return nil, fmt.Errorf("static backend requires a value (use --value)")
	default:
		return nil, fmt.Errorf("unknown prompt backend %q (valid: %v)", cfg.Backend, config.ValidBackends)
	}
}

// ParseValue parses a prompt answer as a non-negative base-10 integer.
func ParseValue(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty answer", ErrNotANumber)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %d", record.ErrNegativeValue, v)
	}
	return v, nil
}

// AskValue asks once and parses the answer.
func AskValue(ctx context.Context, p Prompter, req Request) (int64, error) {
	answer, err := p.Ask(ctx, req)
	if err != nil {
		return 0, err
	}
	return ParseValue(answer)
}

// Static answers every request with a fixed string.
type Static string

// Ask returns the fixed answer.
func (s Static) Ask(ctx context.Context, _ Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(s), nil
}
