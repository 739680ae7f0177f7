package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Dialog runs an external desktop dialog (zenity, kdialog, rofi -dmenu ...)
// and reads the answer from its stdout.
type Dialog struct {
	argv   []string
	logger *zap.Logger
}

// NewDialog returns a Dialog for argv. {title} and {text} are substituted per argument.
func NewDialog(argv []string, logger *zap.Logger) (*Dialog, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("dialog command is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dialog{argv: argv, logger: logger}, nil
}

// Command returns the argv that would run for req.
func (d *Dialog) Command(req Request) []string {
	r := strings.NewReplacer("{title}", req.Title, "{text}", req.Text)
	out := make([]string, len(d.argv))
	for i, arg := range d.argv {
		out[i] = r.Replace(arg)
	}
	return out
}

// Ask runs the dialog. Exit status 1 is how zenity and kdialog report Cancel.
func (d *Dialog) Ask(ctx context.Context, req Request) (string, error) {
	argv := d.Command(req)
	d.logger.Debug("running dialog", zap.Strings("argv", argv))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("dialog %s: %w (stderr: %s)", argv[0], err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}
