package prompt

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestDialog_Command(t *testing.T) {
	d, err := NewDialog([]string{"zenity", "--entry", "--title", "{title}", "--text", "{text}"}, nil)
	require.NoError(t, err)

	got := d.Command(Request{Title: "Dialog", Text: "How many turns did it take:"})
	assert.Equal(t, []string{"zenity", "--entry", "--title", "Dialog", "--text", "How many turns did it take:"}, got)
}

func TestDialog_Answer(t *testing.T) {
	requireShell(t)

	d, err := NewDialog([]string{"sh", "-c", "echo ' 7 '"}, nil)
	require.NoError(t, err)

	v, err := AskValue(context.Background(), d, Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestDialog_SubstitutesArguments(t *testing.T) {
	requireShell(t)

	d, err := NewDialog([]string{"sh", "-c", `printf '%s' "$0"`, "{title}"}, nil)
	require.NoError(t, err)

	got, err := d.Ask(context.Background(), Request{Title: "Turns"})
	require.NoError(t, err)
	assert.Equal(t, "Turns", got)
}

func TestDialog_Cancel(t *testing.T) {
	requireShell(t)

	d, err := NewDialog([]string{"sh", "-c", "exit 1"}, nil)
	require.NoError(t, err)

	_, err = d.Ask(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestDialog_Failure(t *testing.T) {
	requireShell(t)

	d, err := NewDialog([]string{"sh", "-c", "echo broken >&2; exit 5"}, nil)
	require.NoError(t, err)

	_, err = d.Ask(context.Background(), Request{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCancelled)
	assert.Contains(t, err.Error(), "broken")
}

func TestDialog_Timeout(t *testing.T) {
	requireShell(t)

	d, err := NewDialog([]string{"sh", "-c", "exec sleep 5"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = d.Ask(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewDialog_Empty(t *testing.T) {
	_, err := NewDialog(nil, nil)
	assert.Error(t, err)

	_, err = NewDialog([]string{""}, nil)
	assert.Error(t, err)
}
