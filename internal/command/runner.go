package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/expander"
	"go.uber.org/zap"
)

// NoticeDuration is how long alerts stay visible
const NoticeDuration = 5 * time.Second

// User-facing notices
const (
	MsgSelectText   = "Select the text to expand first"
	MsgExpanding    = "Expanding text with AI..."
	MsgNoResults    = "AI didn't return any results!"
	MsgKeepOriginal = "Keep the original text above its expansion?"
)

var ErrNoConfirmer = errors.New("preserve_original is ask but nothing can answer the prompt")

// ErrorMessage is the alert shown when an expansion fails
func ErrorMessage(err error) string {
	return fmt.Sprintf("Expanding text error!\n%s", err.Error())
}

// ReportFailure logs a failed expansion and returns the alert to show for it.
// An empty response gets its own alert.
func ReportFailure(logger *zap.Logger, err error) string {
	if errors.Is(err, expander.ErrNoContent) {
		logger.Warn("empty response")
		return MsgNoResults
	}
	logger.Error("expansion failed", zap.Error(err))
	return ErrorMessage(err)
}

// Notice is a visible message that can be dismissed
type Notice interface {
	Hide()
}

// Notifier shows notices. A zero duration keeps the notice until hidden.
type Notifier interface {
	Notify(msg string, d time.Duration) Notice
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// ResolvePolicy decides whether the original text is kept
func ResolvePolicy(ctx context.Context, policy config.PreserveOriginal, c Confirmer) (bool, error) {
	switch policy {
	case config.PreserveAlways:
		return true, nil
	case config.PreserveNever:
		return false, nil
	default:
		if c == nil {
			return false, ErrNoConfirmer
		}
		return c.Confirm(ctx, MsgKeepOriginal)
	}
}

// Runner invokes commands against an editor and reports the outcome
type Runner struct {
	Notifier  Notifier
	Confirmer Confirmer
	Policy    config.PreserveOriginal
	Logger    *zap.Logger
}

// Run expands the editor selection with cmd. On any failure the editor is
// left untouched.
func (r *Runner) Run(ctx context.Context, cmd *Command, ed Editor) error {
	logger := r.logger().With(zap.String("command", cmd.ID))

	selection := ed.Selection()
	if strings.TrimSpace(selection) == "" {
		r.Notifier.Notify(MsgSelectText, NoticeDuration)
		return ErrEmptySelection
	}

	progress := r.Notifier.Notify(MsgExpanding, 0)
	inv, err := func() (*Invocation, error) {
		defer progress.Hide()
		return cmd.Expand(ctx, selection)
	}()

	if err != nil {
		r.Notifier.Notify(ReportFailure(logger, err), NoticeDuration)
		return err
	}

	keep, err := ResolvePolicy(ctx, r.Policy, r.Confirmer)
	if err != nil {
		logger.Error("preserve original prompt failed", zap.Error(err))
		r.Notifier.Notify(ErrorMessage(err), NoticeDuration)
		return err
	}

	inv.Apply(ed, keep)
	logger.Info("selection expanded", zap.Bool("kept_original", keep))
	return nil
}

// Go runs the command in its own goroutine. The channel receives the result
// of Run and is then closed.
func (r *Runner) Go(ctx context.Context, cmd *Command, ed Editor) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- r.Run(ctx, cmd, ed)
	}()
	return done
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
