package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sant0-9/expair/internal/command"
	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/editor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type expandOptions struct {
	lang    string
	file    string
	lines   string
	policy  string
	inPlace bool
}

func newExpandCmd(c *cli) *cobra.Command {
	opts := &expandOptions{}
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Expand abbreviated text from a file or stdin",
		Long: `Expands the selected text with the command of one language and prints
the result.

The selection is the whole input, or the lines given with --lines. With
--in-place the file is rewritten instead.

Examples:
  echo "w abbrevs" | expair expand --lang English --policy never
  expair expand --file notes.md --lines 3-5 --in-place`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExpand(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "Language of the command to run (default: first configured)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read from file instead of stdin")
	cmd.Flags().StringVar(&opts.lines, "lines", "", "Select lines N or N-M (1-based, inclusive)")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "Preserve original text: always, never or ask (default: from config)")
	cmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "Rewrite the file instead of printing")

	return cmd
}

func (c *cli) runExpand(cmd *cobra.Command, opts *expandOptions) error {
	if opts.inPlace && opts.file == "" {
		return errors.New("--in-place requires --file")
	}

	e, err := c.loadEnv()
	if err != nil {
		return err
	}

	policy := e.cfg.PreserveOriginal
	if opts.policy != "" {
		if policy, err = config.ParsePreserveOriginal(opts.policy); err != nil {
			return err
		}
	}
	if policy == config.PreserveAsk && opts.file == "" {
		return errors.New("preserve_original is ask but stdin holds the text; pass --file or --policy always|never")
	}

	commands, err := c.commands(e)
	if err != nil {
		return err
	}
	target, err := pickCommand(commands, opts.lang)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, opts.file)
	if err != nil {
		return err
	}
	buf := editor.NewBuffer(text)
	if opts.lines != "" {
		from, to, err := editor.ParseLineRange(opts.lines)
		if err != nil {
			return err
		}
		if err := buf.SelectLines(from, to); err != nil {
			return err
		}
	}

	c.logger.Debug("expanding",
		zap.String("command", target.ID),
		zap.String("policy", string(policy)),
		zap.Int("selection_bytes", len(buf.Selection())))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &command.Runner{
		Notifier:  &streamNotifier{w: cmd.ErrOrStderr()},
		Confirmer: &promptConfirmer{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()},
		Policy:    policy,
		Logger:    c.logger,
	}
	if err := <-runner.Go(ctx, target, buf); err != nil {
		return fmt.Errorf("%s: %w", target.ID, err)
	}

	if opts.inPlace {
		return writeFile(opts.file, buf.String())
	}
	_, err = io.WriteString(cmd.OutOrStdout(), buf.String())
	return err
}

// pickCommand finds the command for lang, or the first one when lang is empty
func pickCommand(commands []*command.Command, lang string) (*command.Command, error) {
	if lang == "" {
		return commands[0], nil
	}
	if c := command.Find(commands, lang); c != nil {
		return c, nil
	}
	langs := make([]string, 0, len(commands))
	for _, c := range commands {
		langs = append(langs, c.Lang)
	}
	return nil, fmt.Errorf("no tuning examples for %q (available: %s)", lang, strings.Join(langs, ", "))
}

func readInput(cmd *cobra.Command, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// writeFile replaces the content of path, keeping its mode
func writeFile(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(content), mode)
}

// streamNotifier prints notices as lines on w
type streamNotifier struct {
	w io.Writer
}

type noticeFunc func()

func (f noticeFunc) Hide() { f() }

func (n *streamNotifier) Notify(msg string, d time.Duration) command.Notice {
	fmt.Fprintln(n.w, msg)
	return noticeFunc(func() {})
}

// promptConfirmer asks on out and reads a y/n line from in. End of input
// answers no.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *promptConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s [y/N] ", question)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
