package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sant0-9/expair/internal/renderer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRenderCmd(c *cli) *cobra.Command {
	var inPlace bool
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Expand the expair code blocks of a markdown file",
		Long: "Replaces every ```expair block with a callout holding its expansion.\n" +
			"A language after the fence (```expair Spanish) picks the tuning\n" +
			"examples; blocks without one use the first configured language.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], inPlace)
		},
	}
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Rewrite the file instead of printing")
	return cmd
}

func (c *cli) runRender(cmd *cobra.Command, path string, inPlace bool) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}
	commands, err := c.commands(e)
	if err != nil {
		return err
	}

	expanders := make(map[string]renderer.Expander, len(commands))
	for _, command := range commands {
		expanders[command.Lang] = command.Expander()
	}
	r := renderer.New(expanders, commands[0].Lang, c.logger)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, blocks, err := r.Render(ctx, string(data))
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	c.logger.Info("rendered", zap.String("file", path), zap.Int("blocks", blocks))

	if inPlace {
		if blocks == 0 {
			return nil
		}
		return writeFile(path, out)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}
