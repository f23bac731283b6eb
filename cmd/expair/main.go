package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/logging"
	"github.com/sant0-9/expair/internal/secrets"
	"github.com/sant0-9/expair/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// cli holds the global flags and what is derived from them
type cli struct {
	verbose    bool
	configFile string
	logger     *zap.Logger

	// openSecrets connects to the keyring; replaced in tests
	openSecrets func() (config.Secrets, error)
}

func newCLI() *cli {
	return &cli{
		logger: zap.NewNop(),
		openSecrets: func() (config.Secrets, error) {
			store, err := secrets.Open()
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "expair",
		Short: "Expand abbreviated notes with AI",
		Long: `expair rewrites abbreviated notes as full text using an OpenAI chat model.

Tuning examples (pairs of abbreviated and expanded text) are grouped by
language; each language gets its own expansion command, tuned only with the
examples of that language.

Run without arguments to start the interactive editor.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}

			path, err := c.configPath()
			if err != nil {
				return err
			}

			// The editor owns the terminal, so it logs to a file
			logPath := ""
			if cmd == cmd.Root() {
				logPath = logging.FilePath(path)
			}
			logger, err := logging.New(c.verbose, logPath)
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEditor()
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "Config file (default: $EXPAIR_CONFIG or ~/.config/expair/config.yaml)")

	root.AddCommand(newExpandCmd(c))
	root.AddCommand(newRenderCmd(c))
	root.AddCommand(newExamplesCmd(c))
	root.AddCommand(newConfigCmd(c))

	return root
}

func main() {
	if err := newRootCmd(newCLI()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (c *cli) runEditor() error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.Options{
		Config:     e.cfg,
		ConfigPath: e.path,
		NeedsSetup: !e.existed,
		Secrets:    e.secrets,
		Logger:     c.logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}
