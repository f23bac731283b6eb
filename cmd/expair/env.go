package main

import (
	"fmt"

	"github.com/sant0-9/expair/internal/command"
	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/llm"
)

// env is the loaded configuration with its secrets resolved
type env struct {
	path    string
	cfg     *config.Config
	secrets config.Secrets
	existed bool
}

func (c *cli) configPath() (string, error) {
	if c.configFile != "" {
		return c.configFile, nil
	}
	return config.ConfigPath()
}

func (c *cli) loadEnv() (*env, error) {
	path, err := c.configPath()
	if err != nil {
		return nil, err
	}

	cfg, existed, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()

	e := &env{path: path, cfg: cfg, existed: existed}
	if cfg.UseKeyring {
		if e.secrets, err = c.openSecrets(); err != nil {
			return nil, fmt.Errorf("failed to open keyring: %w", err)
		}
		if err := cfg.ResolveSecrets(e.secrets); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *env) save() error {
	if err := e.cfg.Save(e.path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	e.existed = true
	return nil
}

// commands builds the per-language commands
func (c *cli) commands(e *env) ([]*command.Command, error) {
	provider, err := llm.NewProvider(e.cfg)
	if err != nil {
		return nil, err
	}
	commands := command.FromConfig(e.cfg, provider, c.logger)
	if len(commands) == 0 {
		return nil, fmt.Errorf("no tuning examples configured")
	}
	return commands, nil
}
