package main

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/prompts"
	"github.com/sant0-9/expair/internal/tuning"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change settings",
		Long: `Show and change the settings stored in the config file.

Available subcommands:
  show         - Print the settings (API key masked)
  set          - Change one setting
  set-key      - Store the OpenAI API key
  reset-prompt - Restore the default system or expand text prompt
  models       - List the supported models
  langs        - List the supported languages
  path         - Print the config file location`,
	}

	cmd.AddCommand(newConfigShowCmd(c))
	cmd.AddCommand(newConfigSetCmd(c))
	cmd.AddCommand(newConfigSetKeyCmd(c))
	cmd.AddCommand(newConfigResetPromptCmd(c))
	cmd.AddCommand(&cobra.Command{
		Use:   "models",
		Short: "List the supported models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}
			for _, m := range config.Models {
				current := ""
				if m.ID == e.cfg.OpenAI.Model {
					current = " (current)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s%s\n", m.ID, m.Name, current)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "langs",
		Short: "List the languages an example can be tagged with",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, l := range tuning.SupportedLangs {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return cmd
}

func newConfigShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}

			shown := *e.cfg
			shown.OpenAI.APIKey = e.cfg.MaskedAPIKey()
			data, err := yaml.Marshal(&shown)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// settable lists the keys accepted by config set
var settable = map[string]func(cfg *config.Config, value string) error{
	"model": func(cfg *config.Config, value string) error {
		if config.GetModel(value) == nil {
			return fmt.Errorf("unsupported model: %s", value)
		}
		cfg.OpenAI.Model = value
		return nil
	},
	"base_url": func(cfg *config.Config, value string) error {
		cfg.OpenAI.BaseURL = value
		return nil
	},
	"system_prompt": func(cfg *config.Config, value string) error {
		cfg.OpenAI.SystemPrompt = value
		return nil
	},
	"expand_text_prompt": func(cfg *config.Config, value string) error {
		cfg.OpenAI.ExpandTextPrompt = value
		return nil
	},
	"max_words": func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return fmt.Errorf("Invalid maxWords value: '%s'", value)
		}
		cfg.OpenAI.MaxWords = n
		return nil
	},
	"preserve_original": func(cfg *config.Config, value string) error {
		p, err := config.ParsePreserveOriginal(value)
		if err != nil {
			return err
		}
		cfg.PreserveOriginal = p
		return nil
	},
}

func settableKeys() []string {
	keys := make([]string, 0, len(settable)+1)
	for k := range settable {
		keys = append(keys, k)
	}
	keys = append(keys, "use_keyring")
	sort.Strings(keys)
	return keys
}

func newConfigSetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting",
		Long:  "Keys: " + strings.Join(settableKeys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}

			name, value := args[0], args[1]
			if name == "use_keyring" {
				err = c.setUseKeyring(e, value)
			} else if set, ok := settable[name]; ok {
				err = set(e.cfg, value)
			} else {
				err = fmt.Errorf("unknown key %q (want one of %s)", name, strings.Join(settableKeys(), ", "))
			}
			if err != nil {
				return err
			}

			if err := e.save(); err != nil {
				return err
			}
			c.logger.Info("setting changed", zap.String("key", name))
			return nil
		},
	}
}

// setUseKeyring switches where the API key lives, moving a key stored in
// the file into the keyring and back
func (c *cli) setUseKeyring(e *env, value string) error {
	enable, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("use_keyring: %w", err)
	}
	if enable == e.cfg.UseKeyring {
		return nil
	}

	if e.secrets == nil {
		if e.secrets, err = c.openSecrets(); err != nil {
			return fmt.Errorf("failed to open keyring: %w", err)
		}
	}

	if enable {
		key := e.cfg.OpenAI.APIKey
		e.cfg.UseKeyring = true
		if key == "" {
			return nil
		}
		return e.cfg.SetAPIKey(e.secrets, key)
	}

	key, err := e.secrets.Get(config.SecretAPIKey)
	if err != nil {
		return err
	}
	e.cfg.UseKeyring = false
	return e.cfg.SetAPIKey(e.secrets, key)
}

func newConfigSetKeyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [KEY]",
		Short: "Store the OpenAI API key",
		Long:  "Stores the key in the OS keyring when use_keyring is set, otherwise in the config file. Without an argument the key is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				fmt.Fprint(cmd.ErrOrStderr(), "OpenAI API key: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read key: %w", err)
				}
				key = line
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return errors.New("empty API key")
			}

			if err := e.cfg.SetAPIKey(e.secrets, key); err != nil {
				return err
			}
			if err := e.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved (%s)\n", e.cfg.MaskedAPIKey())
			return nil
		},
	}
}

func newConfigResetPromptCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "reset-prompt system|expand",
		Short:     "Restore a default prompt",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"system", "expand"},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}

			switch args[0] {
			case "system":
				e.cfg.OpenAI.SystemPrompt = prompts.DefaultSystemPrompt()
			case "expand":
				e.cfg.OpenAI.ExpandTextPrompt = prompts.DefaultExpandTextPrompt()
			default:
				return fmt.Errorf("unknown prompt %q (want system or expand)", args[0])
			}
			return e.save()
		},
	}
}
