package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sant0-9/expair/internal/tuning"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExamplesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "examples",
		Aliases: []string{"ex"},
		Short:   "Manage tuning examples",
		Long: `Tuning examples pair an abbreviated text with its expansion. Each
language with at least one example gets its own expansion command.

Available subcommands:
  list   - Show all examples
  add    - Add an example
  edit   - Change an example
  delete - Remove an example (the last one cannot be removed)`,
	}

	cmd.AddCommand(newExamplesListCmd(c))
	cmd.AddCommand(newExamplesAddCmd(c))
	cmd.AddCommand(newExamplesEditCmd(c))
	cmd.AddCommand(newExamplesDeleteCmd(c))
	return cmd
}

func newExamplesListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all tuning examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "LANG", "ABBREVIATED", "EXPANDED")
			for _, ex := range e.cfg.TuningExamples {
				t.Row(shortID(ex.ID), ex.Lang, flatten(ex.AbbrevText, 40), flatten(ex.ExpandedText, 40))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func newExamplesAddCmd(c *cli) *cobra.Command {
	var lang, abbrev, expanded string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a tuning example",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}

			ex := tuning.NewExample(tuning.CanonicalLang(lang), abbrev, expanded)
			set := e.cfg.Examples()
			if err := set.Upsert(ex); err != nil {
				return err
			}
			e.cfg.SetExamples(set)
			if err := e.save(); err != nil {
				return err
			}

			c.logger.Info("tuning example added", zap.String("id", ex.ID), zap.String("lang", ex.Lang))
			fmt.Fprintln(cmd.OutOrStdout(), ex.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", tuning.DefaultLang, "Language of the example")
	cmd.Flags().StringVar(&abbrev, "abbrev", "", "Abbreviated text (required)")
	cmd.Flags().StringVar(&expanded, "expanded", "", "Expanded text (required)")
	cmd.MarkFlagRequired("abbrev")
	cmd.MarkFlagRequired("expanded")
	return cmd
}

func newExamplesEditCmd(c *cli) *cobra.Command {
	var lang, abbrev, expanded string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a tuning example",
		Long:  "Changes the fields given as flags. ID may be any unique prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}

			set := e.cfg.Examples()
			ex, err := findExample(set, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("lang") {
				ex.Lang = tuning.CanonicalLang(lang)
			}
			if flags.Changed("abbrev") {
				ex.AbbrevText = abbrev
			}
			if flags.Changed("expanded") {
				ex.ExpandedText = expanded
			}

			if err := set.Upsert(ex); err != nil {
				return err
			}
			e.cfg.SetExamples(set)
			if err := e.save(); err != nil {
				return err
			}

			c.logger.Info("tuning example updated", zap.String("id", ex.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "Language of the example")
	cmd.Flags().StringVar(&abbrev, "abbrev", "", "Abbreviated text")
	cmd.Flags().StringVar(&expanded, "expanded", "", "Expanded text")
	return cmd
}

func newExamplesDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Remove a tuning example",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}

			set := e.cfg.Examples()
			ex, err := findExample(set, args[0])
			if err != nil {
				return err
			}
			if err := set.Delete(ex.ID); err != nil {
				return err
			}
			e.cfg.SetExamples(set)
			if err := e.save(); err != nil {
				return err
			}

			c.logger.Info("tuning example deleted", zap.String("id", ex.ID))
			return nil
		},
	}
}

var errAmbiguousID = errors.New("ambiguous example id")

// findExample looks up an example by id or unique id prefix
func findExample(set *tuning.Set, id string) (tuning.Example, error) {
	if ex, ok := set.Get(id); ok {
		return ex, nil
	}

	var found []tuning.Example
	for _, ex := range set.All() {
		if strings.HasPrefix(ex.ID, id) {
			found = append(found, ex)
		}
	}
	switch len(found) {
	case 0:
		return tuning.Example{}, fmt.Errorf("%w: %s", tuning.ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return tuning.Example{}, fmt.Errorf("%w: %s matches %d examples", errAmbiguousID, id, len(found))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// flatten puts s on one line, cut to n runes
func flatten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
