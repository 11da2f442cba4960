package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/EthanGF7/SkillsTracker/internal/catalog"
	"github.com/EthanGF7/SkillsTracker/internal/customskill"
	"github.com/EthanGF7/SkillsTracker/internal/ui/layout"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse predefined skills and manage custom ones",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List predefined and custom skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		custom, err := customskill.New(cfg.DataDir).List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list custom skills: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-28s  %-10s  %s\n", "Name", "Kind", "Description")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, name := range catalog.Names() {
			fmt.Fprintf(out, "%-28s  %-10s  %s\n", name, "catalog", "")
		}
		for _, sk := range custom {
			fmt.Fprintf(out, "%-28s  %-10s  %s\n", truncate(sk.Name, 28), "custom", truncate(sk.Description, 48))
		}
		fmt.Fprintf(out, "\n%d skills (%d custom)\n", len(catalog.Names())+len(custom), len(custom))
		fmt.Fprintf(out, "Levels: %s\n", strings.Join(catalog.Levels(), ", "))
		return nil
	},
}

var skillAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a custom skill",
	Long: `Register a custom skill. Without --description the description, key
points and examples are generated by the LLM (or a generic text when it is
unavailable).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		keyPoints, _ := cmd.Flags().GetStringArray("key-point")
		examples, _ := cmd.Flags().GetStringArray("example")

		a, err := openApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		sk := customskill.Skill{
			Name:        args[0],
			Description: description,
			KeyPoints:   keyPoints,
			Examples:    examples,
		}
		if strings.TrimSpace(description) == "" {
			d, err := a.Describer.Describe(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("describe skill: %w", err)
			}
			sk.Description = d.Description
			if len(sk.KeyPoints) == 0 {
				sk.KeyPoints = d.KeyPoints
			}
			if len(sk.Examples) == 0 {
				sk.Examples = d.Examples
			}
		}

		saved, err := a.Skills.Put(cmd.Context(), sk)
		if err != nil {
			return fmt.Errorf("save skill: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved custom skill %q to %s\n", saved.Name, a.Skills.Path())
		return nil
	},
}

var skillDescribeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Generate a description for a skill without saving it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.Describer.Describe(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("describe skill: %w", err)
		}
		_, err = lipgloss.Fprintln(cmd.OutOrStdout(), layout.RenderDescription(args[0], d, layout.DefaultWidth))
		return err
	},
}

func init() {
	skillAddCmd.Flags().StringP("description", "d", "", "Skill description (generated when empty)")
	skillAddCmd.Flags().StringArray("key-point", nil, "Key point (repeatable)")
	skillAddCmd.Flags().StringArray("example", nil, "Example (repeatable)")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillDescribeCmd)
}
