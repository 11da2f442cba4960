package cmd

import (
	"encoding/json"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
	"github.com/EthanGF7/SkillsTracker/internal/challengegen"
	"github.com/EthanGF7/SkillsTracker/internal/ui/layout"
)

var generateCmd = &cobra.Command{
	Use:   "generate <skill>",
	Short: "Generate a challenge for a skill and save it to history",
	Example: `  skillstracker generate Empatía --level Aprendiz
  skillstracker generate Asertividad --custom --type weekly`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")
		typ, _ := cmd.Flags().GetString("type")
		custom, _ := cmd.Flags().GetBool("custom")
		asJSON, _ := cmd.Flags().GetBool("json")

		t, err := challenge.ParseType(typ)
		if err != nil {
			return err
		}

		a, err := openApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		in := challengegen.GenerateInput{Skill: args[0], Level: level, Type: t}
		if custom {
			in.Kind = challenge.KindCustom
		}
		c, err := a.Generator.Generate(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("generate challenge: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		}
		_, err = lipgloss.Fprintln(cmd.OutOrStdout(), layout.RenderChallenge(c, layout.DefaultWidth))
		return err
	},
}

func init() {
	generateCmd.Flags().StringP("level", "l", "", "Self-assessed level, e.g. Aprendiz (required for catalog skills)")
	generateCmd.Flags().StringP("type", "t", string(challenge.TypeDaily), "Challenge type: daily or weekly")
	generateCmd.Flags().Bool("custom", false, "Generate a custom-skill challenge with objectives and metrics")
	generateCmd.Flags().Bool("json", false, "Print the challenge as JSON")
}
