package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
	"github.com/EthanGF7/SkillsTracker/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect, prune and export challenge history",
}

// historyTypes returns the types selected by --type; empty means both.
func historyTypes(cmd *cobra.Command) ([]challenge.Type, error) {
	typ, _ := cmd.Flags().GetString("type")
	if typ == "" {
		return []challenge.Type{challenge.TypeDaily, challenge.TypeWeekly}, nil
	}
	t, err := challenge.ParseType(typ)
	if err != nil {
		return nil, err
	}
	return []challenge.Type{t}, nil
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return history.New(cfg.DataDir), nil
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved challenges, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		types, err := historyTypes(cmd)
		if err != nil {
			return err
		}
		h, err := openHistory(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		all := map[challenge.Type][]challenge.Challenge{}
		for _, t := range types {
			items, err := h.Load(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("load %s history: %w", t, err)
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}
			all[t] = items
		}

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(all)
		}

		for _, t := range types {
			items := all[t]
			fmt.Fprintf(out, "%s (%d)\n", strings.ToUpper(string(t)), len(items))
			fmt.Fprintln(out, strings.Repeat("─", 90))
			if len(items) == 0 {
				fmt.Fprintln(out, "No challenges yet.")
				fmt.Fprintln(out)
				continue
			}
			fmt.Fprintf(out, "%-16s  %-24s  %-12s  %s\n", "Created", "Skill", "Level", "Title")
			for _, c := range items {
				fmt.Fprintf(out, "%-16s  %-24s  %-12s  %s\n",
					c.CreatedAt.Local().Format("2006-01-02 15:04"),
					truncate(c.SkillIdentity(), 24),
					truncate(c.Level, 12),
					c.Title,
				)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop challenges older than the 90-day retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := historyTypes(cmd)
		if err != nil {
			return err
		}
		h, err := openHistory(cmd)
		if err != nil {
			return err
		}
		for _, t := range types {
			n, err := h.Prune(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("prune %s history: %w", t, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: removed %d challenge(s)\n", t, n)
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history as Markdown or HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")
		if format != "md" && format != "html" {
			return fmt.Errorf("unknown format %q: use md or html", format)
		}

		types, err := historyTypes(cmd)
		if err != nil {
			return err
		}
		h, err := openHistory(cmd)
		if err != nil {
			return err
		}

		var doc []byte
		for _, t := range types {
			items, err := h.Load(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("load %s history: %w", t, err)
			}
			if format == "html" {
				part, err := history.HTML(t, items)
				if err != nil {
					return err
				}
				doc = append(doc, part...)
			} else {
				doc = append(doc, history.Markdown(t, items)...)
			}
			doc = append(doc, '\n')
		}

		if outPath == "" || outPath == "-" {
			_, err := cmd.OutOrStdout().Write(doc)
			return err
		}
		if err := os.WriteFile(outPath, doc, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", outPath)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyPruneCmd, historyExportCmd} {
		c.Flags().StringP("type", "t", "", "Challenge type: daily or weekly (default both)")
	}
	historyListCmd.Flags().IntP("limit", "n", 20, "Maximum challenges per type (0 = all)")
	historyListCmd.Flags().Bool("json", false, "Print as JSON")
	historyExportCmd.Flags().StringP("format", "f", "md", "Output format: md or html")
	historyExportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyCmd.AddCommand(historyExportCmd)
}
