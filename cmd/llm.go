package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/EthanGF7/SkillsTracker/internal/apperr"
	"github.com/EthanGF7/SkillsTracker/internal/llm"
	"github.com/EthanGF7/SkillsTracker/internal/store"
	"github.com/EthanGF7/SkillsTracker/internal/ui/layout"
	"github.com/EthanGF7/SkillsTracker/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM call log",
}

// withEvents opens the event store for the duration of fn.
func withEvents(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s.EventRepo())
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.RequestID, _ = cmd.Flags().GetString("request")
		if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
			opts.From = time.Now().Add(-since)
		}

		return withEvents(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		})
	},
}

func printEvents(w io.Writer, events []store.LLMEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM calls recorded.")
		return
	}
	t := layout.NewTable([]string{"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK"}, 0, 4, 5, 6)
	for _, e := range events {
		t.Row(
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format(timeLayout),
			e.Purpose,
			truncate(e.Model, 28),
			strconv.Itoa(e.InputTokens),
			strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			layout.Mark(e.Success),
		)
	}
	lipgloss.Fprintln(w, t)
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and response of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}
		return withEvents(cmd, func(repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			printEvent(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

func printEvent(w io.Writer, e *store.LLMEventRecord) {
	field := func(name, value string) {
		lipgloss.Fprintln(w, theme.Label.Render(fmt.Sprintf("%-10s", name))+" "+value)
	}
	field("ID", strconv.Itoa(e.ID))
	field("Time", e.Timestamp.Local().Format(timeLayout))
	field("Provider", e.Provider)
	field("Model", e.Model)
	field("Purpose", e.Purpose)
	if e.RequestID != "" {
		field("Request", e.RequestID)
	}
	field("Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens))
	field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	field("Success", layout.Mark(e.Success))
	if e.ErrorMessage != "" {
		field("Error", theme.Failed.Render(e.ErrorMessage))
	}

	for _, section := range []struct{ title, body string }{
		{"PROMPT", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		lipgloss.Fprintln(w, theme.Title.Render(section.title))
		if section.body == "" {
			lipgloss.Fprintln(w, theme.Hint.Render("(empty)"))
			continue
		}
		fmt.Fprintln(w, strings.TrimRight(section.body, "\n"))
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage, success rate and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(repo store.EventRepo) error {
			ctx := cmd.Context()
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("usage by purpose: %w", err)
			}
			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("usage by model: %w", err)
			}
			printStats(cmd.OutOrStdout(), byPurpose, byModel)
			return nil
		})
	},
}

func printStats(w io.Writer, byPurpose []store.LLMUsageStat, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM calls recorded.")
		return
	}

	purposes := layout.NewTable([]string{"Purpose", "Calls", "Input", "Output", "Avg ms", "Success"}, 1, 2, 3, 4)
	var calls, in, out int
	for _, st := range byPurpose {
		rate := 0.0
		if st.Calls > 0 {
			rate = float64(st.Calls-st.Failures) / float64(st.Calls)
		}
		purposes.Row(st.Purpose, strconv.Itoa(st.Calls), strconv.Itoa(st.InputTokens),
			strconv.Itoa(st.OutputTokens), strconv.FormatInt(st.AvgLatencyMs, 10), layout.RenderBar(rate, 12))
		calls += st.Calls
		in += st.InputTokens
		out += st.OutputTokens
	}
	purposes.Row("total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), "", "")
	lipgloss.Fprintln(w, theme.Title.Render("Usage by purpose"))
	lipgloss.Fprintln(w, purposes)

	if len(byModel) == 0 {
		return
	}
	models := layout.NewTable([]string{"Model", "Calls", "Input", "Output", "Cost (USD)"}, 1, 2, 3, 4)
	var total float64
	var unpriced []string
	for _, mu := range byModel {
		cost := "?"
		if price := llm.LookupCost(mu.Model); price != nil {
			c := price.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		models.Row(truncate(mu.Model, 32), strconv.Itoa(mu.Calls), strconv.Itoa(mu.InputTokens),
			strconv.Itoa(mu.OutputTokens), cost)
	}
	label := "total"
	if len(unpriced) > 0 {
		label = "total (partial)"
	}
	models.Row(label, "", "", "", formatCost(total))

	fmt.Fprintln(w)
	lipgloss.Fprintln(w, theme.Title.Render("Estimated cost"))
	lipgloss.Fprintln(w, models)
	if len(unpriced) > 0 {
		lipgloss.Fprintln(w, theme.Hint.Render("No price known for "+strings.Join(unpriced, ", ")))
	}
}

var llmPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete logged calls older than --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")
		if age <= 0 {
			return errors.New("--older-than must be positive")
		}
		return withEvents(cmd, func(repo store.EventRepo) error {
			n, err := repo.PruneLLMEvents(cmd.Context(), time.Now().Add(-age))
			if err != nil {
				return fmt.Errorf("prune events: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d event(s).\n", n)
			return nil
		})
	},
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Send a minimal prompt to the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := llm.Check(cmd.Context(), a.Provider)
		if err != nil {
			return fmt.Errorf("%s: %w", apperr.From(err).Message, err)
		}
		w := cmd.OutOrStdout()
		lipgloss.Fprintln(w, theme.OK.Render("✓")+" "+a.Config.LLM.Provider+" is reachable")
		lipgloss.Fprintln(w, theme.Label.Render(fmt.Sprintf("%-10s", "Model"))+" "+res.Model)
		lipgloss.Fprintln(w, theme.Label.Render(fmt.Sprintf("%-10s", "Reply"))+" "+res.Response)
		lipgloss.Fprintln(w, theme.Label.Render(fmt.Sprintf("%-10s", "Latency"))+" "+fmt.Sprintf("%dms", res.LatencyMs))
		return nil
	},
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Maximum number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls with this purpose ("+llm.PurposeChallenge+", "+llm.PurposeSkillDescription+" or "+llm.PurposeCheck+")")
	llmListCmd.Flags().String("request", "", "Only calls made while serving this request id")
	llmListCmd.Flags().Duration("since", 0, "Only calls newer than this age, e.g. 24h")
	llmPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete calls older than this age")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd, llmPruneCmd, llmCheckCmd)
}
