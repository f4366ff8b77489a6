package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded oracle calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent oracle calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if failedOnly {
			kept := events[:0]
			for _, e := range events {
				if !e.Success {
					kept = append(kept, e)
				}
			}
			events = kept
		}

		if asJSON {
			return printJSON(events)
		}
		if len(events) == 0 {
			fmt.Println("No oracle calls recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-13s  %-10s  %-26s  %6s  %6s  %6s  %s\n",
			"ID", "Timestamp", "Purpose", "Provider", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(rule(104))
		for _, e := range events {
			fmt.Printf("%-5d  %-19s  %-13s  %-10s  %-26s  %6d  %6d  %6d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 13),
				truncate(e.Provider, 10),
				truncate(e.Model, 26),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				mark(e.Success),
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the request and response bodies of one oracle call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fields := [][2]string{
			{"ID", strconv.Itoa(e.ID)},
			{"Time", e.Timestamp.Local().Format("2006-01-02 15:04:05")},
			{"Purpose", e.Purpose},
			{"Provider", e.Provider},
			{"Model", e.Model},
			{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
			{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
			{"Success", strconv.FormatBool(e.Success)},
		}
		if e.ErrorMessage != "" {
			fields = append(fields, [2]string{"Error", e.ErrorMessage})
		}
		for _, f := range fields {
			fmt.Printf("%-10s %s\n", f[0]+":", f[1])
		}

		printBody("REQUEST", e.RequestBody)
		printBody("RESPONSE", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No oracle usage recorded yet.")
			return nil
		}
		printPurposeUsage(byPurpose)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) > 0 {
			fmt.Println()
			printModelCost(byModel)
		}
		return nil
	},
}

func printPurposeUsage(rows []store.PurposeUsage) {
	fmt.Println("Usage by Purpose")
	fmt.Println(rule(72))
	fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Println(rule(72))

	var calls, in, out int
	for _, r := range rows {
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
			r.Purpose, r.Calls, r.InputTokens, r.OutputTokens, r.InputTokens+r.OutputTokens, r.AvgLatencyMs)
		calls += r.Calls
		in += r.InputTokens
		out += r.OutputTokens
	}
	fmt.Println(rule(72))
	fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)
}

// printModelCost prices each model with the built-in table. Models with
// no known price are listed and excluded from the total.
func printModelCost(rows []store.ModelUsage) {
	fmt.Println("Estimated Cost (USD)")
	fmt.Println(rule(72))
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(rule(72))

	var total float64
	var unpriced []string
	for _, r := range rows {
		price := "?"
		if c := llm.LookupCost(r.Model); c != nil {
			usd := c.Cost(r.InputTokens, r.OutputTokens)
			total += usd
			price = formatCost(usd)
		} else {
			unpriced = append(unpriced, r.Model)
		}
		fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
			truncate(r.Model, 32), r.Calls, r.InputTokens, r.OutputTokens, price)
	}

	fmt.Println(rule(72))
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

// printBody prints a captured body, indenting it when it is JSON.
func printBody(title, body string) {
	fmt.Println()
	fmt.Println(rule(60))
	fmt.Println(title)
	fmt.Println(rule(60))
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	var buf bytes.Buffer
	if json.Indent(&buf, []byte(body), "", "  ") == nil {
		fmt.Println(buf.String())
		return
	}
	fmt.Println(body)
}

func rule(n int) string { return strings.Repeat("─", n) }

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (steps, hint-refine, working-steps, pitfalls)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")
	llmListCmd.Flags().Bool("json", false, "Print events as JSON")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
