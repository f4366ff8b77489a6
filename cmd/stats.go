package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recognition job statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryRecognitionEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query recognition events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No recognition jobs recorded yet.")
			return nil
		}

		type agg struct {
			jobs, cached, failed, pages int
			latency                     int64
		}
		byProvider := map[string]*agg{}
		for _, e := range events {
			a := byProvider[e.Provider]
			if a == nil {
				a = &agg{}
				byProvider[e.Provider] = a
			}
			a.jobs++
			a.pages += e.PageCount
			a.latency += e.LatencyMs
			if e.Cached {
				a.cached++
			}
			if e.ErrorMessage != "" {
				a.failed++
			}
		}
		names := make([]string, 0, len(byProvider))
		for n := range byProvider {
			names = append(names, n)
		}
		sort.Strings(names)

		fmt.Println("Recognition by Provider")
		fmt.Println(rule(64))
		fmt.Printf("%-12s  %6s  %6s  %6s  %6s  %8s\n", "Provider", "Jobs", "Cached", "Failed", "Pages", "Avg Ms")
		fmt.Println(rule(64))
		for _, n := range names {
			a := byProvider[n]
			fmt.Printf("%-12s  %6d  %6d  %6d  %6d  %8d\n", n, a.jobs, a.cached, a.failed, a.pages, a.latency/int64(a.jobs))
		}

		fmt.Println()
		fmt.Println("Recent Jobs")
		fmt.Println(rule(64))
		for i, e := range events {
			if i == 10 {
				break
			}
			status := e.Status
			if e.Cached {
				status += " (cached)"
			}
			fmt.Printf("%-19s  %-8s  %-18s  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Provider, e.MimeType, status)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 500, "Number of recent jobs to aggregate")
}
