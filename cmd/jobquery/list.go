package main

import (
	"fmt"
	"time"

	"jobscanner-engine/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	listStatus string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored job postings, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (new|processed)")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum rows to show (0 for all)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if listStatus != "" && listStatus != store.StatusNew && listStatus != store.StatusProcessed {
		return fmt.Errorf("status must be %q or %q", store.StatusNew, store.StatusProcessed)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	jobs, err := db.ListJobs(cmd.Context(), store.ListOpts{Status: listStatus, Limit: listLimit})
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		pterm.Info.Println("no jobs stored")
		return nil
	}

	renderJobs(jobs)
	return nil
}

func renderJobs(jobs []store.StoredJob) {
	data := pterm.TableData{{"ID", "Title", "Company", "Location", "Status", "Crawled"}}
	for _, j := range jobs {
		data = append(data, []string{
			fmt.Sprint(j.ID),
			truncate(j.Title, 48),
			truncate(j.Company, 24),
			truncate(j.Location, 24),
			j.Status,
			crawledAgo(j),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// crawledAgo renders the crawl timestamp the adapters stamp into metadata.
func crawledAgo(j store.StoredJob) string {
	raw, _ := j.Metadata["crawled_at"].(string)
	if raw == "" {
		return "-"
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return humanize.Time(ts)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
