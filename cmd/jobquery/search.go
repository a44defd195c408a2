package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored postings by title, company or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum rows to show")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	jobs, err := db.SearchJobs(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		pterm.Info.Printfln("no jobs match %q", args[0])
		return nil
	}

	renderJobs(jobs)
	return nil
}
