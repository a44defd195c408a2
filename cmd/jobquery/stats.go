package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored job counts and the busiest companies",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.GetStats(cmd.Context())
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println("Jobs")
	data := pterm.TableData{
		{"Total", fmt.Sprint(stats.Total)},
		{"New", fmt.Sprint(stats.New)},
		{"Processed", fmt.Sprint(stats.Processed)},
	}
	if err := pterm.DefaultTable.WithData(data).Render(); err != nil {
		return err
	}

	companies, err := db.Companies(cmd.Context())
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		return nil
	}

	pterm.DefaultSection.Println("Companies")
	cdata := pterm.TableData{{"Company", "Jobs", "Latest posting"}}
	for _, c := range companies {
		latest := c.LatestPosting
		if latest == "" {
			latest = "-"
		}
		cdata = append(cdata, []string{truncate(c.Name, 32), fmt.Sprint(c.JobCount), latest})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(cdata).Render()
}
