package main

import (
	"fmt"
	"strconv"

	"jobscanner-engine/internal/store"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var markCmd = &cobra.Command{
	Use:   "mark-processed <id> [id...]",
	Short: "Mark stored postings as processed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMark,
}

func init() {
	rootCmd.AddCommand(markCmd)
}

func runMark(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid job id %q", arg)
		}

		updated, err := db.SetStatus(cmd.Context(), id, store.StatusProcessed)
		if err != nil {
			return err
		}
		if !updated {
			pterm.Warning.Printfln("job %d not found", id)
			continue
		}
		pterm.Success.Printfln("job %d marked processed", id)
	}
	return nil
}
