package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/opskit/diagflow/internal/config"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List past runs or show one stored run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		db, err := openHistory(cfg)
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		defer db.Close()

		if len(args) == 1 {
			result, err := db.GetRun(args[0])
			if err != nil {
				return err
			}
			if result == nil {
				return fmt.Errorf("run %s not found in history", args[0])
			}
			return renderReport(result, outputFormat(cfg))
		}

		records, err := db.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no runs recorded yet")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %-20s  %-8s  %s  (%s)\n",
				rec.RunID,
				rec.WorkflowID,
				coloredStatus(rec.Status),
				rec.StartedAt.Local().Format(time.DateTime),
				rec.ExecutionTime.Round(time.Millisecond))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
}
