package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agrisense/advisor-cli/internal/i18n"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the local analysis history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent analyses, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		lang := env.Prefs.Language(ctx)

		entries := env.History.ReadRecent(ctx, historyLimit)
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, i18n.T(lang, "history.empty"))
			return nil
		}

		now := time.Now().UTC()
		type row struct {
			Type    string         `json:"type"`
			Age     string         `json:"age"`
			Date    time.Time      `json:"date"`
			Summary map[string]any `json:"summary"`
		}
		rows := make([]row, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, row{
				Type:    string(e.Type),
				Age:     e.RelativeAge(now),
				Date:    e.Date,
				Summary: e.Summary,
			})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.History.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, i18n.T(env.Prefs.Language(ctx), "history.cleared"))
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
