package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var langCmd = &cobra.Command{
	Use:   "lang [code]",
	Short: "Show or set the UI language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if len(args) == 0 {
			fmt.Fprintln(os.Stdout, env.Prefs.Language(ctx))
			return nil
		}
		return env.Prefs.SetLanguage(ctx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(langCmd)
}
