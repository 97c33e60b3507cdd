package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrisense/advisor-cli/internal/i18n"
	"github.com/agrisense/advisor-cli/pkg/advisory"
)

var diseaseCmd = &cobra.Command{
	Use:   "disease <image>",
	Short: "Detect a leaf disease from a photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		lang := env.Prefs.Language(ctx)

		result, err := env.Disease.DetectFile(ctx, args[0])
		if err != nil {
			return eris.New(advisory.UserMessage(err))
		}

		if result.LowConfidence() {
			fmt.Fprintln(os.Stderr, i18n.T(lang, "disease.low_confidence"))
		}

		fmt.Fprintln(os.Stderr, i18n.T(lang, "disease.result.heading"))
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(diseaseCmd)
}
