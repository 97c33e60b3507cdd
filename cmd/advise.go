package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrisense/advisor-cli/internal/i18n"
	"github.com/agrisense/advisor-cli/internal/normalize"
	"github.com/agrisense/advisor-cli/pkg/advisory"
)

var (
	adviseLocation   string
	advisePrevCrop   string
	adviseLandSize   string
	adviseIrrigation string
	adviseGoal       string
	adviseTemp       string
	adviseHumidity   string
	adviseRainfall   string
	adviseSoilN      string
	adviseSoilP      string
	adviseSoilK      string
	adviseSoilPh     string
	adviseYes        bool
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Run the two-phase crop advisory workflow",
	Long:  "Previews the service-resolved weather and soil context for the farm, asks for confirmation, then requests the final crop recommendation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		lang := env.Prefs.Language(ctx)

		// Prefill from the last resolved location when none was given.
		if adviseLocation == "" {
			if loc := env.Resolver.Prefill(ctx); loc != nil {
				adviseLocation = loc.Name
			}
		}

		form := normalize.FormFields{
			Location:       adviseLocation,
			PreviousCrop:   advisePrevCrop,
			LandSize:       adviseLandSize,
			IrrigationType: adviseIrrigation,
			Goal:           adviseGoal,
			Temperature:    adviseTemp,
			Humidity:       adviseHumidity,
			Rainfall:       adviseRainfall,
			SoilN:          adviseSoilN,
			SoilP:          adviseSoilP,
			SoilK:          adviseSoilK,
			SoilPh:         adviseSoilPh,
		}

		snapshot, err := env.Advisory.Preview(ctx, form)
		if err != nil {
			return eris.New(advisory.UserMessage(err))
		}

		fmt.Fprintln(os.Stderr, i18n.T(lang, "advisory.preview.heading"))
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot); err != nil {
			return eris.Wrap(err, "encode preview")
		}

		if !adviseYes {
			fmt.Fprintf(os.Stderr, "%s [y/N]: ", i18n.T(lang, "advisory.confirm.prompt"))
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
				env.Advisory.Back()
				return nil
			}
		}

		result, err := env.Advisory.Confirm(ctx)
		if err != nil {
			return eris.New(advisory.UserMessage(err))
		}

		fmt.Fprintln(os.Stderr, i18n.T(lang, "advisory.result.heading"))
		out := json.NewEncoder(os.Stdout)
		out.SetIndent("", "  ")
		return out.Encode(result)
	},
}

func init() {
	adviseCmd.Flags().StringVar(&adviseLocation, "location", "", "farm location (defaults to the last resolved location)")
	adviseCmd.Flags().StringVar(&advisePrevCrop, "previous-crop", "", "previous crop grown on this land")
	adviseCmd.Flags().StringVar(&adviseLandSize, "land-size", "", "land area in acres")
	adviseCmd.Flags().StringVar(&adviseIrrigation, "irrigation", "", "irrigation type (Rainfed, Canal Irrigation, Drip Irrigation, Borewell)")
	adviseCmd.Flags().StringVar(&adviseGoal, "goal", "", "farming goal (Maximum Profit, Soil Sustainability, Low Risk Crop)")
	adviseCmd.Flags().StringVar(&adviseTemp, "temperature", "", "temperature bucket (Cool, Moderate, Hot)")
	adviseCmd.Flags().StringVar(&adviseHumidity, "humidity", "", "humidity bucket (Low, Medium, High)")
	adviseCmd.Flags().StringVar(&adviseRainfall, "rainfall", "", "rainfall bucket (Low, Medium, High)")
	adviseCmd.Flags().StringVar(&adviseSoilN, "soil-n", "", "measured soil nitrogen")
	adviseCmd.Flags().StringVar(&adviseSoilP, "soil-p", "", "measured soil phosphorus")
	adviseCmd.Flags().StringVar(&adviseSoilK, "soil-k", "", "measured soil potassium")
	adviseCmd.Flags().StringVar(&adviseSoilPh, "soil-ph", "", "measured soil pH")
	adviseCmd.Flags().BoolVar(&adviseYes, "yes", false, "confirm without prompting")
	rootCmd.AddCommand(adviseCmd)
}
