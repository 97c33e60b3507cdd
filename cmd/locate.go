package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrisense/advisor-cli/internal/model"
)

var (
	locateText string
	locateLat  float64
	locateLng  float64
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Resolve and cache the farm location",
	Long:  "Resolves a location from typed text or a coordinate pick and caches it as the default for the next advisory run. Coordinates are reverse-geocoded through the advisory service, falling back to a GPS coordinate string.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var loc model.LocationDescriptor
		switch {
		case locateText != "":
			loc, err = env.Resolver.ResolveManual(ctx, locateText)
		case cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng"):
			loc, err = env.Resolver.ResolveMapPick(ctx, locateLat, locateLng)
		default:
			return eris.New("provide either --text or both --lat and --lng")
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(loc)
	},
}

func init() {
	locateCmd.Flags().StringVar(&locateText, "text", "", "location name typed by the farmer")
	locateCmd.Flags().Float64Var(&locateLat, "lat", 0, "latitude of a picked point")
	locateCmd.Flags().Float64Var(&locateLng, "lng", 0, "longitude of a picked point")
	rootCmd.AddCommand(locateCmd)
}
