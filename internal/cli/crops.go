// Package cli provides the command-line interface for the advisory application.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"agri-advisor/internal/models"
	"agri-advisor/pkg/utils"
)

func newCropsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "crops",
		Short: "List supported crops and their profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if output.IsJSON() {
				return output.JSON(app.Config.Crops)
			}

			table := NewTable(output, "Crop", "Yield/acre", "Baseline Price", "Peak Months", "Uplift")
			for _, crop := range models.SupportedCrops {
				profile, ok := app.Config.Crops[crop]
				if !ok {
					continue
				}
				table.AddRow(
					string(crop),
					utils.FormatQuintals(profile.YieldPerAcre),
					utils.FormatIndianCurrency(profile.BaselinePrice),
					formatMonths(profile.PeakMonths),
					fmt.Sprintf("%.0f%%", profile.UpliftFraction*100),
				)
			}
			table.Render()
			return nil
		},
	}
}

func formatMonths(months []int) string {
	names := make([]string, 0, len(months))
	for _, m := range months {
		if m >= 1 && m <= 12 {
			names = append(names, time.Month(m).String()[:3])
		}
	}
	return strings.Join(names, ", ")
}
