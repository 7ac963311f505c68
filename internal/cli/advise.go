// Package cli provides the command-line interface for the advisory application.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"agri-advisor/internal/advisory"
	"agri-advisor/internal/models"
	"agri-advisor/pkg/utils"
)

func newAdviseCmd(app *App) *cobra.Command {
	var (
		cropName    string
		acres       float64
		price       float64
		rainfall    float64
		temperature float64
		humidity    float64
		imagePath   string
		severity    string
		coldStorage bool
		urgentCash  bool
		mandal      string
		village     string
		dateStr     string
		noSave      bool
	)

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Evaluate one submission and recommend STORE or SELL_NOW",
		Long: `Run the full advisory pipeline for a single farmer submission:
disease assessment from a leaf photo (or reported severity), yield
estimation from weather readings, a price forecast toward the crop's
seasonal peak, and the final store-or-sell recommendation.

Weather flags left unset fall back to the crop's climatological averages.`,
		Example: `  agri-advisor advise --crop paddy --acres 3 --price 2150 --rainfall 95 --temperature 31 --humidity 74
  agri-advisor advise --crop mango --acres 2 --price 4200 --image leaf.jpg --cold-storage
  agri-advisor advise --crop tomato --acres 1.5 --price 900 --severity high --urgent-cash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			sub := advisory.Submission{
				Farmer: models.FarmerContext{
					Crop:           models.Crop(cropName),
					LandAcres:      acres,
					HasColdStorage: coldStorage,
					UrgentCashNeed: urgentCash,
					Mandal:         mandal,
					Village:        village,
				},
				ImagePath:    imagePath,
				CurrentPrice: price,
			}

			// Only pass readings the farmer actually supplied.
			if cmd.Flags().Changed("rainfall") {
				sub.Weather.RainfallMM = models.Float64Ptr(rainfall)
			}
			if cmd.Flags().Changed("temperature") {
				sub.Weather.TemperatureC = models.Float64Ptr(temperature)
			}
			if cmd.Flags().Changed("humidity") {
				sub.Weather.HumidityPct = models.Float64Ptr(humidity)
			}

			if severity != "" {
				sub.ReportedSeverity = models.Severity(severity)
			}
			if dateStr != "" {
				d, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					output.Error("Invalid --date %q: use YYYY-MM-DD", dateStr)
					return err
				}
				sub.EvalDate = d
			}

			record, err := app.Service.Evaluate(sub)
			if err != nil {
				output.Error("Evaluation failed: %v", err)
				return err
			}

			if app.Store != nil && !noSave {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := app.Store.SaveRecord(ctx, &record); err != nil {
					app.Logger.Warn().Err(err).Str("id", record.ID).Msg("Failed to persist advisory record")
					output.Warning("Record not saved: %v", err)
				}
			}

			if output.IsJSON() {
				return output.JSON(record)
			}
			printRecord(output, record)
			return nil
		},
	}

	cmd.Flags().StringVar(&cropName, "crop", "", "crop name (e.g. paddy, mango, chillies)")
	cmd.Flags().Float64Var(&acres, "acres", 0, "cultivated land in acres")
	cmd.Flags().Float64Var(&price, "price", 0, "current mandi price in ₹/quintal (0 = use baseline)")
	cmd.Flags().Float64Var(&rainfall, "rainfall", 0, "monthly rainfall in mm")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "temperature in °C")
	cmd.Flags().Float64Var(&humidity, "humidity", 0, "relative humidity in percent")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to a leaf photo for disease assessment")
	cmd.Flags().StringVar(&severity, "severity", "", "reported disease severity when no image (low, medium, high)")
	cmd.Flags().BoolVar(&coldStorage, "cold-storage", false, "farmer has cold storage access")
	cmd.Flags().BoolVar(&urgentCash, "urgent-cash", false, "farmer needs cash urgently")
	cmd.Flags().StringVar(&mandal, "mandal", "", "farmer's mandal")
	cmd.Flags().StringVar(&village, "village", "", "farmer's village")
	cmd.Flags().StringVar(&dateStr, "date", "", "evaluation date YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the record")
	_ = cmd.MarkFlagRequired("crop")
	_ = cmd.MarkFlagRequired("acres")

	return cmd
}

// printRecord prints the full advisory breakdown: the three estimates
// followed by the recommendation.
func printRecord(output *Output, record models.AdvisoryRecord) {
	output.Bold("Advisory %s", record.ID)
	output.Dim("%s · %s · %.1f acres", record.Farmer.Crop, FormatDate(record.CreatedAt), record.Farmer.LandAcres)
	output.Println()

	output.Bold("Disease")
	if record.Disease.DiseaseName == "" {
		output.Printf("  No disease detected\n")
	} else {
		output.Printf("  Disease:      %s\n", record.Disease.DiseaseName)
		output.Printf("  Severity:     %s\n", record.Disease.Severity)
		output.Printf("  Yield loss:   %.0f%%\n", record.Disease.YieldLossFraction*100)
	}
	output.Printf("  Confidence:   %s (%s)\n", FormatConfidence(record.Disease.Confidence*100), record.Disease.Method)
	output.Println()

	output.Bold("Yield")
	output.Printf("  Baseline:     %s\n", utils.FormatQuintals(record.Yield.BaseQuintals))
	output.Printf("  Weather:      ×%.2f\n", record.Yield.WeatherFactor)
	if record.Yield.DiseaseLossQuintals > 0 {
		output.Printf("  Disease loss: -%s\n", utils.FormatQuintals(record.Yield.DiseaseLossQuintals))
	}
	output.Printf("  Predicted:    %s (%s down from baseline)\n",
		utils.FormatQuintals(record.Yield.PredictedQuintals), utils.FormatPercent(record.YieldReduction))
	output.Printf("  Confidence:   %s (%s)\n", FormatConfidence(record.Yield.Confidence*100), record.Yield.Method)
	output.Println()

	output.Bold("Price")
	output.Printf("  Current:      %s/quintal\n", utils.FormatIndianCurrency(record.Price.CurrentPrice))
	output.Printf("  Peak:         %s/quintal around %s (%d months)\n",
		utils.FormatIndianCurrency(record.Price.PredictedPeakPrice),
		FormatDate(record.Price.PeakDate), record.Price.MonthsToPeak)
	output.Printf("  Confidence:   %s (%s)\n", FormatConfidence(record.Price.Confidence*100), record.Price.Method)
	output.Println()

	rec := record.Recommendation
	output.Bold("Recommendation: %s", output.ActionTag(rec.Action))
	output.Printf("  %s\n", rec.Reason)
	output.Println()
	output.Printf("  Value today:    %s\n", utils.FormatIndianCurrency(rec.CurrentTotalValue))
	output.Printf("  Value at peak:  %s\n", utils.FormatIndianCurrency(rec.FutureTotalValue))
	output.Printf("  Gross gain:     %s (%s)\n", utils.FormatIndianCurrency(rec.ProfitDelta), utils.FormatPercent(rec.ProfitPercentage))
	output.Printf("  Storage cost:   %s\n", utils.FormatIndianCurrency(rec.StorageCostEst))
	output.Printf("  Net gain:       %s\n", utils.FormatIndianCurrency(rec.NetProfitAfterCost))
	if rec.BreakEvenPrice > 0 {
		output.Printf("  Break-even:     %s/quintal\n", utils.FormatIndianCurrency(rec.BreakEvenPrice))
	}
	if rec.DaysToPeak > 0 {
		output.Printf("  Days to peak:   %d\n", rec.DaysToPeak)
	}
	output.Printf("  Confidence:     %s\n", FormatConfidence(rec.ConfidenceScore))
}
