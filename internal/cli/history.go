// Package cli provides the command-line interface for the advisory application.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"agri-advisor/internal/models"
	"agri-advisor/internal/store"
	"agri-advisor/pkg/utils"
)

func newHistoryCmd(app *App) *cobra.Command {
	var (
		cropName string
		action   string
		mandal   string
		fromStr  string
		toStr    string
		limit    int
		showID   string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past advisory records",
		Long:  "List persisted advisory records, newest first, with optional filters.",
		Example: `  agri-advisor history --limit 10
  agri-advisor history --crop paddy --action STORE
  agri-advisor history --id ADV-1717228800000000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Warning("Store not initialized. No history available.")
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if showID != "" {
				record, err := app.Store.GetRecord(ctx, showID)
				if err != nil {
					output.Error("Failed to fetch record: %v", err)
					return err
				}
				if output.IsJSON() {
					return output.JSON(record)
				}
				printRecord(output, *record)
				return nil
			}

			filter := store.RecordFilter{
				Crop:   models.Crop(cropName),
				Action: models.Action(action),
				Mandal: mandal,
				Limit:  limit,
			}
			if fromStr != "" {
				d, err := time.Parse("2006-01-02", fromStr)
				if err != nil {
					output.Error("Invalid --from %q: use YYYY-MM-DD", fromStr)
					return err
				}
				filter.StartDate = d
			}
			if toStr != "" {
				d, err := time.Parse("2006-01-02", toStr)
				if err != nil {
					output.Error("Invalid --to %q: use YYYY-MM-DD", toStr)
					return err
				}
				filter.EndDate = d
			}

			records, err := app.Store.ListRecords(ctx, filter)
			if err != nil {
				output.Error("Failed to fetch records: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}

			if len(records) == 0 {
				output.Info("No advisory records found.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Crop", "Mandal", "Action", "Net Gain", "Conf")
			for _, r := range records {
				table.AddRow(
					r.ID,
					FormatDate(r.CreatedAt),
					string(r.Farmer.Crop),
					TruncateString(r.Farmer.Mandal, 15),
					output.ActionTag(r.Recommendation.Action),
					utils.FormatIndianCurrency(r.Recommendation.NetProfitAfterCost),
					FormatConfidence(r.Recommendation.ConfidenceScore),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d record(s)", len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&cropName, "crop", "", "filter by crop")
	cmd.Flags().StringVar(&action, "action", "", "filter by action (STORE, SELL_NOW)")
	cmd.Flags().StringVar(&mandal, "mandal", "", "filter by mandal")
	cmd.Flags().StringVar(&fromStr, "from", "", "records on or after date YYYY-MM-DD")
	cmd.Flags().StringVar(&toStr, "to", "", "records before date YYYY-MM-DD")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum records to return")
	cmd.Flags().StringVar(&showID, "id", "", "show one record by ID")

	return cmd
}
