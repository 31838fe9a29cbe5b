package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/internal/cli"
	"github.com/packsmith/packsmith/internal/engine"
	"github.com/packsmith/packsmith/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <shipment-id> <file.csv>",
		Short: "Bulk-import a picking list into a shipment",
		Long: `Ingest a CSV picking list into a draft shipment.

The file needs a header row with at least one identifier column (sku,
fnsku or barcode) and a quantity column. Rows are reconciled against
inventory in file order; rows the inventory cannot cover are rejected or
capped, and the run always ends with a per-row report.`,
		Args: cobra.ExactArgs(2),
		RunE: runImport,
	}

	cmd.Flags().String("delimiter", ",", "cell delimiter")
	cmd.Flags().Bool("dry-run", false, "reconcile every row but change nothing")
	cmd.Flags().Int("chunk-size", 0, "how many rows to persist concurrently (default from config)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	idx, err := loadIndex(ctx, store)
	if err != nil {
		return err
	}

	shipment, err := loadShipment(ctx, store, args[0])
	if err != nil {
		return err
	}

	file, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("failed to open picking list: %w", err)
	}
	defer func() { _ = file.Close() }()

	delimiter, _ := cmd.Flags().GetString("delimiter")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")

	opts := engine.IngestOptions{
		ChunkSize: chunkSize,
		DryRun:    dryRun,
	}
	if delimiter != "" {
		opts.Delimiter = rune(delimiter[0])
	}

	bar := newImportBar(dryRun)
	opts.Progress = func(model.RowOutcome) {
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	eng := newEngine(store, idx)
	report, err := eng.Ingest(ctx, shipment, file, opts)
	_ = bar.Finish()

	if report != nil {
		printReport(report, dryRun)
	}
	if err != nil {
		return fmt.Errorf("import did not complete: %w", err)
	}
	return nil
}

func newImportBar(dryRun bool) *progressbar.ProgressBar {
	description := "[cyan][bold]Importing picking list...[reset]"
	if dryRun {
		description = "[cyan][bold]Checking picking list...[reset]"
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printReport(report *model.BatchReport, dryRun bool) {
	fmt.Println() //nolint:forbidigo // User-facing output

	for _, row := range report.Rows {
		switch row.Status {
		case model.RowAdmitted:
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("row %d  %s: added %d", //nolint:forbidigo // User-facing output
				row.RowIndex, row.Identifier, row.AdmittedQuantity)))
		case model.RowAdjusted:
			fmt.Println(cli.FormatWarning(fmt.Sprintf("row %d  %s: added %d (%s)", //nolint:forbidigo // User-facing output
				row.RowIndex, row.Identifier, row.AdmittedQuantity, row.Reason)))
		case model.RowRejected:
			fmt.Println(cli.FormatError(fmt.Sprintf("row %d  %s: %s", //nolint:forbidigo // User-facing output
				row.RowIndex, row.Identifier, row.Reason)))
		}
	}

	summary := fmt.Sprintf("%d rows admitted, %d rows rejected", report.ProcessedCount, report.ErrorCount)
	if dryRun {
		summary += " (dry run, nothing written)"
	}
	fmt.Println() //nolint:forbidigo // User-facing output
	fmt.Println(cli.FormatInfo(summary)) //nolint:forbidigo // User-facing output
}
