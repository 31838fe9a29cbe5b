package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/internal/cli"
	"github.com/packsmith/packsmith/internal/common"
	"github.com/packsmith/packsmith/internal/tui"
)

func pickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick <shipment-id>",
		Short: "Browse the catalog and multi-select products into a shipment",
		Long: `Open an interactive catalog browser. Select any number of products,
set a quantity per selection, and confirm to add them all at once.

Each selection goes through the same stock reconciliation as a scan, so
quantities may be capped to what the warehouse still has available.`,
		Args: cobra.ExactArgs(1),
		RunE: runPick,
	}
}

func runPick(cmd *cobra.Command, args []string) error {
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
	if !shipment.Status.Editable() {
		return fmt.Errorf("shipment %s is %s; only draft shipments can be edited", shipment.ID, shipment.Status)
	}

	selections, err := tui.Run(ctx, idx.Variants())
	if err != nil {
		return err
	}
	if len(selections) == 0 {
		fmt.Println(cli.FormatInfo("Nothing selected")) //nolint:forbidigo // User-facing output
		return nil
	}

	eng := newEngine(store, idx)
	decisions, err := eng.AddSelections(ctx, shipment, selections)

	admitted := 0
	for _, d := range decisions {
		if !d.Rejected() {
			admitted += d.Admitted
		}
		if d.Adjusted() {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: requested %d, added %d (%s)", //nolint:forbidigo // User-facing output
				d.Variant.SKU, d.Requested, d.Admitted, d.Reason)))
		}
	}

	switch {
	case errors.Is(err, common.ErrOutOfStock), errors.Is(err, common.ErrAlreadyCommitted):
		fmt.Println(cli.FormatError(err.Error())) //nolint:forbidigo // User-facing output
	case err != nil:
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %d units; shipment now holds %d units", //nolint:forbidigo // User-facing output
		admitted, shipment.TotalItemsCount)))
	return nil
}
