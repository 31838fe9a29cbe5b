package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/internal/cli"
	"github.com/packsmith/packsmith/internal/common"
	"github.com/packsmith/packsmith/internal/engine"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <shipment-id> [token]",
		Short: "Add product units to a draft shipment",
		Long: `Add products one at a time, by scan or by typed entry.

With a token argument, the token is resolved and added directly. A scanner
that fires several times pastes the same code repeatedly into the token;
the repeat count becomes the quantity. With --qty, the first code in the
token is used and the quantity is taken from the flag instead.

Without a token, an interactive scan session starts: each line of input is
one scan, and an empty line ends the session.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runAdd,
	}

	cmd.Flags().Int("qty", 0, "explicit quantity (manual entry instead of scan counting)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
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

	eng := newEngine(store, idx)

	// No token starts an interactive scan session.
	if len(args) == 1 {
		handler := cli.NewInterruptHandler(os.Stdout)
		ctx = handler.HandleInterrupts(ctx)

		session := cli.NewScanSession(eng, os.Stdin, os.Stdout)
		admitted, sessionErr := session.Run(ctx, shipment)
		if sessionErr != nil {
			return sessionErr
		}

		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Session done: %d units added, shipment now holds %d units", //nolint:forbidigo // User-facing output
			admitted, shipment.TotalItemsCount)))
		return nil
	}

	token := args[1]
	qty, _ := cmd.Flags().GetInt("qty")

	var d engine.Decision
	if qty > 0 {
		d, err = eng.AddManual(ctx, shipment, token, qty)
	} else {
		d, err = eng.AddScan(ctx, shipment, token)
	}

	switch {
	case errors.Is(err, common.ErrEditNotPermitted):
		return fmt.Errorf("shipment %s is %s; only draft shipments can be edited", shipment.ID, shipment.Status)
	case errors.Is(err, common.ErrOutOfStock), errors.Is(err, common.ErrAlreadyCommitted):
		fmt.Println(cli.FormatError(fmt.Sprintf("%s: %s", token, d.Reason))) //nolint:forbidigo // User-facing output
		return err
	case err != nil:
		return err
	}

	if d.Adjusted() {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: requested %d, added %d (%s)", //nolint:forbidigo // User-facing output
			token, d.Requested, d.Admitted, d.Reason)))
	} else {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s: added %d", token, d.Admitted))) //nolint:forbidigo // User-facing output
	}

	return nil
}
