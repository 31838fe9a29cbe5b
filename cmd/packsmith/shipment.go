package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/internal/cli"
	"github.com/packsmith/packsmith/internal/model"
	"github.com/packsmith/packsmith/internal/service"
)

func shipmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipment",
		Short: "Manage shipments",
		Long:  `Create, inspect and advance outbound shipments through their lifecycle.`,
	}

	cmd.AddCommand(shipmentNewCmd())
	cmd.AddCommand(shipmentListCmd())
	cmd.AddCommand(shipmentShowCmd())
	cmd.AddCommand(shipmentStatusCmd())

	return cmd
}

func shipmentNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new draft shipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			shipment, err := store.CreateShipment(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to create shipment: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created draft shipment %s (%s)", shipment.Name, shipment.ID))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func shipmentListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shipments",
		RunE:  runShipmentList,
	}

	cmd.Flags().String("status", "", "only show shipments in this status (draft, created, dispatched, received)")
	cmd.Flags().Int("limit", 0, "maximum number of shipments to show")

	return cmd
}

func runShipmentList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	filter := service.ShipmentFilter{}
	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		status, parseErr := model.ParseShipmentStatus(strings.ToUpper(raw))
		if parseErr != nil {
			return parseErr
		}
		filter.Status = &status
	}
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	shipments, err := store.GetShipments(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list shipments: %w", err)
	}

	if len(shipments) == 0 {
		fmt.Println(cli.InfoStyle.Render("No shipments found. Use 'packsmith shipment new' to create one.")) //nolint:forbidigo // User-facing output
		return nil
	}

	fmt.Println(cli.FormatTitle("Shipments")) //nolint:forbidigo // User-facing output
	fmt.Println()                             //nolint:forbidigo // User-facing output

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tUNITS\tVALUE\tCREATED")
	for _, s := range shipments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.ID, s.Name, renderStatus(s.Status), s.TotalItemsCount,
			s.TotalValue.StringFixed(2), s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func shipmentShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <shipment-id>",
		Short: "Show a shipment with its line items",
		Args:  cobra.ExactArgs(1),
		RunE:  runShipmentShow,
	}

	cmd.Flags().Bool("history", false, "include the status change history")

	return cmd
}

func runShipmentShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	shipment, err := loadShipment(ctx, store, args[0])
	if err != nil {
		return err
	}

	header := fmt.Sprintf("%s  %s", shipment.Name, renderStatus(shipment.Status))
	summary := fmt.Sprintf("Lines: %d\nUnits: %d\nValue: %s\nCreated: %s",
		len(shipment.Items), shipment.TotalItemsCount,
		shipment.TotalValue.StringFixed(2), shipment.CreatedAt.Format("Jan 2, 2006 15:04"))
	fmt.Println(cli.RenderBox(header, summary)) //nolint:forbidigo // User-facing output

	if len(shipment.Items) > 0 {
		fmt.Println() //nolint:forbidigo // User-facing output
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SKU\tBARCODE\tTITLE\tQTY\tUNIT PRICE\tLINE VALUE")
		for _, item := range shipment.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				item.SKU, item.Barcode, item.Title, item.QuantityPlanned,
				item.UnitPrice.StringFixed(2), item.LineValue().StringFixed(2))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if withHistory, _ := cmd.Flags().GetBool("history"); withHistory {
		history, histErr := store.GetStatusHistory(ctx, shipment.ID)
		if histErr != nil {
			return fmt.Errorf("failed to load status history: %w", histErr)
		}
		fmt.Println()                                    //nolint:forbidigo // User-facing output
		fmt.Println(cli.SubtitleStyle.Render("History")) //nolint:forbidigo // User-facing output
		for _, change := range history {
			fmt.Printf("  %s  %s → %s\n", //nolint:forbidigo // User-facing output
				change.ChangedAt.Format("2006-01-02 15:04"), change.From, change.To)
		}
	}

	return nil
}

func shipmentStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <shipment-id> <new-status>",
		Short: "Advance a shipment to a new status",
		Long: `Move a shipment through its lifecycle: draft → created → dispatched → received.

A created shipment can also be reopened back to draft. Any other jump is
rejected and leaves the shipment untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			status, err := model.ParseShipmentStatus(strings.ToUpper(args[1]))
			if err != nil {
				return err
			}

			if err := store.SetShipmentStatus(ctx, args[0], status); err != nil {
				return fmt.Errorf("failed to change status: %w", err)
			}

			fmt.Println(cli.FormatSuccess(statusMessage(args[0], status))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func statusMessage(shipmentID string, status model.ShipmentStatus) string {
	msg := fmt.Sprintf("Shipment %s is now %s", shipmentID, status)
	if status == model.StatusDispatched {
		msg = cli.TruckIcon + " " + msg
	}
	return msg
}

func renderStatus(status model.ShipmentStatus) string {
	switch status {
	case model.StatusDraft:
		return cli.WarningStyle.Render(string(status))
	case model.StatusCreated:
		return cli.InfoStyle.Render(string(status))
	case model.StatusDispatched:
		return cli.BoldStyle.Render(string(status))
	case model.StatusReceived:
		return cli.SuccessStyle.Render(string(status))
	default:
		return string(status)
	}
}
