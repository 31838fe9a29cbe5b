package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/internal/catalog"
	"github.com/packsmith/packsmith/internal/cli"
	"github.com/packsmith/packsmith/internal/common"
	"github.com/packsmith/packsmith/internal/config"
	"github.com/packsmith/packsmith/internal/model"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local product catalog",
		Long: `Maintain the locally cached copy of the variant catalog.

The cache is what scans and imports resolve against; refresh it whenever
inventory counts change upstream.`,
	}

	cmd.AddCommand(catalogRefreshCmd())
	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogSeedCmd())

	return cmd
}

func catalogRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <catalog.csv>",
		Short: "Replace the cached catalog from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			provider := catalog.NewFileProvider(config.ExpandPath(args[0]))
			variants, err := provider.FetchCatalog(ctx)
			if err != nil {
				return err
			}

			if err := store.ReplaceVariants(ctx, variants); err != nil {
				return fmt.Errorf("failed to cache catalog: %w", err)
			}
			common.LogInfo("catalog refreshed", common.Fields{"variants": len(variants), "source": args[0]})

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Catalog refreshed: %d variants cached", len(variants)))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the cached catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			variants, err := store.GetVariants(ctx)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			if len(variants) == 0 {
				fmt.Println(cli.InfoStyle.Render("Catalog is empty. Use 'packsmith catalog refresh' to load one.")) //nolint:forbidigo // User-facing output
				return nil
			}

			fmt.Println(cli.TitleStyle.Render(cli.CatalogIcon + " Catalog")) //nolint:forbidigo // User-facing output
			fmt.Println()                                                   //nolint:forbidigo // User-facing output

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SKU\tBARCODE\tFNSKU\tTITLE\tPRICE\tAVAILABLE")
			for _, v := range variants {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					v.SKU, v.Barcode, v.AlternateCode, v.Title, v.UnitPrice.StringFixed(2), v.Available)
			}
			return w.Flush()
		},
	}
}

func catalogSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "seed",
		Short:  "Load a small demo catalog",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			if err := store.ReplaceVariants(ctx, demoCatalog()); err != nil {
				return fmt.Errorf("failed to cache catalog: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Demo catalog loaded")) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func demoCatalog() []model.Variant {
	return []model.Variant{
		{ID: "demo-1", SKU: "MUG-BLUE", Barcode: "4006381333931", Title: "Blue Mug", UnitPrice: decimal.RequireFromString("7.50"), Available: 24},
		{ID: "demo-2", SKU: "MUG-RED", Barcode: "4006381333948", Title: "Red Mug", UnitPrice: decimal.RequireFromString("7.50"), Available: 3},
		{ID: "demo-3", SKU: "TEE-M", Barcode: "4006381333955", AlternateCode: "X0TEEM00", Title: "T-Shirt M", UnitPrice: decimal.RequireFromString("14.90"), Available: 12},
		{ID: "demo-4", SKU: "TEE-XL", Barcode: "4006381333962", AlternateCode: "X0TEEXL0", Title: "T-Shirt XL", UnitPrice: decimal.RequireFromString("14.90"), Available: 0},
		{ID: "demo-5", SKU: "POSTER-A2", Title: "A2 Poster", UnitPrice: decimal.RequireFromString("4.25"), Available: 150},
	}
}
