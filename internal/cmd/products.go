package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProductsCmd(opts *rootOptions) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer app.Shutdown(cmd.Context())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tCOLORS")
			for _, p := range app.Catalog.ByCategory(category) {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
					p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Stock, strings.Join(p.Colors, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list products of this category")
	return cmd
}
