package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/spf13/cobra"
)

func newOrdersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and manage stored orders",
	}
	cmd.AddCommand(
		newOrdersListCmd(opts),
		newOrdersTrackCmd(opts),
		newOrdersStatusCmd(opts),
	)
	return cmd
}

func newOrdersListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer app.Shutdown(cmd.Context())

			orders := app.OrderService.GetAllOrders()
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no orders")
				return nil
			}
			printOrders(cmd.OutOrStdout(), orders)
			return nil
		},
	}
}

func newOrdersTrackCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "track <order-number> <first-name> <last-name>",
		Short: "Find an order by number and customer name",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer app.Shutdown(cmd.Context())

			order := app.OrderService.TrackOrder(args[0], args[1], args[2])
			if order == nil {
				return fmt.Errorf("order %s not found for %s %s", args[0], args[1], args[2])
			}
			printOrderDetail(cmd.OutOrStdout(), order)
			return nil
		},
	}
}

func newOrdersStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status> [note]",
		Short: "Update the status of an order",
		Long: `Update the status of an order and append a history entry.
Valid statuses: pending, confirmed, shipping, shipped, cancelled.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer app.Shutdown(cmd.Context())

			note := ""
			if len(args) == 3 {
				note = args[2]
			}
			status := model.OrderStatus(strings.ToLower(args[1]))
			if err := app.OrderService.UpdateOrderStatus(cmd.Context(), args[0], status, note); err != nil {
				return err
			}
			printOrderDetail(cmd.OutOrStdout(), app.OrderService.GetOrderByID(args[0]))
			return nil
		},
	}
}

func printOrders(w io.Writer, orders []model.Order) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCUSTOMER\tITEMS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%d\t%s\t%s\n",
			o.ID, o.Status, o.CustomerInfo.FirstName, o.CustomerInfo.LastName,
			len(o.Items), o.Total.StringFixed(2), o.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func printOrderDetail(w io.Writer, o *model.Order) {
	label := string(o.Status)
	if details, ok := model.LookupStatusDetails(o.Status); ok {
		label = fmt.Sprintf("%s (%s)", o.Status, details.Label)
	}
	fmt.Fprintf(w, "Order %s\n", o.ID)
	fmt.Fprintf(w, "Status:   %s\n", label)
	fmt.Fprintf(w, "Customer: %s %s <%s>\n", o.CustomerInfo.FirstName, o.CustomerInfo.LastName, o.CustomerInfo.Email)
	fmt.Fprintf(w, "Subtotal: %s  Shipping: %s  Total: %s\n",
		o.Subtotal.StringFixed(2), o.Shipping.StringFixed(2), o.Total.StringFixed(2))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSTATUS\tNOTE")
	for _, h := range o.StatusHistory {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Timestamp.Format("2006-01-02 15:04:05"), h.Status, h.Note)
	}
	tw.Flush()
}
