package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mickamy/bookstore/internal/bookstore"
	"github.com/mickamy/bookstore/internal/model"
)

func newAddOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-order <book-id>",
		Short: "Record an order or a stock entry for a book",
		Long: `Record an order of a book. Without --customer the record is a stock-only
entry. --date takes YYYY-MM-DD and defaults to today for customer orders.`,
		Example: `  bookstore add-order 1 --customer 2 --total 25 --stock 5
  bookstore add-order 1 --stock 40`,
		Args: cobra.ExactArgs(1),
	}
	customer := cmd.Flags().String("customer", "", "customer id")
	date := cmd.Flags().String("date", "", "order date (YYYY-MM-DD)")
	total := cmd.Flags().String("total", "0", "total amount")
	stock := cmd.Flags().String("stock", "0", "quantity in stock")

	cmd.RunE = withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		bookID, err := parseID("book_id", args[0])
		if err != nil {
			return err
		}
		in := bookstore.OrderInput{BookID: bookID, Date: *date}
		if cmd.Flags().Changed("customer") {
			id, err := parseID("customer_id", *customer)
			if err != nil {
				return err
			}
			in.CustomerID = &id
		}
		if in.TotalAmount, err = parseFloat("total_amount", *total); err != nil {
			return err
		}
		if in.Stock, err = parseInt64("quantity_in_stock", *stock); err != nil {
			return err
		}

		id, err := a.svc.AddOrderRecord(ctx, in)
		if err != nil {
			return err //nolint:wrapcheck // typed errors are described by Execute
		}
		return a.out.created(model.KindOrderRecord, id, args[0])
	})
	return cmd
}

func newListOrdersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-orders",
		Short: "List all order records with customer and book",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			orders, err := a.svc.ListOrders(ctx)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			return a.out.orders(orders)
		}),
	}
}
