package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mickamy/bookstore/internal/bookstore"
	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/store"
)

func newAddCustomerCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "add-customer <name> <email> <phone>",
		Short:   "Add a customer",
		Example: `  bookstore add-customer "Customer 1" customer1@example.com 123-456-7890`,
		Args:    cobra.ExactArgs(3),
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			in := bookstore.CustomerInput{Name: args[0], Email: args[1], Phone: args[2]}
			id, err := a.svc.AddCustomer(ctx, in)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			return a.out.created(model.KindCustomer, id, in.Name)
		}),
	}
}

func newUpdateCustomerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update-customer <id>",
		Short:   "Change the contact details of a customer",
		Example: `  bookstore update-customer 1 --email new@example.com`,
		Args:    cobra.ExactArgs(1),
	}
	name := cmd.Flags().String("name", "", "new name")
	email := cmd.Flags().String("email", "", "new email")
	phone := cmd.Flags().String("phone", "", "new phone")

	cmd.RunE = withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID("id", args[0])
		if err != nil {
			return err
		}
		var patch store.CustomerPatch
		if cmd.Flags().Changed("name") {
			patch.Name = store.Set(*name)
		}
		if cmd.Flags().Changed("email") {
			patch.Email = store.Set(*email)
		}
		if cmd.Flags().Changed("phone") {
			patch.Phone = store.Set(*phone)
		}
		c, err := a.svc.UpdateCustomer(ctx, id, patch)
		if err != nil {
			return err //nolint:wrapcheck // typed errors are described by Execute
		}
		return a.out.customer(c)
	})
	return cmd
}

func newListCustomersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-customers",
		Short: "List all customers",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			customers, err := a.svc.ListCustomers(ctx)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			return a.out.customers(customers)
		}),
	}
}

func newShowCustomerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show-customer <id>",
		Short: "Show a customer with their order records",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			c, err := a.svc.GetCustomer(ctx, id)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			return a.out.customer(c)
		}),
	}
}
