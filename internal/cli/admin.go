package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/seed"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bookstore %s\n", Version)
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Long:  `Apply pending schema migrations. Every other command does this too before it runs.`,
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			v, err := a.store.Version(ctx)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			if a.out.isJSON() {
				return a.out.json(map[string]any{"driver": a.cfg.Driver, "version": v})
			}
			a.out.message("Schema at version %d (%s)", v, a.cfg.Driver)
			return nil
		}),
	}
}

var errSeedFailures = errors.New("some seed rows were not loaded")

func newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample data",
		Long: `Load a catalog from a YAML file, or the built-in sample catalog. Rows go
through the same checks as the add commands; rows that fail are reported and
the rest are loaded.`,
		Example: `  bookstore seed
  bookstore seed --file catalog.yaml --resolution auto-create`,
		Args: cobra.NoArgs,
	}
	file := cmd.Flags().String("file", "", "seed file (default: built-in sample catalog)")

	cmd.RunE = withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		f := seed.Default()
		if *file != "" {
			data, err := os.ReadFile(*file)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			if f, err = seed.Parse(data); err != nil {
				return err //nolint:wrapcheck // already prefixed
			}
		}

		res := seed.Load(ctx, a.svc, f)
		for _, fail := range res.Failures {
			a.logger.DebugContext(ctx, "seed row skipped", "kind", fail.Kind.String(), "key", fail.Key, "error", describe(fail.Err))
		}

		kinds := []model.Kind{model.KindGenre, model.KindAuthor, model.KindBook, model.KindCustomer, model.KindOrderRecord}
		if a.out.isJSON() {
			created := map[string]int{}
			for _, k := range kinds {
				created[k.String()] = res.Created[k]
			}
			failed := make([]string, len(res.Failures))
			for i, fail := range res.Failures {
				failed[i] = fail.Error()
			}
			if err := a.out.json(map[string]any{"created": created, "failed": failed}); err != nil {
				return err
			}
		} else {
			rows := make([]table.Row, len(kinds))
			for i, k := range kinds {
				rows[i] = table.Row{k.String(), res.Created[k]}
			}
			a.out.table(table.Row{"Kind", "Created"}, rows)
			for _, fail := range res.Failures {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", fail.Kind, describe(fail.Err))
			}
		}

		if len(res.Failures) > 0 {
			return fmt.Errorf("%w: %d failed", errSeedFailures, len(res.Failures))
		}
		return nil
	})
	return cmd
}
