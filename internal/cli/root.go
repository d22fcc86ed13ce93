// Package cli provides the bookstore command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mickamy/bookstore/internal/bookstore"
	"github.com/mickamy/bookstore/internal/config"
	"github.com/mickamy/bookstore/internal/integrity"
	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/store"
)

// Version is set at build time.
var Version = "dev"

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookstore",
		Short: "Manage a bookstore's catalog, customers and orders",
		Long: `bookstore keeps authors, genres, books, customers and order records in a
relational database and checks every reference before it is written.

Books name their author and genre. With --resolution strict (the default) an
unknown name is rejected; with --resolution auto-create it is added.
Deleting a book or customer leaves its order records in place by default;
--cascade cascade deletes them and --cascade refuse keeps the target.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: ./"+config.DefaultFile+")")
	pf.String("driver", "", "database driver (sqlite|postgres|mysql)")
	pf.String("dsn", "", "data source name (default: "+store.DefaultDSN+" for sqlite)")
	pf.String("resolution", "", "unknown author/genre handling (strict|auto-create)")
	pf.String("cascade", "", "order records of a deleted book or customer (orphan|cascade|refuse)")
	pf.StringP("output", "o", "", "output format (text|json)")
	pf.BoolP("verbose", "v", false, "verbose logging")
	pf.Bool("debug-sql", false, "log every SQL statement")

	_ = root.RegisterFlagCompletionFunc("output", fixedCompletion(config.OutputText, config.OutputJSON))
	_ = root.RegisterFlagCompletionFunc("driver", fixedCompletion("sqlite", "postgres", "mysql"))
	_ = root.RegisterFlagCompletionFunc("resolution", fixedCompletion(string(integrity.Strict), string(integrity.AutoCreate)))
	_ = root.RegisterFlagCompletionFunc("cascade", fixedCompletion(string(integrity.Orphan), string(integrity.CascadeDelete), string(integrity.Refuse)))

	root.AddCommand(
		newVersionCommand(),
		newMigrateCommand(),
		newSeedCommand(),
		newAddAuthorCommand(),
		newAddGenreCommand(),
		newAddCustomerCommand(),
		newAddBookCommand(),
		newUpdateBookCommand(),
		newUpdateCustomerCommand(),
		newDeleteCommand("delete-book", model.KindBook),
		newDeleteCommand("delete-customer", model.KindCustomer),
		newAddOrderCommand(),
		newListBooksCommand(),
		newSearchBooksCommand(),
		newShowBookCommand(),
		newStockCommand(),
		newListAuthorsCommand(),
		newListGenresCommand(),
		newListCustomersCommand(),
		newShowCustomerCommand(),
		newListOrdersCommand(),
	)
	return root
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error: "+describe(err))
		return exitCode(err)
	}
	return 0
}

// app is what a command needs to talk to the bookstore. It lives for one
// command invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	svc    *bookstore.Service
	out    *printer
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", "error", err)
	}
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err //nolint:wrapcheck // already prefixed
	}

	level := slog.LevelWarn
	if cfg.Verbose || cfg.DebugSQL {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if cfg.File != "" {
		logger.Debug("using config file", "path", cfg.File)
	}

	ctx := cmd.Context()
	st, err := store.Open(ctx, cfg.Store(), logger)
	if err != nil {
		return nil, err //nolint:wrapcheck // typed store error
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err //nolint:wrapcheck // typed store error
	}

	engine := integrity.New(cfg.Policy(), logger)
	return &app{
		cfg:    cfg,
		logger: logger,
		store:  st,
		svc:    bookstore.New(st, engine, logger),
		out:    newPrinter(cmd.OutOrStdout(), cfg.Output),
	}, nil
}

// withApp wraps a command body so the store is opened before it runs and
// closed on every exit path.
func withApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd.Context(), a, cmd, args)
	}
}
