package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/itnihongo/kaiwa/internal/database"
	"github.com/itnihongo/kaiwa/internal/datasync"
	"github.com/itnihongo/kaiwa/internal/views"
)

func newViewsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "views",
		Short: "Read and update lesson view counts",
	}
	command.AddCommand(
		newViewsGetCommand(),
		newViewsAllCommand(),
		newViewsIncrementCommand(),
		newViewsSyncCommand(),
	)
	return command
}

// withViews opens the configured store for the duration of fn.
func withViews(fn func(store views.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeFn, err := openViews(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeFn()
	}()
	return fn(store)
}

func newViewsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the view count of a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(func(store views.Store) error {
				id, err := views.SanitizeID(args[0])
				if err != nil {
					return err
				}
				count, err := store.Get(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("store.Get(%s) > %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", id, count)
				return nil
			})
		},
	}
}

func newViewsAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Print every view count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(func(store views.Store) error {
				counts, err := store.All(cmd.Context())
				if err != nil {
					return fmt.Errorf("store.All() > %w", err)
				}
				ids := make([]string, 0, len(counts))
				for id := range counts {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", id, counts[id])
				}
				return nil
			})
		},
	}
}

func newViewsIncrementCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "increment <id>",
		Short: "Add one view to a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(func(store views.Store) error {
				id, err := views.SanitizeID(args[0])
				if err != nil {
					return err
				}
				count, err := store.Increment(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("store.Increment(%s) > %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", id, count)
				return nil
			})
		},
	}
}

func newViewsSyncCommand() *cobra.Command {
	var opts datasync.ImportOptions
	var toFile bool

	command := &cobra.Command{
		Use:   "sync",
		Short: "Copy the counts of views.fallback_file into MySQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			var source views.Store = views.NewFileStore(cfg.Views.FallbackFile)
			var target views.Setter = views.NewMySQLStore(db)
			if toFile {
				source, target = views.NewMySQLStore(db), views.NewFileStore(cfg.Views.FallbackFile)
			}

			out := cmd.OutOrStdout()
			result, err := datasync.NewImporter(source, target, out).Import(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("Import() > %w", err)
			}
			fmt.Fprintf(out, "new: %d, updated: %d, skipped: %d, invalid: %d\n",
				result.New, result.Updated, result.Skipped, result.Invalid)
			return nil
		},
	}
	command.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report without writing")
	command.Flags().BoolVar(&opts.UpdateExisting, "update-existing", false, "overwrite counts the target already has")
	command.Flags().BoolVar(&toFile, "to-file", false, "copy MySQL into the fallback file instead")
	return command
}
