package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/linegrep/internal/config"
	"github.com/harrison/linegrep/internal/history"
)

// NewHistoryCommand creates the `linegrep history` subcommand.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches",
		Long: `History lists recent searches recorded in the local history database,
newest first. Recording can be disabled or redirected in .linegrep.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryClear(cmd)
		},
	})

	return cmd
}

func runHistoryList(cmd *cobra.Command, limit int) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "history is disabled in .linegrep.yaml")
		return nil
	}
	defer store.Close()

	records, err := store.Recent(limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no searches recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tQUERY\tROOT\tSCANNED\tMATCHED\tDURATION")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.Query,
			rec.Root,
			rec.FilesScanned,
			rec.FilesMatched,
			rec.Duration.Round(time.Millisecond),
		)
	}
	return w.Flush()
}

func runHistoryClear(cmd *cobra.Command) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "history is disabled in .linegrep.yaml")
		return nil
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
	return nil
}

// openHistoryStore opens the configured history database. A nil store
// with nil error means history is disabled.
func openHistoryStore() (*history.Store, error) {
	fileCfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	if !fileCfg.History.Enabled {
		return nil, nil
	}

	dbPath, err := fileCfg.History.DatabasePath()
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	return store, nil
}
