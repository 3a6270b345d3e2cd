package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"notesplit/internal/adapters/sqlite"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the link index",
	Long: `Scan every note in the vault and rebuild the index of wiki links.
Runs update the index on their own; use this after large edits made
outside notesplit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := sqlite.NewIndex(cfg.Index())
		if err := idx.Open(cfg.Vault()); err != nil {
			return err
		}
		defer idx.Close()

		stats, err := idx.SyncFull()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d notes and %d links in %s\n",
			stats.NodesAdded, stats.EdgesAdded, stats.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
