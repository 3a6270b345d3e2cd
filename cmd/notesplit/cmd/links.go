package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"notesplit/internal/adapters/obsidian"
)

var linksCmd = &cobra.Command{
	Use:   "links <note>",
	Short: "List the links into and out of a note",
	Long: `List the notes linking to a note and the notes it links to, using
the link index. The index is synced first.

Examples:
  notesplit links recurrence-as-state-space
  notesplit links inbox.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		notePath := cfg.ResolveNote(args[0])
		name := strings.TrimSuffix(filepath.Base(notePath), filepath.Ext(notePath))
		out := cmd.OutOrStdout()

		rel, err := filepath.Rel(cfg.Vault(), notePath)
		if err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("note is outside the vault: %s", notePath)
		}
		rel = filepath.ToSlash(rel)

		node, err := idx.GetNode(rel)
		if err != nil {
			return err
		}
		if node == nil {
			fmt.Fprintf(out, "%s is not indexed\n", rel)
		}

		backlinks, err := idx.FindLinksTo(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Linked from (%d):\n", len(backlinks))
		for _, e := range backlinks {
			fmt.Fprintf(out, "  %s\n", e.SourcePath)
		}

		outgoing, err := idx.FindLinksFromFile(rel)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Links to (%d):\n", len(outgoing))
		for _, e := range outgoing {
			fmt.Fprintf(out, "  %s\n", e.LinkText)
		}

		if len(backlinks) > 0 {
			fmt.Fprintf(out, "\nSearch in Obsidian: %s\n",
				obsidian.NewOpener(cfg.Vault()).SearchURI("[["+name+"]]"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
}
