package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notesplit/internal/adapters/editor"
	"notesplit/internal/adapters/filesystem"
	"notesplit/internal/adapters/llm"
	"notesplit/internal/adapters/obsidian"
	"notesplit/internal/adapters/report"
	"notesplit/internal/adapters/tui"
	"notesplit/internal/application/commands"
	"notesplit/internal/domain"
	"notesplit/internal/ports"
)

type runFlags struct {
	dryRun      bool
	interactive bool
	copy        bool
	open        bool
	edit        bool
	noIndex     bool
}

var flags runFlags

var runCmd = &cobra.Command{
	Use:   "run [note]",
	Short: "Segment a note and extract its best segments",
	Long: `Run the whole pipeline on a note: segment it, choose segments to
extract, create one note per segment and leave back-references behind.

The note may be a path or a note name inside the vault. Without an
argument the note from the configuration is used.

Examples:
  notesplit run inbox
  notesplit run ~/Obsidian/ZettleKasten/daily/2024-05-01.md --dry-run
  notesplit run inbox -i --open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPipeline,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(c *cobra.Command) {
	c.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show the pending changes as a diff without writing")
	c.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "review the selection before extracting")
	c.Flags().BoolVar(&flags.copy, "copy", false, "copy links to the created notes to the clipboard")
	c.Flags().BoolVar(&flags.open, "open", false, "open the first created note in Obsidian")
	c.Flags().BoolVar(&flags.edit, "edit", false, "open the source note in $EDITOR at the first back-reference")
	c.Flags().BoolVar(&flags.noIndex, "no-index", false, "do not update the link index")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	notePath := cfg.ResolveNote(firstArg(args))
	if notePath == "" {
		return fmt.Errorf("no note given: pass a note or set \"note\" in %s", configPath)
	}

	oracle, err := llm.New(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	out := cmd.OutOrStdout()
	printer := report.NewPrinter(out)
	fmt.Fprintln(out, "🔍 Starting note analysis...")

	store := newStore()
	var noteStore ports.NoteStore = store
	var dry *filesystem.DryRunStore
	if flags.dryRun {
		dry = filesystem.NewDryRunStore(store)
		noteStore = dry
	}

	opts := commands.RunOptions{
		NotePath:     notePath,
		VaultPath:    store.VaultPath(),
		MaxSegments:  cfg.MaxSegments,
		LockDocument: cfg.LockDocument && !flags.dryRun,
	}
	if _, ok := oracle.(ports.StreamingOracle); ok && !flags.interactive {
		printer.Section("SEGMENTATION CSV:")
		printer.Streamed = true
		opts.Echo = out
	}
	if flags.interactive {
		opts.Reviewer = tui.NewReviewer(cmd.InOrStdin(), out)
	}
	if !flags.dryRun && !flags.noIndex {
		idx, err := openIndex()
		if err != nil {
			logger.Warn("link index unavailable", zap.Error(err))
		} else {
			defer idx.Close()
			opts.Index = idx
		}
	}

	logger.Debug("starting run",
		zap.String("note", notePath),
		zap.String("provider", oracle.Name()),
		zap.String("model", cfg.Model()))

	result, err := commands.NewRunCommand(noteStore, oracle, logger, opts).Execute(ctx)
	if printer.Streamed {
		fmt.Fprintln(out)
	}
	if result != nil {
		printer.Run(result, flags.dryRun)
	}
	if err != nil {
		return err
	}

	if flags.dryRun {
		if err := printer.Pending(dry.Writes()); err != nil {
			return err
		}
	} else if err := afterRun(out, notePath, result); err != nil {
		return err
	}

	printer.Done()
	return nil
}

// afterRun handles the --copy, --open and --edit helpers
func afterRun(out io.Writer, notePath string, result *commands.RunResult) error {
	records := result.Records()
	if len(records) == 0 {
		return nil
	}

	if flags.copy {
		if err := clipboard.WriteAll(Links(records)); err != nil {
			logger.Warn("failed to copy links", zap.Error(err))
		} else {
			fmt.Fprintf(out, "Copied %d link(s) to the clipboard\n", len(records))
		}
	}
	if flags.open {
		if err := obsidian.NewOpener(cfg.Vault()).OpenFile(records[0].NotePath); err != nil {
			logger.Warn("failed to open note in Obsidian", zap.Error(err))
		}
	}
	if flags.edit {
		if err := editor.NewOpener().OpenAt(notePath, result.ReferenceLine()); err != nil {
			return fmt.Errorf("failed to open editor: %w", err)
		}
	}
	return nil
}

// Links renders one wiki-link per created note
func Links(records []domain.ExtractionRecord) string {
	links := make([]string, len(records))
	for i, r := range records {
		links[i] = "[[" + r.NoteName + "]]"
	}
	return strings.Join(links, "\n")
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
