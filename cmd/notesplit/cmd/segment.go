package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"notesplit/internal/adapters/llm"
	"notesplit/internal/adapters/report"
	"notesplit/internal/application/commands"
)

var decideToo bool

var segmentCmd = &cobra.Command{
	Use:   "segment [note]",
	Short: "Show how a note would be segmented",
	Long: `Ask the model to segment a note and print the result. Nothing is
written to the vault.

Examples:
  notesplit segment inbox
  notesplit segment inbox --decide`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notePath := cfg.ResolveNote(firstArg(args))
		if notePath == "" {
			return fmt.Errorf("no note given")
		}

		oracle, err := llm.New(cfg)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		seg, err := commands.NewSegmentCommand(newStore(), oracle, logger, notePath).Execute(ctx)
		if err != nil {
			return err
		}

		printer := report.NewPrinter(cmd.OutOrStdout())
		printer.Segmentation(seg)
		if len(seg.Parsed.Segments) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), report.MsgNoSegments)
			return nil
		}

		if decideToo {
			decision, err := commands.NewDecideCommand(oracle, logger, cfg.MaxSegments).Execute(ctx, seg)
			if err != nil {
				return err
			}
			printer.Decision(decision)
			if len(decision.Selection) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), report.MsgNothingSelected)
			}
		}
		return nil
	},
}

func init() {
	segmentCmd.Flags().BoolVarP(&decideToo, "decide", "d", false, "also show which segments would be extracted")
	rootCmd.AddCommand(segmentCmd)
}
