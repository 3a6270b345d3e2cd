package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notesplit/internal/application"
	"notesplit/internal/domain"
	"notesplit/internal/ports"
)

// DecideResult contains the oracle's raw decision and the capped selection
type DecideResult struct {
	Decision  string
	Selection domain.Selection
}

// DecideCommand asks the oracle which segments to extract
type DecideCommand struct {
	oracle      ports.Oracle
	logger      *zap.Logger
	MaxSegments int
}

// NewDecideCommand creates a new DecideCommand
func NewDecideCommand(oracle ports.Oracle, logger *zap.Logger, maxSegments int) *DecideCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DecideCommand{
		oracle:      oracle,
		logger:      logger,
		MaxSegments: maxSegments,
	}
}

// Execute sends the segmentation table and the original note to the oracle
// and resolves its answer. An answer that cannot be read as identifiers is
// logged and yields an empty selection.
func (c *DecideCommand) Execute(ctx context.Context, seg *SegmentResult) (*DecideResult, error) {
	prompt := application.DecidePrompt(seg.Table, seg.Original)

	decision, err := classify(ctx, c.oracle, prompt, application.DecideTemperature, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decide segments to extract: %w", err)
	}

	selection, err := domain.ResolveSelection(decision, c.MaxSegments)
	if err != nil {
		c.logger.Warn("could not parse extraction response",
			zap.String("raw", decision),
			zap.Error(fmt.Errorf("%w: %v", application.ErrUnparseableSelection, err)))
		selection = domain.Selection{}
	}

	return &DecideResult{
		Decision:  decision,
		Selection: selection,
	}, nil
}
