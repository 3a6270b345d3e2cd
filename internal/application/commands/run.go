package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"notesplit/internal/application"
	"notesplit/internal/domain"
	"notesplit/internal/ports"
)

// RunOutcome summarizes how a run ended
type RunOutcome int

const (
	OutcomeNoSegments RunOutcome = iota
	OutcomeNothingSelected
	OutcomeNothingExtracted
	OutcomeExtracted
)

// RunResult contains everything a run produced, for reporting
type RunResult struct {
	Outcome   RunOutcome
	Segments  *SegmentResult
	Decision  *DecideResult
	Extracted *ExtractResult

	// Before and After hold the source note around the run. After equals
	// Before when nothing was extracted.
	Before string
	After  string

	// Persisted is true once the source note has been rewritten
	Persisted bool
}

// Records returns the successful extractions, or nil
func (r *RunResult) Records() []domain.ExtractionRecord {
	if r.Extracted == nil {
		return nil
	}
	return r.Extracted.Records
}

// ReferenceLine returns the 1-based line of the first back-reference in the
// rewritten note, or 0 when nothing was extracted
func (r *RunResult) ReferenceLine() int {
	records := r.Records()
	if len(records) == 0 {
		return 0
	}
	refs := make(map[string]bool, len(records))
	for _, rec := range records {
		refs[domain.BackReference(rec.NoteName)] = true
	}
	for i, line := range strings.Split(r.After, "\n") {
		if refs[strings.TrimSuffix(line, "\r")] {
			return i + 1
		}
	}
	return 0
}

// RunOptions configures a RunCommand
type RunOptions struct {
	NotePath     string
	VaultPath    string
	MaxSegments  int
	LockDocument bool

	// Echo receives the segmentation table as it streams in (optional)
	Echo io.Writer
	// Reviewer lets the operator trim the selection (optional)
	Reviewer ports.SelectionReviewer
	// Index is kept in sync with created notes and links (optional)
	Index ports.LinkIndex
}

// RunCommand runs the whole pipeline on one note: segment, decide,
// extract, then write the note back exactly once
type RunCommand struct {
	store  ports.NoteStore
	oracle ports.Oracle
	logger *zap.Logger
	opts   RunOptions
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(store ports.NoteStore, oracle ports.Oracle, logger *zap.Logger, opts RunOptions) *RunCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxSegments <= 0 {
		opts.MaxSegments = domain.DefaultMaxSegments
	}
	return &RunCommand{
		store:  store,
		oracle: oracle,
		logger: logger,
		opts:   opts,
	}
}

// Validate checks if the run is valid
func (c *RunCommand) Validate() error {
	if err := application.ValidateRequired("notePath", c.opts.NotePath); err != nil {
		return err
	}
	return application.ValidatePositive("maxSegments", c.opts.MaxSegments)
}

// Execute runs the pipeline. The source note is left untouched unless at
// least one segment was extracted. A *application.PersistError is returned
// together with the result when the final write fails.
func (c *RunCommand) Execute(ctx context.Context) (*RunResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.opts.LockDocument {
		unlock, err := c.store.Lock(c.opts.NotePath)
		if err != nil {
			return nil, err
		}
		defer func() {
			if uerr := unlock(); uerr != nil {
				c.logger.Warn("failed to release note lock", zap.Error(uerr))
			}
		}()
	}

	segCmd := NewSegmentCommand(c.store, c.oracle, c.logger, c.opts.NotePath)
	segCmd.Echo = c.opts.Echo
	seg, err := segCmd.Execute(ctx)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Segments: seg,
		Before:   seg.Original,
		After:    seg.Original,
	}
	if len(seg.Parsed.Segments) == 0 {
		result.Outcome = OutcomeNoSegments
		return result, nil
	}

	decision, err := NewDecideCommand(c.oracle, c.logger, c.opts.MaxSegments).Execute(ctx, seg)
	if err != nil {
		return result, err
	}
	result.Decision = decision

	selection := decision.Selection
	if c.opts.Reviewer != nil && len(selection) > 0 {
		selection, err = c.opts.Reviewer.Review(seg.Parsed.Segments, selection)
		if err != nil {
			return result, fmt.Errorf("selection review failed: %w", err)
		}
		decision.Selection = selection
	}
	if len(selection) == 0 {
		result.Outcome = OutcomeNothingSelected
		return result, nil
	}

	extracted := NewExtractCommand(c.store, c.oracle, c.logger).Execute(ctx, seg.Buffer, seg.Parsed, selection)
	result.Extracted = extracted
	if len(extracted.Records) == 0 {
		result.Outcome = OutcomeNothingExtracted
		return result, nil
	}
	result.Outcome = OutcomeExtracted

	if err := c.persist(seg.Buffer); err != nil {
		return result, err
	}
	result.After = seg.Buffer.Text()
	result.Persisted = true

	c.syncIndex(extracted.Records)
	return result, nil
}

// persist writes the mutated buffer back to the source note in one write
func (c *RunCommand) persist(buf *domain.Buffer) error {
	if err := c.store.WriteDocument(buf.Path(), buf.Text()); err != nil {
		return &application.PersistError{Path: buf.Path(), Err: err}
	}
	return nil
}

// syncIndex records the created notes and the new links from the source
// note. The index is a cache, so failures are only logged.
func (c *RunCommand) syncIndex(records []domain.ExtractionRecord) {
	if c.opts.Index == nil {
		return
	}
	if err := UpdateIndex(c.opts.Index, c.opts.VaultPath, c.opts.NotePath, records); err != nil {
		c.logger.Warn("failed to update link index", zap.Error(err))
	}
}

// UpdateIndex upserts the derived notes and the source note's new links
// in a single transaction
func UpdateIndex(index ports.LinkIndex, vaultPath, notePath string, records []domain.ExtractionRecord) (err error) {
	tx, err := index.BeginTx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	now := time.Now().Unix()
	source := relativePath(vaultPath, notePath)
	if err := tx.UpsertNode(&domain.IndexNode{Path: source, Name: noteNameFromPath(notePath), Mtime: now}); err != nil {
		return err
	}

	for _, r := range records {
		node := &domain.IndexNode{Path: relativePath(vaultPath, r.NotePath), Name: r.NoteName, Mtime: now}
		if err := tx.UpsertNode(node); err != nil {
			return err
		}
		edge := &domain.Edge{SourcePath: source, TargetName: r.NoteName, LinkText: "[[" + r.NoteName + "]]"}
		if err := tx.InsertEdge(edge); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func relativePath(vaultPath, path string) string {
	if vaultPath == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(vaultPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func noteNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
