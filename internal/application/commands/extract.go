package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"notesplit/internal/application"
	"notesplit/internal/domain"
	"notesplit/internal/ports"
)

// ExtractResult contains the extractions that succeeded and the selected
// segments that were skipped
type ExtractResult struct {
	Records []domain.ExtractionRecord
	Skipped []*application.SegmentError
}

// ExtractCommand moves selected segments of a note into new notes and
// leaves a back-reference in their place
type ExtractCommand struct {
	store  ports.NoteStore
	oracle ports.Oracle
	logger *zap.Logger
	now    func() time.Time
}

// NewExtractCommand creates a new ExtractCommand
func NewExtractCommand(store ports.NoteStore, oracle ports.Oracle, logger *zap.Logger) *ExtractCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractCommand{
		store:  store,
		oracle: oracle,
		logger: logger,
		now:    time.Now,
	}
}

// Execute processes the selection last-to-first. Line numbers in the
// segments refer to the note as the oracle saw it; every insertion made so
// far is accounted for before slicing or inserting, and a failure in one
// segment never stops the others.
func (c *ExtractCommand) Execute(ctx context.Context, buf *domain.Buffer, parsed domain.ParseResult, selection domain.Selection) *ExtractResult {
	result := &ExtractResult{}
	var (
		shifts domain.Shifts
		done   []domain.Segment
	)

	for _, id := range selection.Reversed() {
		seg, err := c.resolve(parsed, id, done)
		if err != nil {
			c.skip(result, err)
			continue
		}

		record, err := c.ExtractOne(ctx, buf, seg, &shifts)
		if err != nil {
			c.skip(result, err)
			continue
		}

		done = append(done, seg)
		result.Records = append(result.Records, *record)
		c.logger.Info("extracted segment",
			zap.Int("segment", record.SegmentID),
			zap.String("lines", record.Lines),
			zap.String("note", record.NoteName))
	}

	return result
}

// resolve finds the descriptor for id and checks that it can be extracted
func (c *ExtractCommand) resolve(parsed domain.ParseResult, id int, done []domain.Segment) (domain.Segment, error) {
	seg, ok := parsed.FindSegment(id)
	if !ok {
		return seg, &application.SegmentError{SegmentID: id, Reason: application.SkipNotFound}
	}
	if !seg.Actionable() {
		return seg, &application.SegmentError{SegmentID: id, Reason: application.SkipInvalidRange}
	}
	for _, prev := range done {
		if prev.Matches(id) {
			return seg, &application.SegmentError{SegmentID: id, Reason: application.SkipDuplicate}
		}
		if prev.Overlaps(seg) {
			return seg, &application.SegmentError{SegmentID: id, Reason: application.SkipOverlap}
		}
	}
	return seg, nil
}

// ExtractOne extracts a single actionable segment: slice the current
// buffer, name the content, create the note, then insert the
// back-reference. The buffer is only touched once the note exists.
func (c *ExtractCommand) ExtractOne(ctx context.Context, buf *domain.Buffer, seg domain.Segment, shifts *domain.Shifts) (*domain.ExtractionRecord, error) {
	id := seg.ID.Value
	start := shifts.Current(seg.Start.Value)
	end := shifts.Current(seg.End.Value)

	content, err := buf.Slice(start, end)
	if err != nil {
		return nil, &application.SegmentError{SegmentID: id, Reason: application.SkipInvalidRange, Err: err}
	}

	base, err := c.noteName(ctx, content)
	if err != nil {
		return nil, &application.SegmentError{SegmentID: id, Reason: application.SkipNaming, Err: err}
	}

	name, path, err := c.store.Create(base, domain.NoteEnvelope(c.now(), content))
	if err != nil {
		return nil, &application.SegmentError{SegmentID: id, Reason: application.SkipWrite, Err: err}
	}

	if err := buf.InsertAfter(end, domain.BackReference(name)); err != nil {
		// Unreachable after a successful slice of the same range.
		return nil, &application.SegmentError{SegmentID: id, Reason: application.SkipInsert, Err: err}
	}
	shifts.Record(seg.End.Value)

	return &domain.ExtractionRecord{
		SegmentID:   id,
		Description: seg.Description,
		Lines:       seg.Lines(),
		NoteName:    name,
		NotePath:    path,
	}, nil
}

// noteName asks the oracle for a name and makes it filesystem-safe
func (c *ExtractCommand) noteName(ctx context.Context, content string) (string, error) {
	raw, err := c.oracle.Classify(ctx, application.NamePrompt(content), application.NameTemperature)
	if err != nil {
		return "", err
	}

	name := domain.SanitizeNoteName(raw)
	if name == "" {
		c.logger.Warn("oracle returned an unusable note name, using fallback",
			zap.String("raw", raw),
			zap.String("fallback", domain.FallbackNoteName))
		name = domain.FallbackNoteName
	}
	return name, nil
}

func (c *ExtractCommand) skip(result *ExtractResult, err error) {
	var segErr *application.SegmentError
	if !errors.As(err, &segErr) {
		segErr = &application.SegmentError{Reason: application.SkipWrite, Err: err}
	}
	result.Skipped = append(result.Skipped, segErr)
	c.logger.Warn("skipping segment",
		zap.Int("segment", segErr.SegmentID),
		zap.String("reason", string(segErr.Reason)),
		zap.NamedError("cause", segErr.Err))
}
