package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"notesplit/internal/application"
	"notesplit/internal/domain"
	"notesplit/internal/ports"
)

// SegmentResult contains the note and the oracle's view of its segments
type SegmentResult struct {
	Buffer   *domain.Buffer
	Original string
	Table    string
	Parsed   domain.ParseResult
}

// SegmentCommand reads a note and asks the oracle to segment it
type SegmentCommand struct {
	store    ports.NoteStore
	oracle   ports.Oracle
	logger   *zap.Logger
	NotePath string

	// Echo receives the segmentation table while it streams in, when the
	// oracle supports streaming
	Echo io.Writer
}

// NewSegmentCommand creates a new SegmentCommand
func NewSegmentCommand(store ports.NoteStore, oracle ports.Oracle, logger *zap.Logger, notePath string) *SegmentCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SegmentCommand{
		store:    store,
		oracle:   oracle,
		logger:   logger,
		NotePath: notePath,
	}
}

// Validate checks if the segment operation is valid
func (c *SegmentCommand) Validate() error {
	return application.ValidateRequired("notePath", c.NotePath)
}

// Execute reads the note, renders it with line numbers and parses the
// oracle's segmentation table. An unreadable note is fatal; malformed rows
// are logged and skipped.
func (c *SegmentCommand) Execute(ctx context.Context) (*SegmentResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	content, err := c.store.ReadDocument(c.NotePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", application.ErrDocumentUnreadable, c.NotePath, err)
	}

	buf := domain.NewBuffer(c.NotePath, content)
	prompt := application.SegmentPrompt(buf.RenderNumbered())

	table, err := classify(ctx, c.oracle, prompt, application.SegmentTemperature, c.Echo)
	if err != nil {
		return nil, fmt.Errorf("failed to segment note: %w", err)
	}

	parsed := domain.ParseSegments(table)
	for _, row := range parsed.Malformed {
		c.logger.Warn("skipping malformed row",
			zap.Int("line", row.Line),
			zap.Strings("fields", row.Fields),
			zap.String("reason", row.Reason))
	}
	if len(parsed.Segments) == 0 {
		c.logger.Error("oracle returned no segments", zap.String("raw", table))
	}
	c.logger.Debug("segmented note",
		zap.String("note", c.NotePath),
		zap.Int("lines", buf.Len()),
		zap.Int("segments", len(parsed.Segments)))

	return &SegmentResult{
		Buffer:   buf,
		Original: content,
		Table:    table,
		Parsed:   parsed,
	}, nil
}

// classify calls the oracle, streaming into echo when both sides allow it
func classify(ctx context.Context, oracle ports.Oracle, prompt string, temperature float64, echo io.Writer) (string, error) {
	streaming, ok := oracle.(ports.StreamingOracle)
	if !ok || echo == nil {
		out, err := oracle.Classify(ctx, prompt, temperature)
		return strings.TrimSpace(out), err
	}

	chunks := make(chan string)
	errc := make(chan error, 1)
	go func() {
		errc <- streaming.Stream(ctx, prompt, temperature, chunks)
	}()

	out := Collect(chunks, echo)
	if err := <-errc; err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Collect concatenates streamed chunks into the full response, copying each
// chunk to echo as it arrives. It returns when chunks is closed.
func Collect(chunks <-chan string, echo io.Writer) string {
	var sb strings.Builder
	for chunk := range chunks {
		sb.WriteString(chunk)
		if echo != nil {
			io.WriteString(echo, chunk)
		}
	}
	return sb.String()
}
