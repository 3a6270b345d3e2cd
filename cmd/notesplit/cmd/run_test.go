package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"notesplit/internal/adapters/filesystem"
	"notesplit/internal/adapters/llm"
	"notesplit/internal/application/commands"
	"notesplit/internal/domain"
)

func TestLinks(t *testing.T) {
	records := []domain.ExtractionRecord{{NoteName: "b"}, {NoteName: "a-1"}}

	if got := Links(records); got != "[[b]]\n[[a-1]]" {
		t.Errorf("Links() = %q", got)
	}
}

// pacedOracle answers after delay unless ctx ends first
type pacedOracle struct {
	delay time.Duration
}

func (o *pacedOracle) Name() string { return "paced" }

func (o *pacedOracle) Classify(ctx context.Context, prompt string, _ float64) (string, error) {
	select {
	case <-time.After(o.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	switch {
	case strings.HasPrefix(prompt, "Analyze the following"):
		return "1,1,2,intro\n2,3,5,idea", nil
	case strings.HasPrefix(prompt, "You are helping with knowledge management"):
		return "2", nil
	default:
		return "Idea", nil
	}
}

// slowReviewer confirms the selection after the operator takes their time
type slowReviewer struct {
	wait time.Duration
}

func (r *slowReviewer) Review(_ []domain.Segment, sel domain.Selection) (domain.Selection, error) {
	time.Sleep(r.wait)
	return sel, nil
}

func TestRun_SlowReviewDoesNotExpireOracleCalls(t *testing.T) {
	vault := t.TempDir()
	note := filepath.Join(vault, "inbox.md")
	if err := os.WriteFile(note, []byte("a\nb\nc\nd\ne"), 0644); err != nil {
		t.Fatal(err)
	}

	oracle := llm.WithTimeout(&pacedOracle{delay: 5 * time.Millisecond}, 50*time.Millisecond)
	opts := commands.RunOptions{
		NotePath:  note,
		VaultPath: vault,
		Reviewer:  &slowReviewer{wait: 100 * time.Millisecond},
	}

	result, err := commands.NewRunCommand(filesystem.NewStore(vault, ".md"), oracle, nil, opts).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Outcome != commands.OutcomeExtracted {
		t.Fatalf("outcome = %v, extracted = %+v", result.Outcome, result.Extracted)
	}
	if records := result.Records(); len(records) != 1 || records[0].NoteName != "idea" {
		t.Errorf("records = %+v", records)
	}
}
