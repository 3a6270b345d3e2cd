package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"notesplit/internal/ports"
)

// waitingOracle blocks until ctx ends or delay passes
type waitingOracle struct {
	delay    time.Duration
	deadline bool
}

func (o *waitingOracle) Name() string { return "waiting" }

func (o *waitingOracle) Classify(ctx context.Context, _ string, _ float64) (string, error) {
	_, o.deadline = ctx.Deadline()
	select {
	case <-time.After(o.delay):
		return "ok", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type waitingStreamer struct {
	waitingOracle
}

func (o *waitingStreamer) Stream(ctx context.Context, prompt string, temperature float64, chunks chan<- string) error {
	defer close(chunks)
	out, err := o.Classify(ctx, prompt, temperature)
	if err != nil {
		return err
	}
	chunks <- out
	return nil
}

func TestWithTimeout_Zero(t *testing.T) {
	inner := &waitingOracle{}
	if got := WithTimeout(inner, 0); got != ports.Oracle(inner) {
		t.Errorf("WithTimeout(0) wrapped the oracle: %T", got)
	}
}

func TestWithTimeout_EachCallGetsItsOwnDeadline(t *testing.T) {
	inner := &waitingOracle{delay: 20 * time.Millisecond}
	oracle := WithTimeout(inner, 60*time.Millisecond)

	for i := 0; i < 4; i++ {
		out, err := oracle.Classify(context.Background(), "p", 0)
		if err != nil || out != "ok" {
			t.Fatalf("call %d: out=%q err=%v", i, out, err)
		}
	}
	if !inner.deadline {
		t.Error("inner call saw no deadline")
	}
	if oracle.Name() != "waiting" {
		t.Errorf("Name() = %q", oracle.Name())
	}
}

func TestWithTimeout_SlowCallExpires(t *testing.T) {
	oracle := WithTimeout(&waitingOracle{delay: time.Second}, 10*time.Millisecond)

	_, err := oracle.Classify(context.Background(), "p", 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestWithTimeout_KeepsStreaming(t *testing.T) {
	oracle := WithTimeout(&waitingStreamer{waitingOracle{delay: time.Millisecond}}, time.Second)

	s, ok := oracle.(ports.StreamingOracle)
	if !ok {
		t.Fatalf("%T does not stream", oracle)
	}
	chunks := make(chan string, 1)
	if err := s.Stream(context.Background(), "p", 0, chunks); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if got := <-chunks; got != "ok" {
		t.Errorf("chunk = %q", got)
	}
}
