package llm

import (
	"context"
	"time"

	"notesplit/internal/ports"
)

// WithTimeout bounds every call made through oracle by d. A streaming
// oracle stays streaming. Zero returns oracle unchanged.
func WithTimeout(oracle ports.Oracle, d time.Duration) ports.Oracle {
	if d <= 0 {
		return oracle
	}
	t := &timeoutOracle{Oracle: oracle, timeout: d}
	if s, ok := oracle.(ports.StreamingOracle); ok {
		return &timeoutStreamingOracle{timeoutOracle: t, stream: s}
	}
	return t
}

type timeoutOracle struct {
	ports.Oracle
	timeout time.Duration
}

func (o *timeoutOracle) Classify(ctx context.Context, prompt string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.Oracle.Classify(ctx, prompt, temperature)
}

type timeoutStreamingOracle struct {
	*timeoutOracle
	stream ports.StreamingOracle
}

func (o *timeoutStreamingOracle) Stream(ctx context.Context, prompt string, temperature float64, chunks chan<- string) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.stream.Stream(ctx, prompt, temperature, chunks)
}
