package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crisisalpha/crisisalpha/internal/llm"
	"github.com/crisisalpha/crisisalpha/internal/metrics"
	"github.com/crisisalpha/crisisalpha/internal/models"
)

const generatorPersona = `As a Crisis Portfolio AI, analyze the crisis situation described by the user and generate allocation recommendations (%) across exactly these five asset buckets:
- Defense (e.g. LMT, RTX)
- Gold (e.g. GLD)
- ESG (e.g. ICLN, ESGU)
- Crypto (e.g. BTC-USD, ETH-USD)
- Cash

`

// Generator turns an assembled prompt context into a validated allocation.
// The completion backend is an untrusted oracle: its numeric output is parsed,
// checked against the percentage-sum contract and repaired before it is ever
// returned as financial guidance.
type Generator struct {
	completer    llm.Completer
	parser       ResponseParser
	systemPrompt string
	jsonMode     bool
	collector    *metrics.Collector
	logger       *slog.Logger
}

// NewGenerator creates a generator using the parser strategy named in
// configuration ("json" or "marker"). The collector may be nil.
func NewGenerator(completer llm.Completer, strategy string, collector *metrics.Collector, logger *slog.Logger) (*Generator, error) {
	parser, err := NewParser(strategy)
	if err != nil {
		return nil, err
	}

	return &Generator{
		completer:    completer,
		parser:       parser,
		systemPrompt: generatorPersona + parser.Instructions(),
		jsonMode:     strategy == "json",
		collector:    collector,
		logger:       logger,
	}, nil
}

// Generate submits the context to the backend and returns a validated result
// or exactly one of the typed failures: *UpstreamUnavailableError,
// *MalformedResponseError, *DegenerateAllocationError. Failures are surfaced,
// never retried.
func (g *Generator) Generate(ctx context.Context, promptContext string) (*models.AllocationResult, error) {
	raw, err := g.completer.Complete(ctx, llm.Request{
		System:    g.systemPrompt,
		User:      promptContext,
		JSONMode:  g.jsonMode,
		Operation: "allocation",
	})
	if err != nil {
		return nil, &UpstreamUnavailableError{Err: err}
	}

	parsed, err := g.parser.Parse(raw)
	if err != nil {
		g.logger.Error("unparsable allocation response", "error", err, "raw", truncate(raw, 500))
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}

	validated, err := validate(parsed)
	if err != nil {
		if degenerate, ok := err.(*DegenerateAllocationError); ok {
			g.logger.Error("degenerate allocation response", "sum", degenerate.Sum)
			return nil, degenerate
		}
		g.logger.Error("allocation violates numeric contract", "error", err, "raw", truncate(raw, 500))
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}

	if sumOf(validated.values()) != sumOf(parsed.values()) {
		g.collector.ObserveRepair()
		g.logger.Warn("allocation repaired to sum 100",
			"original_sum", fmt.Sprintf("%.2f", sumOf(parsed.values())))
	}

	return &models.AllocationResult{
		ID:          uuid.NewString(),
		Defense:     validated.Defense,
		Gold:        validated.Gold,
		ESG:         validated.ESG,
		Crypto:      validated.Crypto,
		Cash:        validated.Cash,
		Reasoning:   validated.Reasoning,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func sumOf(values [bucketCount]float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
