package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvbarbosa/pdfdigest/internal/common"
	"github.com/mvbarbosa/pdfdigest/internal/entity"
	"github.com/mvbarbosa/pdfdigest/internal/llm"
)

// Config for the extraction retry loop.
type Config struct {
	MaxAttempts int // defaults to 3
}

// Extractor drives the escalating-prompt retry loop: build a tier prompt,
// run the agent, recover JSON, check the shape, and decide whether to
// accept, escalate, or fail. The tiers run strictly sequentially since
// each tier's prompt exists only because the previous one failed. An
// Extractor holds no mutable state and is safe for concurrent use.
type Extractor struct {
	agent  llm.Runner
	cfg    Config
	logger *slog.Logger
}

func New(agent llm.Runner, cfg Config, logger *slog.Logger) *Extractor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{agent: agent, cfg: cfg, logger: logger}
}

// Input for one extraction run.
type Input struct {
	FilePath     string
	DocumentText string
}

var (
	errEmptyStructure = errors.New("agent returned the empty-structure marker")
	errEmptyResult    = errors.New("agent returned empty trades and fees arrays")
)

type outcome int

const (
	outcomeAccept outcome = iota
	outcomeRetry
	outcomeFail
)

// classify applies the per-attempt decision table to one agent response.
// It is pure so the retry/stop rules are testable without an agent.
func classify(content string, attempt, maxAttempts int) (doc []byte, trades, fees int, out outcome, err error) {
	final := attempt >= maxAttempts-1

	// The literal empty-structure marker short-circuits recovery on
	// non-final tiers; on the final tier it falls through and is judged
	// on its parsed content.
	if strings.Contains(content, `trades":[]`) && strings.Contains(content, `fees":[]`) && !final {
		return nil, 0, 0, outcomeRetry, errEmptyStructure
	}

	jsonStr, err := llm.RecoverJSON(content)
	if err != nil {
		if final {
			return nil, 0, 0, outcomeFail, err
		}
		return nil, 0, 0, outcomeRetry, err
	}
	doc = []byte(jsonStr)

	var probe any
	if err := json.Unmarshal(doc, &probe); err != nil {
		perr := common.NewParseError(fmt.Sprintf("recovered content is not valid JSON: %v", err), jsonStr)
		if final {
			return nil, 0, 0, outcomeFail, perr
		}
		return nil, 0, 0, outcomeRetry, perr
	}

	trades, fees, err = llm.CheckShape(doc)
	if err != nil {
		if final {
			return nil, 0, 0, outcomeFail, err
		}
		return nil, 0, 0, outcomeRetry, err
	}

	// An all-empty result below the final tier reads as an extraction
	// miss; on the final tier it is accepted, since a document with
	// genuinely no trades looks exactly the same.
	if trades == 0 && fees == 0 && !final {
		return nil, 0, 0, outcomeRetry, errEmptyResult
	}

	return doc, trades, fees, outcomeAccept, nil
}

// Run executes up to MaxAttempts sequential attempts and returns the
// fully validated result. Agent and parsing failures burn retry budget;
// a post-acceptance business-rule violation is terminal immediately.
// Run blocks on each agent call and imposes no timeout of its own.
func (e *Extractor) Run(ctx context.Context, in Input) (*entity.ExtractionResult, error) {
	rid := uuid.New().String()
	start := time.Now()
	max := e.cfg.MaxAttempts

	var lastErr error
	for n := 0; n < max; n++ {
		e.logger.Info("extract.attempt",
			"req_id", rid,
			"attempt", n+1,
			"max_attempts", max,
			"text_len", len(in.DocumentText),
		)

		prompt := llm.BuildPrompt(n, llm.PromptInput{
			DocumentText: in.DocumentText,
			FilePath:     in.FilePath,
		})

		content, err := e.agent.Run(ctx, prompt)
		if err != nil {
			lastErr = err
			e.logger.Warn("extract.agent_error", "req_id", rid, "attempt", n+1, "error", err)
			continue
		}

		doc, trades, fees, out, err := classify(content, n, max)
		switch out {
		case outcomeRetry:
			lastErr = err
			e.logger.Warn("extract.retry", "req_id", rid, "attempt", n+1, "reason", err)
			continue

		case outcomeFail:
			lastErr = err
			e.logDiagnosis(rid, in, lastErr)
			return nil, common.NewConversionError(
				fmt.Sprintf("extraction failed after %d attempts", max), lastErr)

		case outcomeAccept:
			if trades == 0 && fees == 0 {
				e.logger.Warn("extract.empty_result",
					"req_id", rid, "attempt", n+1,
					"hint", "document may not contain a B3 trade note",
				)
			}

			res, err := llm.ValidateExtraction(doc)
			if err != nil {
				// The retry budget covers the agent and parsing, not
				// business-rule conformance: a validation failure after
				// acceptance is fatal.
				e.logger.Error("extract.validation_failed", "req_id", rid, "attempt", n+1, "error", err)
				return nil, common.NewConversionError("extraction result failed validation", err)
			}

			e.logger.Info("extract.ok",
				"req_id", rid,
				"attempt", n+1,
				"trades", len(res.Trades),
				"fees", len(res.Fees),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return res, nil
		}
	}

	e.logDiagnosis(rid, in, lastErr)
	return nil, common.NewConversionError(
		fmt.Sprintf("extraction failed after %d attempts", max), lastErr)
}

// logDiagnosis emits the terminal-failure snapshot: file size, agent
// wiring, last error.
func (e *Extractor) logDiagnosis(rid string, in Input, lastErr error) {
	var fileSize int64 = -1
	if st, err := os.Stat(in.FilePath); err == nil {
		fileSize = st.Size()
	}
	e.logger.Error("extract.diagnosis",
		"req_id", rid,
		"file", in.FilePath,
		"file_size", fileSize,
		"text_len", len(in.DocumentText),
		"agent_configured", e.agent != nil,
		"last_error", lastErr,
	)
}
