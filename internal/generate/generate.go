// Package generate runs the wordlist pipeline end to end: base words from
// facts, rule-based mangling, and optional AI enhancement with fallback to
// the mechanical list when the provider fails.
package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ggsatyam/meowpass/internal/enhance"
	"github.com/ggsatyam/meowpass/internal/facts"
	"github.com/ggsatyam/meowpass/internal/llm"
	"github.com/ggsatyam/meowpass/internal/output"
	"github.com/ggsatyam/meowpass/internal/wordgen"
)

// Mode names the kind of wordlist a run produced.
type Mode string

const (
	ModeNormal     Mode = "normal"
	ModeAIEnhanced Mode = "ai_enhanced"
)

// AIRequest enables the enhancement step.
type AIRequest struct {
	LLM       llm.Config
	Provider  llm.Provider // overrides LLM when set
	Count     int
	SampleCap int
}

// Request is one pipeline run.
type Request struct {
	Facts facts.Facts
	Rules wordgen.Rules
	Rand  wordgen.Rand // nil uses a clock-seeded source
	AI    *AIRequest   // nil for normal mode
}

// Result is what a run produced.
type Result struct {
	RunID       string
	Mode        Mode
	StartedAt   time.Time
	BaseCount   int
	MangleCount int
	Words       wordgen.Set
	Enhancement *enhance.Outcome // nil when AI was not requested
}

// Filename is the default output file name for the run's mode.
func (r Result) Filename(format output.Format) string {
	return output.Filename("meowpass_"+string(r.Mode), format)
}

// Meta describes the run for the output sink.
func (r Result) Meta() output.Meta {
	return output.Meta{RunID: r.RunID, Mode: string(r.Mode), CreatedAt: r.StartedAt}
}

// Run executes the pipeline. It only fails on invalid rules; an AI failure is
// recorded in Result.Enhancement and the mechanical list is returned.
func Run(ctx context.Context, req Request, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := req.Rules.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid mangle rules: %w", err)
	}
	r := req.Rand
	if r == nil {
		r = wordgen.RandomSource()
	}

	res := Result{
		RunID:     uuid.NewString(),
		Mode:      ModeNormal,
		StartedAt: time.Now().UTC(),
	}
	log = log.With(zap.String("run_id", res.RunID))

	base := wordgen.BuildBaseWords(req.Facts)
	res.BaseCount = base.Len()
	log.Debug("built base words",
		zap.Int("facts", req.Facts.Count()),
		zap.Int("base_words", res.BaseCount),
	)

	// Sorted so a seeded source reproduces the same sample.
	mangled := wordgen.NewMangler(req.Rules, r).Mangle(base.Sorted())
	res.MangleCount = mangled.Len()
	res.Words = mangled
	log.Debug("mangled base words",
		zap.Int("sample_cap", req.Rules.SampleCap),
		zap.Int("candidates", res.MangleCount),
	)

	if req.AI == nil {
		return res, nil
	}

	aiReq := enhance.Request{
		Words:     mangled.Sorted(),
		Facts:     req.Facts,
		Count:     req.AI.Count,
		SampleCap: req.AI.SampleCap,
		Rand:      r,
	}
	var outcome enhance.Outcome
	if req.AI.Provider != nil {
		outcome = enhance.Enhance(ctx, req.AI.Provider, aiReq)
	} else {
		outcome = enhance.EnhanceWithConfig(ctx, req.AI.LLM, aiReq)
	}
	res.Enhancement = &outcome

	if !outcome.OK() {
		log.Warn("AI enhancement failed, using mechanical wordlist",
			zap.String("provider", outcome.Provider),
			zap.String("kind", string(outcome.Kind)),
			zap.Error(outcome.Err),
		)
		return res, nil
	}

	log.Info("AI enhancement succeeded",
		zap.String("provider", outcome.Provider),
		zap.Int("proposed", len(outcome.Proposed)),
		zap.Int("added", outcome.Added(res.MangleCount)),
	)
	res.Mode = ModeAIEnhanced
	res.Words = outcome.Words
	return res, nil
}
