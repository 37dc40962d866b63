// Package enhance asks a generative-text provider for additional,
// human-plausible password candidates and merges them with a mechanically
// generated wordlist.
//
// The exchange is a single request/response: build a prompt from the target's
// facts and a sample of existing guesses, send it, split the reply on commas
// and union the tokens with the input. Failures are reported through a tagged
// Outcome so callers can fall back to the mechanical list.
package enhance

import (
	"context"
	"errors"
	"strings"

	"github.com/ggsatyam/meowpass/internal/facts"
	"github.com/ggsatyam/meowpass/internal/llm"
	"github.com/ggsatyam/meowpass/internal/wordgen"
)

const (
	DefaultCount     = 50
	MaxCount         = 200
	DefaultSampleCap = 200
)

// Status is the discriminant of an Outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// ErrorKind classifies a failed Outcome.
type ErrorKind string

const (
	KindNone ErrorKind = ""
	// KindUnavailable: the provider could not be constructed (unknown
	// provider, missing key or model).
	KindUnavailable ErrorKind = "provider_unavailable"
	// KindAPI: the request failed in transport or the API returned an error.
	KindAPI ErrorKind = "api_error"
)

// Request describes one enhancement call.
type Request struct {
	Words     []string     // wordlist to enhance; also the sampling pool for the prompt
	Facts     facts.Facts  // embedded verbatim in the prompt
	Count     int          // passwords to ask for; kept in [1, MaxCount], 0 means DefaultCount
	SampleCap int          // words shown to the model; 0 means DefaultSampleCap
	Rand      wordgen.Rand // nil uses a clock-seeded source
}

// Outcome is the tagged result of an enhancement call.
type Outcome struct {
	Status   Status
	Provider string
	// Words is the union of Request.Words and Proposed. Nil on failure.
	Words    wordgen.Set
	Proposed []string
	Kind     ErrorKind
	Err      error
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool { return o.Status == StatusSuccess }

// Added is the number of proposed passwords not already in the input.
func (o Outcome) Added(inputLen int) int {
	if !o.OK() {
		return 0
	}
	return o.Words.Len() - inputLen
}

func failed(kind ErrorKind, provider string, err error) Outcome {
	return Outcome{Status: StatusFailed, Provider: provider, Kind: kind, Err: err}
}

// EnhanceWithConfig builds the provider described by cfg and runs Enhance.
func EnhanceWithConfig(ctx context.Context, cfg llm.Config, req Request) Outcome {
	p, err := llm.NewProvider(cfg)
	if err != nil {
		kind := KindAPI
		if errors.Is(err, llm.ErrUnavailable) {
			kind = KindUnavailable
		}
		return failed(kind, cfg.Provider, err)
	}
	return Enhance(ctx, p, req)
}

// Enhance sends one prompt to p and merges the reply into req.Words.
func Enhance(ctx context.Context, p llm.Provider, req Request) Outcome {
	if p == nil {
		return failed(KindUnavailable, "", llm.ErrUnavailable)
	}

	r := req.Rand
	if r == nil {
		r = wordgen.RandomSource()
	}
	sampleCap := req.SampleCap
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}
	count := NormalizeCount(req.Count)

	prompt, err := BuildPrompt(req.Facts, wordgen.Sample(r, req.Words, sampleCap), count)
	if err != nil {
		return failed(KindAPI, p.Name(), err)
	}

	reply, err := p.Complete(ctx, prompt, llm.CompletionOpts{
		System:      SystemPrompt,
		Temperature: 0.9,
	})
	if err != nil {
		return failed(KindAPI, p.Name(), err)
	}

	proposed := ParseReply(reply)
	words := wordgen.NewSet(req.Words...)
	for _, w := range proposed {
		words.Add(w)
	}
	return Outcome{
		Status:   StatusSuccess,
		Provider: p.Name(),
		Words:    words,
		Proposed: proposed,
	}
}

// NormalizeCount keeps a requested password count inside [1, MaxCount]; values
// outside the range fall back to DefaultCount, matching the interactive
// prompt's behavior.
func NormalizeCount(n int) int {
	if n < 1 || n > MaxCount {
		return DefaultCount
	}
	return n
}

// ParseReply splits a comma-separated reply and trims each token. Tokens are
// taken literally; empty tokens are kept.
func ParseReply(reply string) []string {
	parts := strings.Split(reply, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
