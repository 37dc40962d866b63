// Package mcp provides a Model Context Protocol server for meowpass.
//
// It exposes the deterministic parts of the pipeline (base word building,
// mangling, mechanical generation) as MCP tools and the active mangle rules as
// an MCP resource. The server never calls an LLM provider.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ggsatyam/meowpass/internal/facts"
	"github.com/ggsatyam/meowpass/internal/generate"
	"github.com/ggsatyam/meowpass/internal/wordgen"
)

const (
	defaultLimit = 1000
	maxLimit     = 10000
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Version string        // version string for MCP server info
	Rules   wordgen.Rules // zero value means wordgen.DefaultRules()
	Logger  *zap.Logger
}

type wordsResult struct {
	Count     int      `json:"count"`
	Passwords []string `json:"passwords"`
}

// NewServer creates a configured MCP server with all meowpass tools and resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	rules := cfg.Rules
	if rules.Years == nil && rules.Symbols == nil && rules.Leet == nil {
		rules = wordgen.DefaultRules()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := server.NewMCPServer(
		"meowpass",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	registerBaseWordsTool(s)
	registerMangleTool(s, rules)
	registerGenerateTool(s, rules, log)
	registerRulesResource(s, rules)

	return s
}

// --- Tools ---

func registerBaseWordsTool(s *server.MCPServer) {
	tool := mcp.NewTool("meowpass_base_words",
		mcp.WithDescription("Build the base word set from a facts document: every fact lowercased plus every ordered pair of distinct facts concatenated."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithObject("facts",
			mcp.Required(),
			mcp.Description(`Facts keyed by category, each a list of strings (e.g. {"pet": ["Fluffy"], "year": ["1999"]})`),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum passwords to return (default: 1000, max: 10000)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f, err := factsArg(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return wordsResultText(wordgen.BuildBaseWords(f), limitArg(req))
	})
}

func registerMangleTool(s *server.MCPServer, rules wordgen.Rules) {
	tool := mcp.NewTool("meowpass_mangle",
		mcp.WithDescription("Apply capitalization, leetspeak, year, number and symbol rules to a random sample of the given words. Returns the input words plus all mangled candidates."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithArray("words",
			mcp.Required(),
			mcp.Description("Words to mangle"),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("seed",
			mcp.Description("Seed for the sampling draw; omit for a random sample"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum passwords to return (default: 1000, max: 10000)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		words, err := stringsArg(req, "words")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out := wordgen.NewMangler(rules, randArg(req)).Mangle(words)
		return wordsResultText(out, limitArg(req))
	})
}

func registerGenerateTool(s *server.MCPServer, rules wordgen.Rules, log *zap.Logger) {
	tool := mcp.NewTool("meowpass_generate",
		mcp.WithDescription("Run the mechanical pipeline on a facts document: base words then mangling. No AI enhancement."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithObject("facts",
			mcp.Required(),
			mcp.Description("Facts keyed by category, each a list of strings"),
		),
		mcp.WithNumber("seed",
			mcp.Description("Seed for the sampling draw; omit for a random sample"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum passwords to return (default: 1000, max: 10000)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f, err := factsArg(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := generate.Run(ctx, generate.Request{
			Facts: f,
			Rules: rules,
			Rand:  randArg(req),
		}, log)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("generate: %v", err)), nil
		}
		return wordsResultText(res.Words, limitArg(req))
	})
}

// --- Resources ---

type rulesView struct {
	Years     []string          `json:"years"`
	Symbols   []string          `json:"symbols"`
	Leet      map[string]string `json:"leet"`
	SuffixMin int               `json:"suffix_min"`
	SuffixMax int               `json:"suffix_max"`
	SampleCap int               `json:"sample_cap"`
}

func registerRulesResource(s *server.MCPServer, rules wordgen.Rules) {
	resource := mcp.NewResource(
		"meowpass://rules",
		"Mangle Rules",
		mcp.WithResourceDescription("Years, symbols, leetspeak map, numeric suffix range and sample cap used by the mangle tools."),
		mcp.WithMIMEType("application/json"),
	)

	view := rulesView{
		Years:     rules.Years,
		Symbols:   rules.Symbols,
		Leet:      make(map[string]string, len(rules.Leet)),
		SuffixMin: rules.SuffixMin,
		SuffixMax: rules.SuffixMax,
		SampleCap: rules.SampleCap,
	}
	for k, v := range rules.Leet {
		view.Leet[string(k)] = v
	}

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding rules: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}

// --- Argument helpers ---

func factsArg(req mcp.CallToolRequest) (facts.Facts, error) {
	switch v := req.GetArguments()["facts"].(type) {
	case map[string]any:
		return facts.FromMap(v)
	case string:
		return facts.Parse([]byte(v), "json")
	case nil:
		return nil, fmt.Errorf("facts is required")
	default:
		return nil, fmt.Errorf("facts must be an object of string lists, got %T", v)
	}
}

func stringsArg(req mcp.CallToolRequest, name string) ([]string, error) {
	raw, ok := req.GetArguments()[name]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%s is required", name)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of strings, got %T", name, raw)
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string, got %T", name, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func randArg(req mcp.CallToolRequest) wordgen.Rand {
	if v, err := req.RequireFloat("seed"); err == nil {
		return wordgen.NewRand(uint64(int64(v)))
	}
	return wordgen.RandomSource()
}

func limitArg(req mcp.CallToolRequest) int {
	limit := defaultLimit
	if v, err := req.RequireFloat("limit"); err == nil {
		limit = int(v)
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

func wordsResultText(set wordgen.Set, limit int) (*mcp.CallToolResult, error) {
	words := set.Sorted()
	if len(words) > limit {
		words = words[:limit]
	}
	data, err := json.MarshalIndent(wordsResult{Count: set.Len(), Passwords: words}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
