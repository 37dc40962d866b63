package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ggsatyam/meowpass/internal/config"
	"github.com/ggsatyam/meowpass/internal/facts"
	"github.com/ggsatyam/meowpass/internal/generate"
	"github.com/ggsatyam/meowpass/internal/llm"
	"github.com/ggsatyam/meowpass/internal/output"
	"github.com/ggsatyam/meowpass/internal/wordgen"
)

type generateOptions struct {
	Facts  string
	OutDir string
	Format string
	AI     bool
	LLM    string
	APIKey string
	Count  int
	Seed   uint64
	Seeded bool
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a wordlist without prompts",
	Long: `Generate a wordlist from a facts document (JSON or YAML) and write it to
meowpass_normal.<ext> or meowpass_ai_enhanced.<ext>.

Examples:
  meowpass generate --facts target.json
  meowpass generate --facts target.yaml --format txt --out ./lists
  meowpass generate --ai --llm openrouter/mistralai/mistral-7b-instruct --count 100`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		genOpts.Seeded = cmd.Flags().Changed("seed")
		_, err := runGenerate(cmd.Context(), genOpts, cmd.OutOrStdout(), logger)
		return err
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genOpts.Facts, "facts", "", "Facts document, .json or .yaml (default: data.json)")
	f.StringVar(&genOpts.OutDir, "out", "", "Output directory (default: current directory)")
	f.StringVar(&genOpts.Format, "format", "", "Output format: json, txt, sqlite (default: json)")
	f.BoolVar(&genOpts.AI, "ai", false, "Enhance the list with LLM-proposed passwords")
	f.StringVar(&genOpts.LLM, "llm", "", "LLM provider/model, e.g. google/gemini-2.5-flash or openrouter/<model>")
	f.StringVar(&genOpts.APIKey, "api-key", "", "API key for the LLM provider (or GEMINI_API_KEY / OPENROUTER_API_KEY)")
	f.IntVar(&genOpts.Count, "count", 0, "Number of AI passwords to request, 1-200 (default: 50)")
	f.Uint64Var(&genOpts.Seed, "seed", 0, "Seed for sampling draws; omit for a random run")
}

// runGenerate resolves configuration, runs the pipeline and writes the result.
// It returns the written path.
func runGenerate(ctx context.Context, opts generateOptions, out io.Writer, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	resolved, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath: configPath,
		CLIFacts:   opts.Facts,
		CLIOutDir:  opts.OutDir,
		CLIFormat:  opts.Format,
		CLILLM:     opts.LLM,
		CLIAPIKey:  opts.APIKey,
		CLICount:   opts.Count,
	})
	if err != nil {
		return "", err
	}

	format, err := output.ParseFormat(resolved.Format.Value)
	if err != nil {
		return "", err
	}

	f, err := facts.Load(resolved.FactsPath.Value)
	if err != nil {
		return "", factsError(resolved.FactsPath.Value, err)
	}
	log.Debug("loaded facts",
		zap.String("path", resolved.FactsPath.Value),
		zap.String("source", string(resolved.FactsPath.Source)),
		zap.Int("facts", f.Count()),
	)

	req := generate.Request{Facts: f, Rules: resolved.Rules}
	if opts.Seeded {
		req.Rand = wordgen.NewRand(opts.Seed)
	}
	if opts.AI {
		llmCfg, err := llm.ParseLLMFlag(resolved.LLM.Value)
		if err != nil {
			return "", err
		}
		llmCfg.APIKey = resolved.APIKeyForProvider(llmCfg.Provider).Value
		req.AI = &generate.AIRequest{
			LLM:       llmCfg,
			Count:     resolved.Count(),
			SampleCap: resolved.AISampleCap,
		}
	}

	res, err := generate.Run(ctx, req, log)
	if err != nil {
		return "", err
	}
	reportEnhancement(out, res)

	path, err := output.ResolveDestination(resolved.OutputDir.Value, res.Filename(format))
	if err != nil {
		return "", err
	}
	if err := output.Write(ctx, path, res.Words.Sorted(), format, res.Meta()); err != nil {
		return "", err
	}
	log.Info("wordlist written",
		zap.String("run_id", res.RunID),
		zap.String("path", path),
		zap.String("mode", string(res.Mode)),
		zap.Int("count", res.Words.Len()),
	)
	printPanel(out, "Generation Complete", summary(res.Words.Len(), path), colorGreen)
	return path, nil
}

func reportEnhancement(out io.Writer, res generate.Result) {
	if res.Enhancement == nil {
		return
	}
	if res.Enhancement.OK() {
		fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("-> AI enhancement successful (%d new passwords).",
			res.Enhancement.Added(res.MangleCount))))
		return
	}
	printPanel(out, "AI Error",
		errorStyle.Render("AI Failed: ")+res.Enhancement.Err.Error()+"\n"+
			warnStyle.Render("Continuing with the mechanical wordlist."),
		colorRed)
}

func factsError(path string, err error) error {
	switch {
	case errors.Is(err, facts.ErrNotFound):
		return fmt.Errorf("facts file not found at %q: %w", path, err)
	case errors.Is(err, facts.ErrMalformed):
		return fmt.Errorf("facts file %q is corrupt: %w", path, err)
	}
	return err
}
