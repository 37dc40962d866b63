package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ggsatyam/meowpass/internal/config"
	"github.com/ggsatyam/meowpass/internal/enhance"
	"github.com/ggsatyam/meowpass/internal/facts"
	"github.com/ggsatyam/meowpass/internal/generate"
	"github.com/ggsatyam/meowpass/internal/llm"
	"github.com/ggsatyam/meowpass/internal/output"
	"github.com/ggsatyam/meowpass/internal/wordgen"
)

// session drives the interactive menu over a line reader.
type session struct {
	in   *bufio.Reader
	out  io.Writer
	cfg  config.ResolvedConfig
	log  *zap.Logger
	rand wordgen.Rand // nil for a clock-seeded run
}

func newSession(in io.Reader, out io.Writer, cfg config.ResolvedConfig, log *zap.Logger) *session {
	if log == nil {
		log = zap.NewNop()
	}
	return &session{in: bufio.NewReader(in), out: out, cfg: cfg, log: log}
}

// ask prints prompt and returns the trimmed reply. io.EOF is returned only
// when no input is left at all.
func (s *session) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, boldStyle.Render(prompt))
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *session) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	printBanner(s.out)
	fmt.Fprintf(s.out, "\n%s\n  %s\n  %s\n  %s\n",
		boldStyle.Render("Choose a mode:"),
		cyanStyle.Render("(1) Normal"),
		accentStyle.Render("(2) AI-Assisted"),
		"(3) Quit",
	)
	choice, err := s.ask("Enter choice: ")
	if err != nil {
		return nil
	}

	switch choice {
	case "3":
		fmt.Fprintln(s.out, "\n"+warnStyle.Render("Exiting MEOWPASS. Goodbye!"))
		return nil
	case "1", "2":
	default:
		fmt.Fprintln(s.out, "\n"+errorStyle.Render("Invalid choice."))
		return nil
	}

	path, err := s.ask(fmt.Sprintf("Facts file (default: %s): ", s.cfg.FactsPath.Value))
	if err != nil {
		return nil
	}
	if path == "" {
		path = s.cfg.FactsPath.Value
	}
	f, err := facts.Load(path)
	switch {
	case errors.Is(err, facts.ErrNotFound):
		printPanel(s.out, "File Error", errorStyle.Render("ERROR: File not found at ")+cyanStyle.Render(path)+".", colorRed)
		return nil
	case errors.Is(err, facts.ErrMalformed):
		printPanel(s.out, "File Error", errorStyle.Render("ERROR: The file at ")+cyanStyle.Render(path)+errorStyle.Render(" is corrupt.")+"\n"+err.Error(), colorRed)
		return nil
	case err != nil:
		return err
	}

	req := generate.Request{Facts: f, Rules: s.cfg.Rules, Rand: s.rand}
	if choice == "2" {
		ai, err := s.askAI()
		if err != nil {
			return nil
		}
		req.AI = ai
	}

	fmt.Fprintln(s.out, "\n"+stepStyle.Render("Step 1: Generating base words..."))
	fmt.Fprintln(s.out, stepStyle.Render("Step 2: Applying systematic rules..."))
	if req.AI != nil {
		fmt.Fprintln(s.out, stepStyle.Render("Step 3: Asking the AI for human-like passwords..."))
	}

	res, err := generate.Run(ctx, req, s.log)
	if err != nil {
		return err
	}
	reportEnhancement(s.out, res)

	if res.Words.Len() == 0 {
		printPanel(s.out, "Nothing to Save", warnStyle.Render("The facts file produced no passwords."), colorYellow)
		return nil
	}
	return s.save(ctx, res)
}

// askAI collects the AI-assisted settings. A nil request means the user
// declined or gave no usable key, and the run continues in normal mode.
func (s *session) askAI() (*generate.AIRequest, error) {
	printPanel(s.out, "", warnStyle.Render("AI-Assisted mode may incur API costs.")+"\n"+boldStyle.Render("Continue? (y/n)"), colorYellow)
	confirm, err := s.ask("> ")
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(confirm, "y") {
		return nil, nil
	}

	count := enhance.DefaultCount
	if n := s.cfg.Count(); n > 0 {
		count = enhance.NormalizeCount(n)
	}
	reply, err := s.ask(fmt.Sprintf("How many new AI passwords? (default: %d): ", count))
	if err != nil {
		return nil, err
	}
	if n, convErr := strconv.Atoi(reply); convErr == nil && n >= 1 && n <= enhance.MaxCount {
		count = n
	}

	fmt.Fprintln(s.out, cyanStyle.Render("Select AI provider:")+" (1) Google Gemini (2) OpenRouter")
	pick, err := s.ask("Enter choice: ")
	if err != nil {
		return nil, err
	}
	provider, ok := llm.ProviderForChoice(pick)
	if !ok {
		provider = llm.ProviderGoogle
	}

	key, err := s.ask("Please enter your API key (blank uses the configured key): ")
	if err != nil {
		return nil, err
	}
	if key == "" {
		key = s.cfg.APIKeyForProvider(provider).Value
	}
	if key == "" {
		fmt.Fprintln(s.out, warnStyle.Render("No API key available, continuing in normal mode."))
		return nil, nil
	}

	llmCfg := llm.Config{Provider: provider, APIKey: key}
	if provider == llm.ProviderOpenRouter {
		model, err := s.ask("Enter OpenRouter model (e.g., mistralai/mistral-7b-instruct): ")
		if err != nil {
			return nil, err
		}
		llmCfg.Model = model
	} else if parsed, perr := llm.ParseLLMFlag(s.cfg.LLM.Value); perr == nil && parsed.Provider == llm.ProviderGoogle {
		llmCfg.Model = parsed.Model
	}

	return &generate.AIRequest{LLM: llmCfg, Count: count, SampleCap: s.cfg.AISampleCap}, nil
}

func (s *session) save(ctx context.Context, res generate.Result) error {
	format, err := output.ParseFormat(s.cfg.Format.Value)
	if err != nil {
		return err
	}
	filename := res.Filename(format)

	printPanel(s.out, "Ready to Save", fmt.Sprintf("The wordlist contains %s passwords.", cyanStyle.Render(fmt.Sprint(res.Words.Len()))), colorCyan)
	fmt.Fprintln(s.out, "\n"+boldStyle.Render("Save location?")+" (1) Current directory (default) (2) Custom directory")
	choice, err := s.ask("Enter choice: ")
	if err != nil {
		return nil
	}

	dir := s.cfg.OutputDir.Value
	if choice == "2" {
		dir = ""
		for dir == "" {
			custom, err := s.ask("Enter full directory path: ")
			if err != nil {
				fmt.Fprintln(s.out, "\n"+errorStyle.Render("No directory given, nothing saved."))
				return nil
			}
			if custom == "" {
				continue
			}
			if _, err := output.ResolveDestination(custom, filename); err != nil {
				if errors.Is(err, output.ErrSensitivePath) {
					printPanel(s.out, "Warning", errorStyle.Render("SECURITY WARNING: Not allowed."), colorRed)
				} else {
					fmt.Fprintln(s.out, warnStyle.Render("Directory does not exist."))
				}
				continue
			}
			dir = custom
		}
	}

	path, err := output.ResolveDestination(dir, filename)
	if err != nil {
		printPanel(s.out, "Error", errorStyle.Render("Failed to save file: ")+err.Error(), colorRed)
		return nil
	}
	if err := output.Write(ctx, path, res.Words.Sorted(), format, res.Meta()); err != nil {
		printPanel(s.out, "Error", errorStyle.Render("Failed to save file: ")+err.Error(), colorRed)
		return nil
	}
	s.log.Info("wordlist written",
		zap.String("run_id", res.RunID),
		zap.String("path", path),
		zap.Int("count", res.Words.Len()),
	)
	printPanel(s.out, "Generation Complete", summary(res.Words.Len(), path), colorGreen)
	return nil
}
