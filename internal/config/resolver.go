package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ggsatyam/meowpass/internal/wordgen"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath string
	CLIFacts   string
	CLIOutDir  string
	CLIFormat  string
	CLILLM     string
	CLIAPIKey  string
	CLICount   int
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	FactsPath ResolvedValue `json:"facts_path"`
	OutputDir ResolvedValue `json:"output_dir"`
	Format    ResolvedValue `json:"format"`
	LLM       ResolvedValue `json:"llm"`
	AICount   ResolvedValue `json:"ai_count"`

	LLMKeys map[string]ResolvedValue `json:"llm_keys,omitempty"`

	AISampleCap int           `json:"ai_sample_cap"`
	Rules       wordgen.Rules `json:"-"`
}

// DefaultFactsPath is used when nothing else names a facts document.
const DefaultFactsPath = "data.json"

type fileConfig struct {
	Facts     string `yaml:"facts"`
	OutputDir string `yaml:"output_dir"`
	Format    string `yaml:"format"`
	LLM       struct {
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"llm"`
	AI struct {
		Count     int `yaml:"count"`
		SampleCap int `yaml:"sample_cap"`
	} `yaml:"ai"`
	Mangle struct {
		Years     []string          `yaml:"years"`
		Symbols   []string          `yaml:"symbols"`
		Leet      map[string]string `yaml:"leet"`
		SuffixMin *int              `yaml:"suffix_min"`
		SuffixMax *int              `yaml:"suffix_max"`
		SampleCap *int              `yaml:"sample_cap"`
	} `yaml:"mangle"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".meowpass", "config.yaml")
}

// ResolveConfig merges built-in defaults, the YAML config file, environment
// variables and CLI flags, in increasing order of precedence.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath: path,
		FactsPath:  ResolvedValue{Value: DefaultFactsPath, Source: SourceDefault, From: "built-in default"},
		Format:     ResolvedValue{Value: "json", Source: SourceDefault, From: "built-in default"},
		AICount:    ResolvedValue{Value: "50", Source: SourceDefault, From: "built-in default"},
		LLMKeys:    map[string]ResolvedValue{},
		Rules:      wordgen.DefaultRules(),
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.FactsPath, cfg.Facts, SourceConfig, path)
		apply(&out.OutputDir, cfg.OutputDir, SourceConfig, path)
		apply(&out.Format, cfg.Format, SourceConfig, path)
		apply(&out.LLM, cfg.LLM.Provider, SourceConfig, path)
		if cfg.AI.Count != 0 {
			apply(&out.AICount, strconv.Itoa(cfg.AI.Count), SourceConfig, path)
		}
		out.AISampleCap = cfg.AI.SampleCap

		if key := strings.TrimSpace(cfg.LLM.APIKey); key != "" {
			p := providerOf(cfg.LLM.Provider)
			if p == "" {
				p = "default"
			}
			out.LLMKeys[p] = ResolvedValue{Value: key, Source: SourceConfig, From: path}
		}

		if err := applyMangle(&out.Rules, cfg); err != nil {
			return out, fmt.Errorf("%s: %w", path, err)
		}
	}

	applyEnv(&out.FactsPath, "MEOWPASS_FACTS")
	applyEnv(&out.OutputDir, "MEOWPASS_OUTPUT_DIR")
	applyEnv(&out.Format, "MEOWPASS_FORMAT")
	applyEnv(&out.LLM, "MEOWPASS_LLM")
	applyEnv(&out.AICount, "MEOWPASS_AI_COUNT")

	for _, kv := range [][2]string{
		{"GEMINI_API_KEY", "google"},
		{"GOOGLE_API_KEY", "google"},
		{"OPENROUTER_API_KEY", "openrouter"},
	} {
		env, provider := kv[0], kv[1]
		if v, ok := out.LLMKeys[provider]; ok && v.Source == SourceEnv {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			out.LLMKeys[provider] = ResolvedValue{Value: v, Source: SourceEnv, From: env}
		}
	}

	apply(&out.FactsPath, opts.CLIFacts, SourceCLI, "--facts")
	apply(&out.OutputDir, opts.CLIOutDir, SourceCLI, "--out")
	apply(&out.Format, opts.CLIFormat, SourceCLI, "--format")
	apply(&out.LLM, opts.CLILLM, SourceCLI, "--llm")
	if opts.CLICount != 0 {
		apply(&out.AICount, strconv.Itoa(opts.CLICount), SourceCLI, "--count")
	}
	if key := strings.TrimSpace(opts.CLIAPIKey); key != "" {
		p := providerOf(out.LLM.Value)
		if p == "" {
			p = "default"
		}
		out.LLMKeys[p] = ResolvedValue{Value: key, Source: SourceCLI, From: "--api-key"}
	}

	if out.FactsPath.Value != "" {
		out.FactsPath.Value = expandUserPath(out.FactsPath.Value)
	}
	if out.OutputDir.Value != "" {
		out.OutputDir.Value = expandUserPath(out.OutputDir.Value)
	}

	if err := out.Rules.Validate(); err != nil {
		return out, fmt.Errorf("invalid mangle rules: %w", err)
	}
	return out, nil
}

// Count returns the resolved AI password count; unparsable values yield 0,
// which the enhancer treats as its default.
func (r ResolvedConfig) Count() int {
	n, err := strconv.Atoi(strings.TrimSpace(r.AICount.Value))
	if err != nil {
		return 0
	}
	return n
}

func (r ResolvedConfig) APIKeyForProvider(providerOrModel string) ResolvedValue {
	provider := providerOf(providerOrModel)
	if provider == "" {
		return ResolvedValue{}
	}
	if v, ok := r.LLMKeys[provider]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	if v, ok := r.LLMKeys["default"]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	return ResolvedValue{}
}

func applyMangle(rules *wordgen.Rules, cfg *fileConfig) error {
	m := cfg.Mangle
	if m.Years != nil {
		rules.Years = append([]string(nil), m.Years...)
	}
	if m.Symbols != nil {
		rules.Symbols = append([]string(nil), m.Symbols...)
	}
	if m.Leet != nil {
		rules.Leet = make(map[rune]string, len(m.Leet))
		for k, v := range m.Leet {
			if utf8.RuneCountInString(k) != 1 {
				return fmt.Errorf("mangle.leet key %q must be a single letter", k)
			}
			r, _ := utf8.DecodeRuneInString(k)
			rules.Leet[r] = v
		}
	}
	if m.SuffixMin != nil {
		rules.SuffixMin = *m.SuffixMin
	}
	if m.SuffixMax != nil {
		rules.SuffixMax = *m.SuffixMax
	}
	if m.SampleCap != nil {
		rules.SampleCap = *m.SampleCap
	}
	return nil
}

func providerOf(providerOrModel string) string {
	v := strings.ToLower(strings.TrimSpace(providerOrModel))
	if v == "" {
		return ""
	}
	if idx := strings.Index(v, "/"); idx > 0 {
		return v[:idx]
	}
	return v
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
