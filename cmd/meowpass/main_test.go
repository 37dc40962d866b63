package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggsatyam/meowpass/internal/config"
	"github.com/ggsatyam/meowpass/internal/facts"
	"github.com/ggsatyam/meowpass/internal/output"
	"github.com/ggsatyam/meowpass/internal/wordgen"
)

func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		"MEOWPASS_FACTS", "MEOWPASS_OUTPUT_DIR", "MEOWPASS_FORMAT", "MEOWPASS_LLM", "MEOWPASS_AI_COUNT",
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	prev := configPath
	configPath = filepath.Join(dir, "no-config.yaml")
	t.Cleanup(func() { configPath = prev })
	return dir
}

func writeFacts(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "target.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pet": ["Fluffy"], "year": ["1999"]}`), 0o600))
	return path
}

func TestRunGenerateText(t *testing.T) {
	dir := isolate(t)
	factsPath := writeFacts(t, dir)
	var out bytes.Buffer

	path, err := runGenerate(context.Background(), generateOptions{
		Facts:  factsPath,
		OutDir: dir,
		Format: "txt",
		Seed:   1,
		Seeded: true,
	}, &out, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "meowpass_normal.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Contains(t, lines, "fluffy1999")
	assert.Contains(t, lines, "Fluffy2024")
	assert.Contains(t, out.String(), "Generation Complete")
}

func TestRunGenerateSeededIsReproducible(t *testing.T) {
	dir := isolate(t)
	factsPath := writeFacts(t, dir)

	var first []string
	for i := 0; i < 2; i++ {
		path, err := runGenerate(context.Background(), generateOptions{
			Facts:  factsPath,
			OutDir: dir,
			Seed:   99,
			Seeded: true,
		}, &bytes.Buffer{}, nil)
		require.NoError(t, err)
		words, err := output.ReadJSON(path)
		require.NoError(t, err)
		if first == nil {
			first = words
			continue
		}
		assert.Equal(t, first, words)
	}
}

func TestRunGenerateMissingFacts(t *testing.T) {
	dir := isolate(t)
	_, err := runGenerate(context.Background(), generateOptions{
		Facts:  filepath.Join(dir, "missing.json"),
		OutDir: dir,
	}, &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, facts.ErrNotFound))
}

func TestRunGenerateBadFormat(t *testing.T) {
	dir := isolate(t)
	_, err := runGenerate(context.Background(), generateOptions{
		Facts:  writeFacts(t, dir),
		OutDir: dir,
		Format: "csv",
	}, &bytes.Buffer{}, nil)
	assert.Error(t, err)
}

func TestRunGenerateAIWithoutKeyFallsBack(t *testing.T) {
	dir := isolate(t)
	var out bytes.Buffer

	path, err := runGenerate(context.Background(), generateOptions{
		Facts:  writeFacts(t, dir),
		OutDir: dir,
		AI:     true,
		LLM:    "google",
	}, &out, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "meowpass_normal.json"), path)
	assert.Contains(t, out.String(), "AI Error")
	assert.Contains(t, out.String(), "Continuing with the mechanical wordlist.")
}

func TestRunGenerateSensitiveOutDir(t *testing.T) {
	dir := isolate(t)
	_, err := runGenerate(context.Background(), generateOptions{
		Facts:  writeFacts(t, dir),
		OutDir: "/etc",
	}, &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, output.ErrSensitivePath))
}

func newTestSession(t *testing.T, input string, outDir string) (*session, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.ResolveConfig(config.ResolveOptions{ConfigPath: configPath})
	require.NoError(t, err)
	cfg.OutputDir = config.ResolvedValue{Value: outDir, Source: config.SourceCLI}

	var out bytes.Buffer
	s := newSession(strings.NewReader(input), &out, cfg, nil)
	s.rand = wordgen.NewRand(5)
	return s, &out
}

func TestSessionQuit(t *testing.T) {
	dir := isolate(t)
	s, out := newTestSession(t, "3\n", dir)
	require.NoError(t, s.run(context.Background()))
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestSessionInvalidChoice(t *testing.T) {
	dir := isolate(t)
	s, out := newTestSession(t, "9\n", dir)
	require.NoError(t, s.run(context.Background()))
	assert.Contains(t, out.String(), "Invalid choice.")
}

func TestSessionMissingFacts(t *testing.T) {
	dir := isolate(t)
	s, out := newTestSession(t, "1\n"+filepath.Join(dir, "nope.json")+"\n", dir)
	require.NoError(t, s.run(context.Background()))
	assert.Contains(t, out.String(), "File not found at")
}

func TestSessionCorruptFacts(t *testing.T) {
	dir := isolate(t)
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"pet": `), 0o600))

	s, out := newTestSession(t, "1\n"+bad+"\n", dir)
	require.NoError(t, s.run(context.Background()))
	assert.Contains(t, out.String(), "is corrupt.")
}

func TestSessionNormalCustomDirectory(t *testing.T) {
	dir := isolate(t)
	dest := t.TempDir()
	input := strings.Join([]string{
		"1",
		writeFacts(t, dir),
		"2",
		filepath.Join(dir, "does-not-exist"),
		"/etc",
		dest,
	}, "\n") + "\n"

	s, out := newTestSession(t, input, dir)
	require.NoError(t, s.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Directory does not exist.")
	assert.Contains(t, text, "SECURITY WARNING: Not allowed.")
	assert.Contains(t, text, "Generation Complete")

	words, err := output.ReadJSON(filepath.Join(dest, "meowpass_normal.json"))
	require.NoError(t, err)
	assert.Contains(t, words, "1999fluffy")
}

func TestSessionAIDeclinedWritesNormalList(t *testing.T) {
	dir := isolate(t)
	input := strings.Join([]string{"2", writeFacts(t, dir), "n", "1"}, "\n") + "\n"

	s, out := newTestSession(t, input, dir)
	require.NoError(t, s.run(context.Background()))

	assert.NotContains(t, out.String(), "Step 3")
	_, err := os.Stat(filepath.Join(dir, "meowpass_normal.json"))
	assert.NoError(t, err)
}

func TestSessionAIWithoutKey(t *testing.T) {
	dir := isolate(t)
	// confirm, default count, provider 1, blank key, save in default dir
	input := strings.Join([]string{"2", writeFacts(t, dir), "y", "", "1", "", "1"}, "\n") + "\n"

	s, out := newTestSession(t, input, dir)
	require.NoError(t, s.run(context.Background()))

	assert.Contains(t, out.String(), "No API key available")
	_, err := os.Stat(filepath.Join(dir, "meowpass_normal.json"))
	assert.NoError(t, err)
}

func TestSessionEmptyFacts(t *testing.T) {
	dir := isolate(t)
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0o600))

	s, out := newTestSession(t, "1\n"+empty+"\n", dir)
	require.NoError(t, s.run(context.Background()))
	assert.Contains(t, out.String(), "produced no passwords")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "meowpass "+version+"\n", out.String())
}
