package enhance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ggsatyam/meowpass/internal/facts"
)

// SystemPrompt frames the model for the task.
const SystemPrompt = "You are a security researcher who studies how people choose passwords. " +
	"You help authorized auditors build personalized wordlists."

// BuildPrompt renders the user prompt: the target's facts as indented JSON,
// a comma-joined sample of machine-generated guesses and the number of new
// passwords wanted.
func BuildPrompt(f facts.Facts, sample []string, count int) (string, error) {
	if f == nil {
		f = facts.Facts{}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding facts: %w", err)
	}

	var b strings.Builder
	b.WriteString("Study the target's personal data and the sample of computer-generated password guesses below.\n")
	fmt.Fprintf(&b, "Propose %d new, creative, human-like passwords that simple mangling rules would likely miss.\n", count)
	b.WriteString("\n--- Target's Data ---\n")
	b.Write(data)
	b.WriteString("\n\n--- Computer Guess Sample ---\n")
	b.WriteString(strings.Join(sample, ", "))
	fmt.Fprintf(&b, "\n\nGenerate %d new passwords. Return ONLY a comma-separated list and nothing else.", count)
	return b.String(), nil
}
