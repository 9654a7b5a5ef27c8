// File: internal/services/chat/prompts.go
package chat

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPersonality is used when the requested personality is unknown.
const DefaultPersonality = "balanced"

const titleMessagePlaceholder = "{message}"

//go:embed prompts.yaml
var defaultPromptsYAML []byte

// Prompts holds the prose sent to the provider.
type Prompts struct {
	CoreDirective string            `yaml:"core_directive"`
	Personalities map[string]string `yaml:"personalities"`
	Closing       string            `yaml:"closing"`
	Title         string            `yaml:"title"`
}

// DefaultPrompts returns the embedded prompt set.
func DefaultPrompts() *Prompts {
	p, err := parsePrompts(defaultPromptsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts are invalid: %v", err))
	}
	return p
}

// LoadPrompts reads a prompt file. An empty path yields the embedded set.
// Sections missing from the file keep their embedded wording.
func LoadPrompts(path string) (*Prompts, error) {
	if path == "" {
		return DefaultPrompts(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	p := DefaultPrompts()
	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}
	if override.CoreDirective != "" {
		p.CoreDirective = override.CoreDirective
	}
	if override.Closing != "" {
		p.Closing = override.Closing
	}
	if override.Title != "" {
		p.Title = override.Title
	}
	for name, text := range override.Personalities {
		p.Personalities[strings.ToLower(name)] = text
	}
	return p, p.Validate()
}

func parsePrompts(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, p.Validate()
}

func (p *Prompts) Validate() error {
	if strings.TrimSpace(p.CoreDirective) == "" {
		return fmt.Errorf("core_directive is required")
	}
	if p.Personalities[DefaultPersonality] == "" {
		return fmt.Errorf("personality %q is required", DefaultPersonality)
	}
	if !strings.Contains(p.Title, titleMessagePlaceholder) {
		return fmt.Errorf("title prompt must contain %s", titleMessagePlaceholder)
	}
	return nil
}

// SystemPrompt composes the core directive with the personality fragment.
func (p *Prompts) SystemPrompt(personality string) string {
	fragment, ok := p.Personalities[personality]
	if !ok {
		fragment = p.Personalities[DefaultPersonality]
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.CoreDirective))
	b.WriteString("\n\nPERSONALITY: ")
	b.WriteString(strings.TrimSpace(fragment))
	if closing := strings.TrimSpace(p.Closing); closing != "" {
		b.WriteString("\n\n")
		b.WriteString(closing)
	}
	return b.String()
}

func (p *Prompts) TitlePrompt(message string) string {
	return strings.ReplaceAll(p.Title, titleMessagePlaceholder, message)
}
