package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/iyunix/go-saber/internal/domain"
)

func newTitles(gen *fakeGenerator) *TitleGenerator {
	return NewTitleGenerator(DefaultConfig(), DefaultPrompts(), gen, nopLogger{})
}

func TestTitleGenerate_FailingProviderUsesLeadingWords(t *testing.T) {
	titles := newTitles(&fakeGenerator{titleErr: errProvider})

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"short message kept", "Explain photosynthesis", "Explain photosynthesis"},
		{"first five words", "what is the capital of france please", "what is the capital of"},
		{"whitespace collapsed", "  how   do\tvolcanoes\nwork  ", "how do volcanoes work"},
		{"cut words get ellipsis", "Supercalifragilisticexpialidocious antidisestablishmentarianism", "Supercalifragilisticexpialidocious antid..."},
		{"no trailing space before ellipsis", "Characterization electroencephalography neuropsychopharmacology", "Characterization electroencephalography..."},
		{"exactly forty runes", strings.Repeat("a", 40), strings.Repeat("a", 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles.Generate(context.Background(), tt.message, domain.DefaultAISettings())
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTitleGenerate_EmptyMessageSkipsProvider(t *testing.T) {
	gen := &fakeGenerator{title: "Should not be used"}
	titles := newTitles(gen)

	for _, msg := range []string{"", "   \n\t"} {
		if got := titles.Generate(context.Background(), msg, domain.DefaultAISettings()); got != domain.DefaultConversationTitle {
			t.Fatalf("expected default title, got %q", got)
		}
	}
	if gen.calls() != 0 {
		t.Fatalf("expected no provider calls, got %d", gen.calls())
	}
}

func TestTitleGenerate_PostProcessesProviderOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"quotes stripped", `  "Photosynthesis Basics"  `, "Photosynthesis Basics"},
		{"typographic quotes stripped", "“Cell Division”", "Cell Division"},
		{"long title cut", strings.Repeat("x", 60), strings.Repeat("x", 40)},
		{"too short falls back", "ok", "Explain photosynthesis"},
		{"blank falls back", "  ", "Explain photosynthesis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titles := newTitles(&fakeGenerator{title: tt.raw})
			got := titles.Generate(context.Background(), "Explain photosynthesis", domain.DefaultAISettings())
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTitleGenerate_CapsTemperatureAndBudget(t *testing.T) {
	gen := &fakeGenerator{title: "Fractions"}
	titles := newTitles(gen)

	hot := domain.DefaultAISettings()
	hot.Temperature = 1.8
	titles.Generate(context.Background(), "Help with fractions", hot)

	cold := domain.DefaultAISettings()
	cold.Temperature = 0.2
	titles.Generate(context.Background(), "Help with fractions", cold)

	if len(gen.generateCalls) != 2 {
		t.Fatalf("expected 2 title calls, got %d", len(gen.generateCalls))
	}
	if got := gen.generateCalls[0].Temperature; got != 0.7 {
		t.Fatalf("expected temperature capped at 0.7, got %v", got)
	}
	if got := gen.generateCalls[1].Temperature; got != 0.2 {
		t.Fatalf("expected temperature 0.2 kept, got %v", got)
	}
	req := gen.generateCalls[0]
	if req.MaxTokens != 15 || len(req.StopSequences) == 0 {
		t.Fatalf("expected capped tokens and stop sequences, got %+v", req)
	}
	if !strings.Contains(req.Prompt, "Help with fractions") {
		t.Fatalf("expected message in title prompt, got %q", req.Prompt)
	}
}
