package domain

import (
	"encoding/json"
	"testing"
)

func TestMergeAISettings_EmptyObjectUsesDefaults(t *testing.T) {
	got := MergeAISettings(json.RawMessage(`{}`))
	want := AISettings{Temperature: 0.5, MaxTokens: 300, Personality: "balanced", ContextMemory: 10}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMergeAISettings_NilAndNonObject(t *testing.T) {
	for _, raw := range []string{"", "null", `"fast"`, `[1,2]`, `{broken`} {
		if got := MergeAISettings(json.RawMessage(raw)); got != DefaultAISettings() {
			t.Fatalf("payload %q: expected defaults, got %+v", raw, got)
		}
	}
}

func TestMergeAISettings_MalformedFieldFallsBackAlone(t *testing.T) {
	got := MergeAISettings(json.RawMessage(`{"temperature":"bogus","maxTokens":120,"personality":"Friendly"}`))
	if got.Temperature != DefaultTemperature {
		t.Fatalf("expected temperature default, got %v", got.Temperature)
	}
	if got.MaxTokens != 120 {
		t.Fatalf("expected maxTokens 120, got %d", got.MaxTokens)
	}
	if got.Personality != "friendly" {
		t.Fatalf("expected personality friendly, got %q", got.Personality)
	}
	if got.ContextMemory != DefaultContextMemory {
		t.Fatalf("expected contextMemory default, got %d", got.ContextMemory)
	}
}

func TestMergeAISettings_CoercesNumericStrings(t *testing.T) {
	got := MergeAISettings(json.RawMessage(`{"temperature":"0.9","maxTokens":"250","contextMemory":"4"}`))
	if got.Temperature != 0.9 || got.MaxTokens != 250 || got.ContextMemory != 4 {
		t.Fatalf("unexpected coercion result: %+v", got)
	}
}

func TestMergeAISettings_TruncatesFractionalIntegers(t *testing.T) {
	got := MergeAISettings(json.RawMessage(`{"maxTokens":199.8,"contextMemory":"2.5"}`))
	if got.MaxTokens != 199 || got.ContextMemory != 2 {
		t.Fatalf("unexpected truncation result: %+v", got)
	}
}

func TestMergeAISettings_OutOfRangeFallsBack(t *testing.T) {
	got := MergeAISettings(json.RawMessage(`{"temperature":7,"maxTokens":0,"contextMemory":-3}`))
	if got != DefaultAISettings() {
		t.Fatalf("expected defaults for out-of-range values, got %+v", got)
	}
}

func TestMergeAISettings_ZeroValuesAreKept(t *testing.T) {
	got := MergeAISettings(json.RawMessage(`{"temperature":0,"contextMemory":0}`))
	if got.Temperature != 0 || got.ContextMemory != 0 {
		t.Fatalf("expected explicit zeros to be kept, got %+v", got)
	}
}

func TestMessage_SettingsSnapshotRoundTrip(t *testing.T) {
	m := &Message{Role: RoleAssistant}
	if s, err := m.AppliedSettings(); err != nil || s != nil {
		t.Fatalf("expected no snapshot, got %+v, %v", s, err)
	}
	want := AISettings{Temperature: 0.2, MaxTokens: 50, Personality: "technical", ContextMemory: 3}
	if err := m.AttachSettings(want); err != nil {
		t.Fatalf("attach: %v", err)
	}
	got, err := m.AppliedSettings()
	if err != nil || got == nil || *got != want {
		t.Fatalf("expected %+v, got %+v (%v)", want, got, err)
	}
}

func TestUser_PasswordHashing(t *testing.T) {
	u := &User{Name: "Ana", Email: "ana@example.com"}
	if err := u.HashPassword("short"); err == nil {
		t.Fatalf("expected short password to be rejected")
	}
	if err := u.HashPassword("correct horse"); err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := u.ValidatePassword("correct horse"); err != nil {
		t.Fatalf("expected password to validate: %v", err)
	}
	if err := u.ValidatePassword("wrong horse"); err == nil {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}
