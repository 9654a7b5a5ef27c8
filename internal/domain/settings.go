// File: internal/domain/settings.go
package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Defaults applied to every chat turn before caller overrides.
const (
	DefaultTemperature   = 0.5
	DefaultMaxTokens     = 300
	DefaultPersonality   = "balanced"
	DefaultContextMemory = 10
)

// Accepted ranges. Values outside them are treated as malformed.
const (
	MinTemperature    = 0.0
	MaxTemperature    = 2.0
	MaxResponseTokens = 4000
	MaxContextMemory  = 100
)

// AISettings is the per-request generation configuration. It is not stored
// on its own; assistant messages keep a snapshot of it.
type AISettings struct {
	Temperature   float64 `json:"temperature"`
	MaxTokens     int     `json:"maxTokens"`
	Personality   string  `json:"personality"`
	ContextMemory int     `json:"contextMemory"`
}

func DefaultAISettings() AISettings {
	return AISettings{
		Temperature:   DefaultTemperature,
		MaxTokens:     DefaultMaxTokens,
		Personality:   DefaultPersonality,
		ContextMemory: DefaultContextMemory,
	}
}

// MergeAISettings merges a raw JSON settings object over the defaults,
// field by field. Missing, malformed or out-of-range fields keep their
// default; numeric strings such as "0.7" are accepted. A payload that is
// not a JSON object yields the defaults.
func MergeAISettings(raw json.RawMessage) AISettings {
	out := DefaultAISettings()

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return out
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out
	}

	if v, ok := coerceFloat(fields["temperature"]); ok && v >= MinTemperature && v <= MaxTemperature {
		out.Temperature = v
	}
	if v, ok := coerceInt(fields["maxTokens"]); ok && v >= 1 && v <= MaxResponseTokens {
		out.MaxTokens = v
	}
	if v, ok := coerceString(fields["personality"]); ok {
		out.Personality = strings.ToLower(v)
	}
	if v, ok := coerceInt(fields["contextMemory"]); ok && v >= 0 && v <= MaxContextMemory {
		out.ContextMemory = v
	}
	return out
}

func coerceFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// coerceInt truncates fractional values toward zero.
func coerceInt(raw json.RawMessage) (int, bool) {
	f, ok := coerceFloat(raw)
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func coerceString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
