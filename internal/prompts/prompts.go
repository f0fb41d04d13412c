// Package prompts holds the built-in capture-method prompt templates and the
// two-tier resolution and substitution logic used to produce the effective
// system prompt for a capture session.
//
// Four canonical capture methods exist, keyed "1".."4". A caller-supplied
// override table takes precedence per key over the built-in defaults; the
// core never reaches into ambient storage for overrides — callers load them
// and pass them in.
package prompts

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMethod is returned when a method key outside the built-in table
// is requested. This is an integration error: it is never silently defaulted.
var ErrUnknownMethod = errors.New("prompts: unknown method key")

// Method key constants for the four capture methods.
const (
	MethodNarrative     = "1"
	MethodQuestionnaire = "2"
	MethodSimulation    = "3"
	MethodProtocol      = "4"
)

// Resolve returns the effective template for methodKey: the override table
// entry when present and non-empty, else the built-in default. A key absent
// from the default table fails with ErrUnknownMethod.
func Resolve(methodKey string, overrides map[string]string) (string, error) {
	def, ok := defaults[methodKey]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, methodKey)
	}
	if o := overrides[methodKey]; o != "" {
		return o, nil
	}
	return def, nil
}

// Default returns the built-in template for methodKey, failing with
// ErrUnknownMethod for keys outside the table.
func Default(methodKey string) (string, error) {
	return Resolve(methodKey, nil)
}

// Methods returns the sorted set of valid method keys.
func Methods() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MethodName returns the human-readable name of a capture method, or the
// empty string for an unknown key.
func MethodName(methodKey string) string {
	switch methodKey {
	case MethodNarrative:
		return "Narrative Storytelling Elicitation"
	case MethodQuestionnaire:
		return "Targeted Questioning and Probing"
	case MethodSimulation:
		return "Observational Simulation and Shadowing"
	case MethodProtocol:
		return "Protocol Analysis and Think-Aloud"
	default:
		return ""
	}
}
