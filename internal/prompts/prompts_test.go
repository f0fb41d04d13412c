package prompts

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

func Test_Resolve_DefaultTable(t *testing.T) {
	t.Parallel()
	for _, key := range Methods() {
		got, err := Resolve(key, nil)
		if err != nil {
			t.Fatalf("Resolve(%q, nil) error: %v", key, err)
		}
		if !strings.Contains(got, "You are Spark") {
			t.Errorf("Resolve(%q) does not look like a method prompt", key)
		}
	}
}

func Test_Resolve_UnknownKey(t *testing.T) {
	t.Parallel()
	_, err := Resolve("5", nil)
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("want ErrUnknownMethod, got %v", err)
	}
}

// An absent override table, an empty one, and an empty-string entry all
// resolve to the default.
func Test_Resolve_EmptyOverrideFallsBack(t *testing.T) {
	t.Parallel()

	def, err := Resolve(MethodNarrative, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, overrides := range []map[string]string{
		{},
		{MethodNarrative: ""},
		{MethodQuestionnaire: "other method overridden"},
	} {
		got, err := Resolve(MethodNarrative, overrides)
		if err != nil {
			t.Fatal(err)
		}
		if got != def {
			t.Errorf("override table %v changed resolution", overrides)
		}
	}
}

func Test_Resolve_OverrideWins(t *testing.T) {
	t.Parallel()
	got, err := Resolve(MethodSimulation, map[string]string{MethodSimulation: "custom prompt"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "custom prompt" {
		t.Errorf("got %q, want the override", got)
	}
}

func Test_Substitute_Basic(t *testing.T) {
	t.Parallel()
	got := Substitute("Hello {user_name}, expert in {user_domain}.", map[string]string{
		"user_name":   "Tim",
		"user_domain": "Advertising",
	})
	want := "Hello Tim, expert in Advertising."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func Test_Substitute_Fallbacks(t *testing.T) {
	t.Parallel()
	got := Substitute("Hi {user_name} ({user_history}); stories: {retrieved_stories}.", nil)
	want := "Hi User (Software development experience); stories: ."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// A supplied empty string counts as supplied — it must not fall back.
func Test_Substitute_EmptyValueIsSupplied(t *testing.T) {
	t.Parallel()
	got := Substitute("[{user_name}]", map[string]string{"user_name": ""})
	if got != "[]" {
		t.Errorf("got %q, want %q", got, "[]")
	}
}

// Unknown placeholders with no fallback are left verbatim, never swallowed.
func Test_Substitute_UnknownPlaceholderKeptVerbatim(t *testing.T) {
	t.Parallel()
	got := Substitute("see {no_such_var} here", nil)
	if got != "see {no_such_var} here" {
		t.Errorf("got %q", got)
	}
}

// Replacement text is never re-scanned: a value containing a placeholder
// survives as literal text.
func Test_Substitute_NoRecursion(t *testing.T) {
	t.Parallel()
	got := Substitute("{user_name}", map[string]string{
		"user_name": "{user_domain}",
	})
	if got != "{user_domain}" {
		t.Errorf("got %q, replacement text was re-scanned", got)
	}
}

// Braces that do not form a valid placeholder pass through untouched.
func Test_Substitute_MalformedBraces(t *testing.T) {
	t.Parallel()
	cases := []string{
		"open only {user_name",
		"empty {} braces",
		"spaced { user_name } braces",
		"json-ish {\"k\": 1}",
	}
	for _, in := range cases {
		if got := Substitute(in, nil); got != in {
			t.Errorf("Substitute(%q) = %q, want unchanged", in, got)
		}
	}
}

// Substituting a full variable map over every default template leaves no
// placeholder tokens behind.
func Test_Substitute_NoLeakageWhenComplete(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"user_name":         "Tim",
		"user_domain":       "Advertising",
		"user_history":      "Working at Publicis",
		"chat_history":      "USER: hi",
		"retrieved_stories": "Story 1",
		"retrieved_data":    "Data",
		"missing_elements":  "none",
		"user_fatigue":      "Low fatigue",
	}
	placeholder := regexp.MustCompile(`\{[A-Za-z0-9_]+\}`)

	for _, key := range Methods() {
		tmpl, err := Resolve(key, nil)
		if err != nil {
			t.Fatal(err)
		}
		got := Substitute(tmpl, vars)
		if leak := placeholder.FindString(got); leak != "" {
			t.Errorf("method %s: placeholder %q leaked into output", key, leak)
		}
	}
}
