package commands

import (
	"strings"
	"testing"

	"github.com/megalab/halo/internal/prompts"
)

// TestRootCmd_DescribesCaptureMethods verifies the help text names the same
// four capture methods the prompt registry defines, so the CLI description
// cannot drift from the actual method set.
func TestRootCmd_DescribesCaptureMethods(t *testing.T) {
	t.Parallel()

	long := strings.ToLower(NewRootCmd().Long)

	for _, phrase := range []string{
		"narrative storytelling",
		"targeted questioning",
		"shadowing",
		"think-aloud",
	} {
		if !strings.Contains(long, phrase) {
			t.Errorf("root help text missing method phrase %q", phrase)
		}
	}
}

// TestRootCmd_MethodKeysHaveNames verifies every registered method key has a
// human-readable name to surface in help and prompt listings.
func TestRootCmd_MethodKeysHaveNames(t *testing.T) {
	t.Parallel()

	for _, key := range prompts.Methods() {
		if prompts.MethodName(key) == "" {
			t.Errorf("method %q has no display name", key)
		}
	}
}
