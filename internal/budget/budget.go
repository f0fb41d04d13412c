// Package budget provides token budget estimation for the HALO review and
// capture pipelines. Because the service supports multiple LLM backends with
// different tokenizers, this package uses a cheap character-based heuristic:
// 1 token ≈ 4 characters (English prose), rounded up. It is an approximation,
// not a real tokenizer — accurate enough to keep transcripts inside a context
// window, not accurate enough for billing.
package budget

const (
	// charsPerToken is the character-to-token ratio used for estimation.
	// 4 chars/token is the standard rule of thumb for English text.
	charsPerToken = 4

	// DefaultTotalBudgetTokens is the total input context budget for a
	// holistic review. 100k fits comfortably inside current large-context
	// models while leaving slack for the heuristic's error.
	DefaultTotalBudgetTokens = 100000

	// DefaultReservedReplyTokens is the slice of the total budget held back
	// for the model's reply during window selection.
	DefaultReservedReplyTokens = 2000

	// DefaultMaxReplyTokens is the cap on the model's reply length requested
	// from the provider for a review.
	DefaultMaxReplyTokens = 1500
)

// Estimate returns a rough token count for s using the character heuristic,
// rounding up. Empty input estimates to zero; the estimate is monotonic in
// input length.
func Estimate(s string) int {
	return (len(s) + charsPerToken - 1) / charsPerToken
}
