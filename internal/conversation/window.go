package conversation

import (
	"fmt"
	"strings"
)

// truncationNotice is the line prepended to a transcript when earlier turns
// were dropped. The wording is part of the transcript contract — the review
// prompt tells the model what it means.
const truncationNotice = "[TRUNCATED: %d earlier messages omitted due to length]\n\n"

// Transcript is the budget-bounded rendering of a conversation produced by
// Select. It is derived data — the input turns are never mutated or retained.
type Transcript struct {
	// Included is the contiguous suffix of the input conversation that fit
	// the budget, in original chronological order.
	Included []Turn

	// DroppedCount is the number of earlier turns that did not fit.
	DroppedCount int

	// RenderedText is the formatted transcript, prefixed with a truncation
	// notice when DroppedCount > 0.
	RenderedText string

	// EstimatedTokens is the summed estimated size of the included blocks.
	EstimatedTokens int
}

// Truncated reports whether any turns were dropped.
func (t Transcript) Truncated() bool { return t.DroppedCount > 0 }

// Select chooses the maximal suffix of turns whose formatted sizes fit within
// totalBudgetTokens after subtracting the fixed prompt overhead and the
// reserve held back for the model's reply. Turns are scanned most-recent
// first; the first turn that would overflow the remaining budget stops the
// scan, dropping it and everything earlier. A turn is never force-included
// over budget, so the result can legitimately contain zero turns.
//
// Select is total: any input, including an empty conversation or a
// non-positive available budget, produces a normal Transcript.
func Select(turns []Turn, fixedOverheadTokens, totalBudgetTokens, reservedReplyTokens int) Transcript {
	available := totalBudgetTokens - fixedOverheadTokens - reservedReplyTokens

	start := len(turns)
	running := 0
	if available > 0 {
		for start > 0 {
			_, size := Format(turns[start-1])
			if running+size > available {
				break
			}
			running += size
			start--
		}
	}

	included := make([]Turn, len(turns)-start)
	copy(included, turns[start:])

	var sb strings.Builder
	if start > 0 {
		fmt.Fprintf(&sb, truncationNotice, start)
	}
	for _, t := range included {
		block, _ := Format(t)
		sb.WriteString(block)
	}

	return Transcript{
		Included:        included,
		DroppedCount:    start,
		RenderedText:    sb.String(),
		EstimatedTokens: running,
	}
}
