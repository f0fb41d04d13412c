package conversation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/megalab/halo/internal/budget"
)

// topEmotions is the number of emotion labels rendered per turn.
const topEmotions = 3

// noEmotions is the emotion line rendered for turns without emotion data.
const noEmotions = "No emotions detected"

// Format renders a turn into its canonical transcript block and returns the
// block together with its estimated token size. The block layout is fixed:
//
//	[<timestamp>] <ROLE>:
//	<content>
//	Emotions: <summary>
//	<blank line>
//
// The trailing blank line is part of the block so that concatenating blocks
// yields exactly one blank line between consecutive turns; the size estimate
// covers the block as transmitted, separator included.
func Format(t Turn) (block string, tokens int) {
	block = fmt.Sprintf("[%s] %s:\n%s\nEmotions: %s\n\n",
		t.Timestamp, strings.ToUpper(string(t.Role)), t.Content, emotionSummary(t.Emotions))
	return block, budget.Estimate(block)
}

// emotionSummary renders the top emotions by descending intensity as
// "label: NN%" pairs, where NN is the intensity ×100 rounded to the nearest
// integer. Ties are broken by label so the output is deterministic even
// though the input is a map.
func emotionSummary(emotions map[string]float64) string {
	if len(emotions) == 0 {
		return noEmotions
	}

	labels := make([]string, 0, len(emotions))
	for label := range emotions {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	sort.SliceStable(labels, func(i, j int) bool {
		return emotions[labels[i]] > emotions[labels[j]]
	})

	if len(labels) > topEmotions {
		labels = labels[:topEmotions]
	}

	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = fmt.Sprintf("%s: %d%%", label, int(math.Round(emotions[label]*100)))
	}
	return strings.Join(parts, ", ")
}
