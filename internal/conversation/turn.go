// Package conversation defines the conversation turn model shared by the
// capture and review pipelines, renders turns into the canonical transcript
// form, and selects the budget-bounded window of turns sent to the LLM.
//
// A conversation is an ordered sequence of turns; order is the sole ordering
// key. Nothing in this package re-sorts by timestamp, and nothing here
// mutates a caller's slice.
package conversation

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser is a turn spoken or typed by the human expert.
	RoleUser Role = "user"
	// RoleAssistant is a turn produced by the capture agent.
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the reviewable roles. System and
// internal turns are not part of reviewable history and are rejected at
// the boundary.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is a single message in a capture conversation.
type Turn struct {
	// Role is the author of the turn.
	Role Role `json:"role"`

	// Content is the raw message text.
	Content string `json:"content"`

	// Timestamp is the ISO-8601 time the turn was created. It is treated as
	// an opaque label — rendered into the transcript but never parsed.
	Timestamp string `json:"timestamp"`

	// Emotions maps emotion labels to intensity scores (conventionally 0..1)
	// as reported by the voice-AI provider. Nil or empty means no signal was
	// captured for this turn.
	Emotions map[string]float64 `json:"emotions,omitempty"`
}

// Counts returns the number of user and assistant turns in the conversation.
func Counts(turns []Turn) (user, assistant int) {
	for _, t := range turns {
		switch t.Role {
		case RoleUser:
			user++
		case RoleAssistant:
			assistant++
		}
	}
	return user, assistant
}

// AnyEmotions reports whether any turn in the conversation carries emotion data.
func AnyEmotions(turns []Turn) bool {
	for _, t := range turns {
		if len(t.Emotions) > 0 {
			return true
		}
	}
	return false
}
