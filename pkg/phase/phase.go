// Package phase implements the tutoring phase state machine of the
// display controller.
package phase

// Phase is one of the mutually exclusive tutoring modes.
type Phase int

// Tutoring phases, in wire order: PHASE:n selects the n-th value.
const (
	Off Phase = iota
	Embossing
	CharacterID
	Morphology
	Sentence
	Gamification
	Freehand

	numPhases = iota
)

var phaseNames = [numPhases]string{
	"off", "embossing", "character-id", "morphology",
	"sentence", "gamification", "freehand",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= numPhases {
		return "invalid"
	}
	return phaseNames[p]
}

// FromInt converts a wire phase number.
func FromInt(n int) (Phase, bool) {
	if n < 0 || n >= numPhases {
		return Off, false
	}
	return Phase(n), true
}

// entryText is the fixed glyph sequence shown when entering a phase.
// Phases for open composition start blank.
func entryText(p Phase) string {
	switch p {
	case Embossing:
		return "DOTS"
	case CharacterID:
		return "ABC"
	case Gamification:
		return "GAME"
	}
	return ""
}
