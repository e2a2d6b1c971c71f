package drill

// CharState is the highlight state of one character of the current word.
type CharState int

const (
	// Pending characters are not reached yet.
	Pending CharState = iota
	// Current is the character under the cursor.
	Current
	// Correct characters are part of the typed prefix.
	Correct
)

// CharStates returns the state of every rune of word given a typed prefix
// of typed runes. typed is clamped to the word length.
func CharStates(word string, typed int) []CharState {
	runes := []rune(word)
	if typed < 0 {
		typed = 0
	}
	if typed > len(runes) {
		typed = len(runes)
	}
	out := make([]CharState, len(runes))
	for i := range runes {
		switch {
		case i < typed:
			out[i] = Correct
		case i == typed:
			out[i] = Current
		default:
			out[i] = Pending
		}
	}
	return out
}
