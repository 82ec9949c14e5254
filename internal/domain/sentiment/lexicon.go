package sentiment

// Lexicon is the keyword list backing the offline fallback.
type Lexicon struct {
	Positive []string
	Negative []string

	positive map[string]bool
	negative map[string]bool
}

// NewLexicon builds a Lexicon from keyword slices. Keywords are matched as
// whole lowercase tokens.
func NewLexicon(positive, negative []string) Lexicon {
	l := Lexicon{Positive: positive, Negative: negative}
	l.positive = toSet(positive)
	l.negative = toSet(negative)
	return l
}

// DefaultLexicon returns the built-in keyword lists. The negative side grew
// out of the concerning-keyword list used for flagging internship check-ins.
func DefaultLexicon() Lexicon {
	return NewLexicon(
		[]string{
			"learned", "learning", "great", "good", "progress", "completed",
			"finished", "excited", "enjoyed", "productive", "success",
			"successful", "improved", "confident", "achieved", "motivated",
		},
		[]string{
			"struggling", "difficult", "problem", "issue", "confused",
			"stuck", "challenging", "behind", "stressed", "overwhelmed",
			"blocked", "worried", "frustrated", "failing",
		},
	)
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
