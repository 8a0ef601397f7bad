package sentence

import (
	"strconv"
	"strings"
)

// Values carried by the synthetic root token at position 0
const (
	RootForm  = "<root>"
	RootLemma = "<root-LEMMA>"
	RootPOS   = "<root-POS>"
	RootFeats = "<root-FEAT>"
)

// Sentence is the record passed through the preprocessing stages.
// Position 0 is the root token. A nil annotation slice means the layer
// has not been filled in yet; a non-nil one always has Len() entries.
type Sentence struct {
	Forms []string

	// Lemma per position
	Lemmas []string

	// Coarse part of speech
	CPOS []string

	// Fine part of speech, the tag the tagger predicts
	POS []string

	// Morphological feature string per position, e.g. "num=sg|case=nom"
	Feats []string

	// Index of the head token, 0 for tokens attached to the root
	Heads []int

	// Dependency label of the arc to the head
	Labels []string
}

// New creates a record over a copy of forms. The forms are expected to
// include the root token.
func New(forms []string) *Sentence {
	f := make([]string, len(forms))
	copy(f, forms)
	return &Sentence{Forms: f}
}

// WithRoot prepends the root form to tokens.
func WithRoot(tokens []string) []string {
	out := make([]string, 0, len(tokens)+1)
	out = append(out, RootForm)
	return append(out, tokens...)
}

// Len returns the number of positions, root included.
func (s *Sentence) Len() int {
	return len(s.Forms)
}

// Tokens returns the forms without the root token.
func (s *Sentence) Tokens() []string {
	if len(s.Forms) == 0 {
		return nil
	}
	out := make([]string, len(s.Forms)-1)
	copy(out, s.Forms[1:])
	return out
}

// HasRoot reports whether position 0 holds the root form.
func (s *Sentence) HasRoot() bool {
	return len(s.Forms) > 0 && s.Forms[0] == RootForm
}

// Parsed reports whether the dependency layer is filled in.
func (s *Sentence) Parsed() bool {
	return s.Heads != nil && s.Labels != nil
}

// Clone returns a deep copy. Unset layers stay nil.
func (s *Sentence) Clone() *Sentence {
	return &Sentence{
		Forms:  cloneStrings(s.Forms),
		Lemmas: cloneStrings(s.Lemmas),
		CPOS:   cloneStrings(s.CPOS),
		POS:    cloneStrings(s.POS),
		Feats:  cloneStrings(s.Feats),
		Heads:  cloneInts(s.Heads),
		Labels: cloneStrings(s.Labels),
	}
}

// String renders one tab separated line per non-root token:
// id, form, lemma, pos, feats, head, label. Unset values print as "_".
func (s *Sentence) String() string {
	var b strings.Builder
	for i := 1; i < s.Len(); i++ {
		fields := []string{
			strconv.Itoa(i),
			s.Forms[i],
			at(s.Lemmas, i),
			at(s.POS, i),
			at(s.Feats, i),
			"_",
			at(s.Labels, i),
		}
		if i < len(s.Heads) {
			fields[5] = strconv.Itoa(s.Heads[i])
		}
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// at returns the value at i, or "_" when the layer is unset or empty there.
func at(layer []string, i int) string {
	if i >= len(layer) || layer[i] == "" {
		return "_"
	}
	return layer[i]
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	return out
}
