package parse

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/loike/mate-tools/pkg/mate/internalerr"
	"github.com/loike/mate-tools/pkg/mate/sentence"
)

// Direction tells where a rule looks for the head of a dependent.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Any   Direction = "any"
)

// Rule attaches tokens tagged Dependent to the nearest token tagged with
// one of Heads. Tag patterns ending in "*" match by prefix.
type Rule struct {
	Dependent string    `yaml:"dependent"`
	Heads     []string  `yaml:"heads"`
	Direction Direction `yaml:"direction"`
	Label     string    `yaml:"label"`

	// Maximum distance to the head, 0 for no limit
	Window int `yaml:"window"`
}

// Grammar is a head-rule grammar.
type Grammar struct {
	// Tags that may head the sentence, first match wins
	Root         []string `yaml:"root"`
	RootLabel    string   `yaml:"root_label"`
	DefaultLabel string   `yaml:"default_label"`
	Rules        []Rule   `yaml:"rules"`
}

// DefaultGrammar returns a small grammar for Penn Treebank tags.
func DefaultGrammar() Grammar {
	return Grammar{
		Root:         []string{"MD", "VB*"},
		RootLabel:    "ROOT",
		DefaultLabel: "DEP",
		Rules: []Rule{
			{Dependent: "DT", Heads: []string{"NN*"}, Direction: Right, Label: "NMOD"},
			{Dependent: "PRP$", Heads: []string{"NN*"}, Direction: Right, Label: "NMOD"},
			{Dependent: "JJ*", Heads: []string{"NN*"}, Direction: Right, Label: "NMOD", Window: 3},
			{Dependent: "CD", Heads: []string{"NN*"}, Direction: Right, Label: "NMOD", Window: 2},
			{Dependent: "NN*", Heads: []string{"IN"}, Direction: Left, Label: "PMOD", Window: 3},
			{Dependent: "NN*", Heads: []string{"NN*"}, Direction: Right, Label: "NMOD", Window: 1},
			{Dependent: "NN*", Heads: []string{"VB*", "MD"}, Direction: Any, Label: "SBJ"},
			{Dependent: "PRP", Heads: []string{"VB*", "MD"}, Direction: Any, Label: "SBJ"},
			{Dependent: "RB*", Heads: []string{"VB*", "JJ*"}, Direction: Any, Label: "ADV"},
			{Dependent: "IN", Heads: []string{"VB*", "NN*"}, Direction: Left, Label: "LOC"},
			{Dependent: "VB*", Heads: []string{"MD"}, Direction: Left, Label: "VC"},
		},
	}
}

// LoadGrammar reads a grammar from a YAML file. Labels left empty take the
// defaults of DefaultGrammar.
func LoadGrammar(path string) (Grammar, error) {
	var g Grammar

	data, err := os.ReadFile(path)
	if err != nil {
		return g, err
	}
	if err := yaml.Unmarshal(data, &g); err != nil {
		return g, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidModel, path, err)
	}

	def := DefaultGrammar()
	if g.RootLabel == "" {
		g.RootLabel = def.RootLabel
	}
	if g.DefaultLabel == "" {
		g.DefaultLabel = def.DefaultLabel
	}
	for i, r := range g.Rules {
		if r.Dependent == "" || len(r.Heads) == 0 {
			return g, fmt.Errorf("%w: %s: rule %d needs a dependent and heads", internalerr.ErrInvalidModel, path, i)
		}
		switch r.Direction {
		case "":
			g.Rules[i].Direction = Any
		case Left, Right, Any:
		default:
			return g, fmt.Errorf("%w: %s: rule %d has unknown direction %q", internalerr.ErrInvalidModel, path, i, r.Direction)
		}
		if r.Label == "" {
			g.Rules[i].Label = g.DefaultLabel
		}
	}
	return g, nil
}

// HeadRules is a deterministic rule-based dependency parser. It needs the
// part of speech layer and always produces a tree: one token attached to
// the root, no cycles.
type HeadRules struct {
	grammar Grammar
}

// New creates a head-rule parser.
func New(g Grammar) *HeadRules {
	return &HeadRules{grammar: g}
}

// Parse returns a copy of s with heads and labels filled in. s itself is
// left untouched.
func (p *HeadRules) Parse(s *sentence.Sentence) (*sentence.Sentence, error) {
	if s == nil || s.POS == nil {
		return nil, fmt.Errorf("%w: head-rule parsing needs tagged input", internalerr.ErrInvalidInput)
	}
	if len(s.POS) != s.Len() {
		return nil, fmt.Errorf("%w: %d tags for %d forms", internalerr.ErrInvalidInput, len(s.POS), s.Len())
	}

	out := s.Clone()
	n := out.Len()
	heads := make([]int, n)
	labels := make([]string, n)
	for i := range heads {
		heads[i] = -1
	}
	out.Heads, out.Labels = heads, labels
	if n <= 1 {
		return out, nil
	}

	root := p.rootToken(out.POS)
	heads[root] = 0
	labels[root] = p.grammar.RootLabel

	for i := 1; i < n; i++ {
		if i == root {
			continue
		}
		heads[i], labels[i] = root, p.grammar.DefaultLabel
		for _, r := range p.grammar.Rules {
			if !matches(r.Dependent, out.POS[i]) {
				continue
			}
			if h := p.findHead(out.POS, heads, i, r); h > 0 {
				heads[i], labels[i] = h, r.Label
				break
			}
		}
	}
	return out, nil
}

func (p *HeadRules) rootToken(pos []string) int {
	for _, pattern := range p.grammar.Root {
		for i := 1; i < len(pos); i++ {
			if matches(pattern, pos[i]) {
				return i
			}
		}
	}
	return 1
}

// findHead returns the nearest permitted head for i, or -1.
func (p *HeadRules) findHead(pos []string, heads []int, i int, r Rule) int {
	limit := len(pos)
	if r.Window > 0 {
		limit = r.Window
	}
	for d := 1; d <= limit; d++ {
		if r.Direction != Right {
			if j := i - d; j >= 1 && p.permitted(pos, heads, i, j, r) {
				return j
			}
		}
		if r.Direction != Left {
			if j := i + d; j < len(pos) && p.permitted(pos, heads, i, j, r) {
				return j
			}
		}
	}
	return -1
}

func (p *HeadRules) permitted(pos []string, heads []int, dep, head int, r Rule) bool {
	for _, pattern := range r.Heads {
		if matches(pattern, pos[head]) {
			return !reaches(heads, head, dep)
		}
	}
	return false
}

// reaches reports whether following heads from start arrives at target.
func reaches(heads []int, start, target int) bool {
	for steps, cur := 0, start; cur > 0 && steps <= len(heads); steps++ {
		if cur == target {
			return true
		}
		cur = heads[cur]
	}
	return false
}

func matches(pattern, tag string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(tag, prefix)
	}
	return pattern == tag
}
