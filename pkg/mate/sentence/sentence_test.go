package sentence

import (
	"strings"
	"testing"
)

func TestNewCopiesForms(t *testing.T) {
	forms := []string{RootForm, "dogs", "bark"}
	s := New(forms)
	forms[1] = "cats"

	if s.Forms[1] != "dogs" {
		t.Errorf("New should copy forms, got %q", s.Forms[1])
	}
	if s.Len() != 3 {
		t.Errorf("Expected length 3, got %d", s.Len())
	}
	if s.Lemmas != nil || s.POS != nil || s.Feats != nil || s.Heads != nil || s.Labels != nil {
		t.Error("Annotation layers should start unset")
	}
}

func TestWithRoot(t *testing.T) {
	forms := WithRoot([]string{"a", "b"})
	if len(forms) != 3 || forms[0] != RootForm || forms[2] != "b" {
		t.Errorf("Unexpected forms: %v", forms)
	}

	empty := WithRoot(nil)
	if len(empty) != 1 || empty[0] != RootForm {
		t.Errorf("Root should be added to empty input, got %v", empty)
	}
}

func TestTokensDropsRoot(t *testing.T) {
	s := New(WithRoot([]string{"the", "dog"}))
	tokens := s.Tokens()
	if len(tokens) != 2 || tokens[0] != "the" {
		t.Errorf("Expected [the dog], got %v", tokens)
	}
	if !s.HasRoot() {
		t.Error("HasRoot should be true")
	}

	if (&Sentence{}).Tokens() != nil {
		t.Error("Empty sentence should have nil tokens")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New(WithRoot([]string{"dog"}))
	s.POS = []string{RootPOS, "NN"}
	s.Heads = []int{-1, 0}

	c := s.Clone()
	c.POS[1] = "VB"
	c.Heads[1] = 5

	if s.POS[1] != "NN" || s.Heads[1] != 0 {
		t.Error("Clone should not share backing arrays")
	}
	if c.Lemmas != nil {
		t.Error("Unset layers should stay nil in the clone")
	}
}

func TestParsed(t *testing.T) {
	s := New(WithRoot([]string{"dog"}))
	if s.Parsed() {
		t.Error("Fresh sentence should not be parsed")
	}
	s.Heads = []int{-1, 0}
	s.Labels = []string{"", "ROOT"}
	if !s.Parsed() {
		t.Error("Sentence with heads and labels should be parsed")
	}
}

func TestStringRendersUnsetAsUnderscore(t *testing.T) {
	s := New(WithRoot([]string{"dogs", "bark"}))
	s.POS = []string{RootPOS, "NNS", "VBP"}

	out := s.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), out)
	}

	want := "1\tdogs\t_\tNNS\t_\t_\t_"
	if lines[0] != want {
		t.Errorf("Line 1 = %q, want %q", lines[0], want)
	}
}

func TestStringWithParse(t *testing.T) {
	s := New(WithRoot([]string{"dogs", "bark"}))
	s.Heads = []int{-1, 2, 0}
	s.Labels = []string{"", "SBJ", "ROOT"}

	lines := strings.Split(strings.TrimSpace(s.String()), "\n")
	if !strings.HasSuffix(lines[0], "\t2\tSBJ") {
		t.Errorf("Unexpected line: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "\t0\tROOT") {
		t.Errorf("Unexpected line: %q", lines[1])
	}
}

func TestStringShortHeadLayer(t *testing.T) {
	s := New(WithRoot([]string{"dogs", "bark"}))
	s.Heads = []int{0}

	lines := strings.Split(strings.TrimSpace(s.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", lines)
	}
	for _, line := range lines {
		if fields := strings.Split(line, "\t"); fields[5] != "_" {
			t.Errorf("Missing head should print as _, got %q", line)
		}
	}
}
